package sysctl

import (
	"encoding/binary"
	"testing"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bothOrders = []struct {
	name string
	abi  ABI
}{
	{"little", ABI{Order: binary.LittleEndian, LongSize: 8}},
	{"big", ABI{Order: binary.BigEndian, LongSize: 8}},
	{"little32", ABI{Order: binary.LittleEndian, LongSize: 4}},
	{"big32", ABI{Order: binary.BigEndian, LongSize: 4}},
}

func TestParseABI(t *testing.T) {
	abi, err := ParseABI("big", 8)
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, abi.Order)
	assert.Equal(t, 8, abi.LongSize)

	abi, err = ParseABI("Little", 4)
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, abi.Order)

	_, err = ParseABI("middle", 8)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = ParseABI("little", 2)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestDecoder_ByteOrder(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	v, err := NewDecoder(data, ABI{Order: binary.LittleEndian, LongSize: 8}).Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), v)

	v, err = NewDecoder(data, ABI{Order: binary.BigEndian, LongSize: 8}).Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v)

	_, err = NewDecoder(data, DefaultABI).Long()
	assert.Error(t, err, "4 bytes cannot hold an 8-byte long")
}

func TestRoundTrip_MixedWidths(t *testing.T) {
	batch := MustBatch(
		LongField("kern.boottime", 2),
		LongField("hw.physmem", 1),
		UintField("vm.stats.vm.v_page_count"),
		UintField("dev.cpu.0.temperature"),
		VariableLongs("kern.cp_time"),
	)

	for _, tt := range bothOrders {
		t.Run(tt.name, func(t *testing.T) {
			big := uint64(0xFEDCBA9876543210)
			if tt.abi.LongSize == 4 {
				big = 0xFEDCBA98
			}
			want := Values{
				"kern.boottime":            {1700000000, 123456},
				"hw.physmem":               {big},
				"vm.stats.vm.v_page_count": {0xDEADBEEF},
				"dev.cpu.0.temperature":    {3231},
				"kern.cp_time":             {100, 0, 50, 5, 845},
			}

			data, err := batch.Encode(want, tt.abi)
			require.NoError(t, err)
			assert.Len(t, data, tt.abi.LongSize*8+4*2)

			got, err := batch.Decode(data, tt.abi)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRoundTrip_OrderMismatchChangesValues(t *testing.T) {
	batch := MustBatch(UintField("a"), LongField("b", 1))
	want := Values{"a": {1}, "b": {2}}

	data, err := batch.Encode(want, ABI{Order: binary.LittleEndian, LongSize: 8})
	require.NoError(t, err)

	got, err := batch.Decode(data, ABI{Order: binary.BigEndian, LongSize: 8})
	require.NoError(t, err)
	assert.NotEqual(t, want, got)
}

func TestNewBatch_VariableFieldMustBeLast(t *testing.T) {
	_, err := NewBatch(VariableLongs("kern.cp_time"), UintField("vm.stats.vm.v_free_count"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be the last field")

	_, err = NewBatch(UintField("a"), VariableLongs("b"))
	assert.NoError(t, err)

	_, err = NewBatch()
	assert.Error(t, err)

	_, err = NewBatch(UintField("a"), UintField("a"))
	assert.Error(t, err)

	_, err = NewBatch(Field{Name: "a", Kind: Uint})
	assert.Error(t, err, "zero count")

	assert.Panics(t, func() { MustBatch(VariableLongs("x"), UintField("y")) })
}

func TestBatch_FieldCountValidation(t *testing.T) {
	batch := MustBatch(UintField("a"), UintField("b"), VariableLongs("c"))
	abi := DefaultABI
	assert.Equal(t, 8, batch.FixedSize(abi))

	// A missing node on the appliance shortens the output.
	_, err := batch.Decode(make([]byte, 4), abi)
	assert.True(t, errors.IsCode(err, errors.ErrDecode))

	// Variable part must be whole elements.
	_, err = batch.Decode(make([]byte, 8+12), abi)
	assert.True(t, errors.IsCode(err, errors.ErrDecode))

	// Variable part must not be empty.
	_, err = batch.Decode(make([]byte, 8), abi)
	assert.True(t, errors.IsCode(err, errors.ErrDecode))

	vals, err := batch.Decode(make([]byte, 8+8*10), abi)
	require.NoError(t, err)
	assert.Len(t, vals["c"], 10)
}

func TestBatch_TrailingBytes(t *testing.T) {
	batch := MustBatch(UintField("a"))
	_, err := batch.Decode(make([]byte, 6), DefaultABI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing bytes")
}

func TestBatch_Command(t *testing.T) {
	batch := MustBatch(LongField("kern.boottime", 2), UintField("dev.cpu.0.temperature"))
	assert.Equal(t, "/sbin/sysctl -b kern.boottime dev.cpu.0.temperature", batch.Command())
}

func TestEncoder_Overflow(t *testing.T) {
	enc := NewEncoder(DefaultABI)
	assert.Error(t, enc.Put(Uint, 1<<32))
	assert.NoError(t, enc.Put(Long, 1<<32))
	assert.Len(t, enc.Bytes(), 8)
}

func TestValues_Get(t *testing.T) {
	v := Values{"a": {7}}
	assert.Equal(t, uint64(7), v.Get("a", 0))
	assert.Equal(t, uint64(0), v.Get("a", 1))
	assert.Equal(t, uint64(0), v.Get("b", 0))
}

func TestBatch_Describe(t *testing.T) {
	batch := MustBatch(UintField("a"), LongField("b", 2), VariableLongs("c"))
	assert.Equal(t, "a uint\nb long[2]\nc long[]", batch.Describe())
}
