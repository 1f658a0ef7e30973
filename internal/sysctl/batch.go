package sysctl

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/util"
)

// Kind is the C type of one sysctl element.
type Kind int

const (
	// Uint is a C unsigned int, always 4 bytes.
	Uint Kind = iota
	// Long is a C long (or time_t), sized by the ABI.
	Long
)

// Field is one sysctl node in a batch.
type Field struct {
	Name  string
	Kind  Kind
	Count int
	// Variable marks a node whose element count is only known on the
	// appliance. It consumes the rest of the output.
	Variable bool
}

// UintField is a node holding one unsigned int.
func UintField(name string) Field { return Field{Name: name, Kind: Uint, Count: 1} }

// LongField is a node holding count longs.
func LongField(name string, count int) Field { return Field{Name: name, Kind: Long, Count: count} }

// VariableLongs is a node holding an appliance-dependent number of longs.
func VariableLongs(name string) Field { return Field{Name: name, Kind: Long, Variable: true} }

// Batch is an ordered list of sysctl nodes fetched in one invocation.
//
// Output is positional, so a variable-length node can only be decoded when it
// comes last: anything after it would be read at the wrong offset. NewBatch
// rejects any other layout.
type Batch struct {
	fields []Field
}

// NewBatch validates the field layout.
func NewBatch(fields ...Field) (*Batch, error) {
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrDecode, "Empty sysctl batch", "")
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, errors.New(errors.ErrDecode, fmt.Sprintf("sysctl batch field %d has no name", i), "")
		}
		if seen[f.Name] {
			return nil, errors.New(errors.ErrDecode, fmt.Sprintf("sysctl %s appears twice in one batch", f.Name), "")
		}
		seen[f.Name] = true
		if f.Variable && i != len(fields)-1 {
			return nil, errors.New(errors.ErrDecode,
				fmt.Sprintf("Variable-length sysctl %s must be the last field of its batch", f.Name), "")
		}
		if !f.Variable && f.Count < 1 {
			return nil, errors.New(errors.ErrDecode, fmt.Sprintf("sysctl %s has no elements", f.Name), "")
		}
	}
	return &Batch{fields: fields}, nil
}

// MustBatch is NewBatch for layouts fixed at compile time.
func MustBatch(fields ...Field) *Batch {
	b, err := NewBatch(fields...)
	if err != nil {
		panic(err)
	}
	return b
}

// Fields returns the batch layout.
func (b *Batch) Fields() []Field {
	return append([]Field(nil), b.fields...)
}

// Command returns the remote invocation that dumps the batch.
func (b *Batch) Command() string {
	names := make([]string, len(b.fields))
	for i, f := range b.fields {
		names[i] = f.Name
	}
	return util.ShellCommand("/sbin/sysctl", append([]string{"-b"}, names...)...)
}

// FixedSize returns the number of bytes taken by the fixed-length fields.
func (b *Batch) FixedSize(abi ABI) int {
	n := 0
	for _, f := range b.fields {
		if !f.Variable {
			n += f.Count * abi.Width(f.Kind)
		}
	}
	return n
}

// Values holds decoded batch fields by sysctl name.
type Values map[string][]uint64

// Get returns element i of name, or 0 when absent.
func (v Values) Get(name string, i int) uint64 {
	vals := v[name]
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// Decode reads every field from data. The fixed fields must be present in
// full, and the variable field, if any, must be a whole number of elements.
// Any leftover bytes mean the layout does not match the appliance.
func (b *Batch) Decode(data []byte, abi ABI) (Values, error) {
	fixed := b.FixedSize(abi)
	if len(data) < fixed {
		return nil, errors.Decodef(nil,
			"sysctl batch returned %d bytes, want at least %d (%s)", len(data), fixed, abi)
	}

	dec := NewDecoder(data, abi)
	values := make(Values, len(b.fields))
	for _, f := range b.fields {
		count := f.Count
		if f.Variable {
			width := abi.Width(f.Kind)
			rest := dec.Remaining()
			if rest == 0 || rest%width != 0 {
				return nil, errors.Decodef(nil,
					"sysctl %s returned %d bytes, not a whole number of %d-byte values", f.Name, rest, width)
			}
			count = rest / width
		}

		vals := make([]uint64, count)
		for i := range vals {
			v, err := dec.Next(f.Kind)
			if err != nil {
				return nil, errors.Decodef(err, "sysctl %s: short read", f.Name)
			}
			vals[i] = v
		}
		values[f.Name] = vals
	}

	if rest := dec.Remaining(); rest != 0 {
		return nil, errors.Decodef(nil,
			"sysctl batch has %d unexpected trailing bytes; check abi settings (%s)", rest, abi)
	}
	return values, nil
}

// Encode lays out values the way the appliance would. It is the inverse of Decode.
func (b *Batch) Encode(values Values, abi ABI) ([]byte, error) {
	enc := NewEncoder(abi)
	for _, f := range b.fields {
		vals := values[f.Name]
		if !f.Variable && len(vals) != f.Count {
			return nil, fmt.Errorf("sysctl %s: have %d values, want %d", f.Name, len(vals), f.Count)
		}
		for _, v := range vals {
			if err := enc.Put(f.Kind, v); err != nil {
				return nil, fmt.Errorf("sysctl %s: %w", f.Name, err)
			}
		}
	}
	return enc.Bytes(), nil
}

func (f Field) String() string {
	kind := "uint"
	if f.Kind == Long {
		kind = "long"
	}
	if f.Variable {
		return fmt.Sprintf("%s %s[]", f.Name, kind)
	}
	if f.Count == 1 {
		return fmt.Sprintf("%s %s", f.Name, kind)
	}
	return fmt.Sprintf("%s %s[%d]", f.Name, kind, f.Count)
}

// Describe lists the batch layout, one field per line.
func (b *Batch) Describe() string {
	parts := make([]string, len(b.fields))
	for i, f := range b.fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n")
}
