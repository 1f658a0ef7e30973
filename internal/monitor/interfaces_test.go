package monitor

import (
	"testing"
	"time"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkRow(name string, rx, tx uint64) probes.InterfaceRow {
	return probes.InterfaceRow{Name: name, Network: "<Link#1>", Address: "00:11:22:33:44:55", ReceivedBytes: rx, SentBytes: tx}
}

func TestInterfaces_ReceiveRate(t *testing.T) {
	n := NewInterfaces([]string{"igb0"})
	t0 := time.Unix(1700000000, 0)

	require.NoError(t, n.apply([]probes.InterfaceRow{linkRow("igb0", 1000, 0)}, t0))
	igb0 := n.All()[0]
	assert.False(t, igb0.RatesKnown, "first sample has no baseline")

	require.NoError(t, n.apply([]probes.InterfaceRow{linkRow("igb0", 3000, 500)}, t0.Add(time.Second)))
	assert.True(t, igb0.RatesKnown)
	assert.InDelta(t, 2000.0, igb0.ReceivedRate, 1e-9)
	assert.InDelta(t, 500.0, igb0.SentRate, 1e-9)

	require.NoError(t, n.apply([]probes.InterfaceRow{linkRow("igb0", 4000, 500)}, t0.Add(3*time.Second)))
	assert.InDelta(t, 500.0, igb0.ReceivedRate, 1e-9)
	assert.InDelta(t, 0.0, igb0.SentRate, 1e-9)
}

func TestInterfaces_SameInstantIsUnknown(t *testing.T) {
	n := NewInterfaces([]string{"igb0"})
	t0 := time.Unix(1700000000, 0)

	require.NoError(t, n.apply([]probes.InterfaceRow{linkRow("igb0", 1000, 0)}, t0))
	require.NoError(t, n.apply([]probes.InterfaceRow{linkRow("igb0", 2000, 0)}, t0))
	assert.False(t, n.All()[0].RatesKnown)
}

func TestInterfaces_Addresses(t *testing.T) {
	n := NewInterfaces([]string{"igb0", "igb1"})
	rows := []probes.InterfaceRow{
		linkRow("igb0", 0, 0),
		{Name: "igb0", Network: "203.0.113.0/24", Address: "203.0.113.2"},
		{Name: "igb0", Network: "fe80::%igb0/64", Address: "fe80::211:22ff:fe33:4455%igb0"},
		{Name: "igb0", Network: "2001:db8::/64", Address: "2001:db8::2"},
		linkRow("igb1", 0, 0),
		linkRow("lo0", 0, 0),
		{Name: "lo0", Network: "127.0.0.0/8", Address: "127.0.0.1"},
	}

	require.NoError(t, n.apply(rows, time.Unix(0, 0)))
	assert.Equal(t, []string{"203.0.113.2", "2001:db8::2"}, n.All()[0].Addresses)
	assert.Empty(t, n.All()[1].Addresses)

	// Addresses are replaced, not accumulated
	require.NoError(t, n.apply(rows, time.Unix(1, 0)))
	assert.Len(t, n.All()[0].Addresses, 2)
}

func TestInterfaces_MissingCounters(t *testing.T) {
	n := NewInterfaces([]string{"igb0", "igb1"})

	err := n.apply([]probes.InterfaceRow{linkRow("igb0", 0, 0)}, time.Unix(0, 0))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDecode))
	assert.Contains(t, err.Error(), "igb1")
}
