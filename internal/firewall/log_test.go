package firewall

import (
	"fmt"
	"net/netip"
	"testing"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/probes"
	sshtest "github.com/rileyhilliard/fwdash/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tcpRecord(digest string, dstPort int) probes.LogRecord {
	return probes.LogRecord{
		Digest:    digest,
		Timestamp: "2024-05-01T10:00:00",
		Action:    "block",
		Direction: "in",
		Interface: "igb0",
		Reason:    "match",
		IPVersion: "4",
		Protocol:  "6",
		Src:       "198.51.100.9",
		Dst:       "203.0.113.7",
		SrcPort:   "51234",
		DstPort:   fmt.Sprint(dstPort),
	}
}

// newestFirst builds a batch the way the appliance returns it, from
// chronological records.
func newestFirst(chronological ...probes.LogRecord) []probes.LogRecord {
	out := make([]probes.LogRecord, len(chronological))
	for i, rec := range chronological {
		out[len(out)-1-i] = rec
	}
	return out
}

func ports(events []Event) []uint16 {
	out := make([]uint16, len(events))
	for i, ev := range events {
		out[i] = ev.Destination.Port()
	}
	return out
}

func TestLog_InsertsChronologicallyIteratesNewestFirst(t *testing.T) {
	l := NewLog([]string{"igb0"})

	n, err := l.Apply(newestFirst(tcpRecord("a", 1), tcpRecord("b", 2), tcpRecord("c", 3)))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "c", l.Cursor())
	assert.Equal(t, []uint16{3, 2, 1}, ports(l.Events()))
}

func TestLog_CapacityKeepsNewestTen(t *testing.T) {
	l := NewLog([]string{"igb0"})

	var chronological []probes.LogRecord
	for i := 1; i <= 25; i++ {
		chronological = append(chronological, tcpRecord(fmt.Sprintf("d%02d", i), i))
	}

	// Deliver in three fetches with overlapping cursors.
	_, err := l.Apply(newestFirst(chronological[:7]...))
	require.NoError(t, err)
	_, err = l.Apply(newestFirst(chronological[6:15]...))
	require.NoError(t, err)
	_, err = l.Apply(newestFirst(chronological[14:]...))
	require.NoError(t, err)

	events := l.Events()
	require.Len(t, events, Capacity)
	assert.Equal(t, []uint16{25, 24, 23, 22, 21, 20, 19, 18, 17, 16}, ports(events))
}

func TestLog_DedupIdempotent(t *testing.T) {
	l := NewLog([]string{"igb0"})
	batch := newestFirst(tcpRecord("a", 1), tcpRecord("b", 2))

	n, err := l.Apply(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = l.Apply(batch)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, l.Events(), 2)
}

func TestLog_CursorAlreadyAtNewest(t *testing.T) {
	l := NewLog([]string{"igb0"})
	_, err := l.Apply(newestFirst(tcpRecord("b", 2)))
	require.NoError(t, err)
	require.Equal(t, "b", l.Cursor())

	// Records a then b, b being the cursor: nothing new.
	n, err := l.Apply(newestFirst(tcpRecord("a", 1), tcpRecord("b", 2)))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "b", l.Cursor())
}

func TestLog_StopsAtCursor(t *testing.T) {
	l := NewLog([]string{"igb0"})
	_, err := l.Apply(newestFirst(tcpRecord("a", 1)))
	require.NoError(t, err)

	// The appliance repeats the cursor record at the tail of the next batch.
	n, err := l.Apply(newestFirst(tcpRecord("a", 1), tcpRecord("b", 2), tcpRecord("c", 3)))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "c", l.Cursor())
	assert.Equal(t, []uint16{3, 2, 1}, ports(l.Events()))
}

func TestLog_Filters(t *testing.T) {
	mutate := map[string]func(*probes.LogRecord){
		"default policy":  func(r *probes.LogRecord) { r.Reason = "state-mismatch" },
		"outbound":        func(r *probes.LogRecord) { r.Direction = "out" },
		"other interface": func(r *probes.LogRecord) { r.Interface = "igb1" },
		"other action":    func(r *probes.LogRecord) { r.Action = "rdr" },
		"other protocol":  func(r *probes.LogRecord) { r.Protocol = "47" },
		"icmpv6 on v4":    func(r *probes.LogRecord) { r.Protocol = "58" },
		"other version":   func(r *probes.LogRecord) { r.IPVersion = "" },
	}

	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			l := NewLog([]string{"igb0"})
			kept := tcpRecord("k", 1)
			dropped := tcpRecord("x", 2)
			fn(&dropped)

			n, err := l.Apply(newestFirst(kept, dropped))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, []uint16{1}, ports(l.Events()))
			assert.Equal(t, "x", l.Cursor(), "cursor moves to the newest record even when it is filtered out")
		})
	}
}

func TestLog_Protocols(t *testing.T) {
	l := NewLog([]string{"igb0"})

	icmp4 := tcpRecord("1", 0)
	icmp4.Protocol, icmp4.SrcPort, icmp4.DstPort = "1", "", ""

	udp6 := tcpRecord("2", 53)
	udp6.IPVersion, udp6.Protocol = "6", "17"
	udp6.Src, udp6.Dst = "2001:db8:1:2:3::9", "2001:db8::1"

	icmp6 := tcpRecord("3", 0)
	icmp6.IPVersion, icmp6.Protocol = "6", "58"
	icmp6.Src, icmp6.Dst = "2001:db8::9", "2001:db8::1"
	icmp6.Action = "pass"

	_, err := l.Apply(newestFirst(icmp4, udp6, icmp6))
	require.NoError(t, err)

	events := l.Events()
	require.Len(t, events, 3)

	assert.Equal(t, ICMP, events[0].Protocol)
	assert.Equal(t, Pass, events[0].Action)
	assert.Equal(t, netip.MustParseAddr("2001:db8::9"), events[0].Source.Addr())

	assert.Equal(t, UDP, events[1].Protocol)
	assert.Equal(t, netip.MustParseAddrPort("[2001:db8::1]:53"), events[1].Destination)

	assert.Equal(t, ICMP, events[2].Protocol)
	assert.Equal(t, Block, events[2].Action)
	assert.Zero(t, events[2].Source.Port())
}

func TestLog_BadRecordIsDecodeError(t *testing.T) {
	tests := map[string]func(*probes.LogRecord){
		"bad address":     func(r *probes.LogRecord) { r.Src = "not-an-ip" },
		"family mismatch": func(r *probes.LogRecord) { r.Dst = "2001:db8::1" },
		"bad port":        func(r *probes.LogRecord) { r.DstPort = "70000" },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			rec := tcpRecord("a", 1)
			fn(&rec)
			_, err := NewLog([]string{"igb0"}).Apply([]probes.LogRecord{rec})
			assert.True(t, errors.IsCode(err, errors.ErrDecode))
		})
	}
}

func TestLog_Update(t *testing.T) {
	m := sshtest.NewMockClient("fw")
	m.SetOutput("/usr/local/sbin/configctl filter read log 100",
		`[{"__digest__":"b","__timestamp__":"t2","action":"block","dir":"in","interface":"igb0","reason":"match","ipversion":"4","protonum":"17","src":"198.51.100.1","dst":"203.0.113.7","srcport":"1000","dstport":"53"},
		  {"__digest__":"a","__timestamp__":"t1","action":"block","dir":"in","interface":"igb0","reason":"match","ipversion":"4","protonum":"1","src":"198.51.100.2","dst":"203.0.113.7"}]`)
	m.SetOutput("/usr/local/sbin/configctl filter read log 100 b",
		`[{"__digest__":"b","__timestamp__":"t2","action":"block","dir":"in","interface":"igb0","reason":"match","ipversion":"4","protonum":"17","src":"198.51.100.1","dst":"203.0.113.7","srcport":"1000","dstport":"53"}]`)

	l := NewLog([]string{"igb0"})
	n, err := l.Update(m)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "b", l.Cursor())

	n, err = l.Update(m)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{
		"/usr/local/sbin/configctl filter read log 100",
		"/usr/local/sbin/configctl filter read log 100 b",
	}, m.Commands())
}

func TestActionProtocolStrings(t *testing.T) {
	assert.Equal(t, "block", Block.String())
	assert.Equal(t, "pass", Pass.String())
	assert.Equal(t, "icmp", ICMP.String())
	assert.Equal(t, "tcp", TCP.String())
	assert.Equal(t, "udp", UDP.String())
}
