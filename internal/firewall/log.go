// Package firewall keeps the most recent inbound packet filter events for the
// gateway interfaces, fetched incrementally from the appliance's log.
package firewall

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/probes"
)

// Capacity is the number of events kept.
const Capacity = 10

// Action is the verdict the packet filter applied.
type Action int

const (
	Block Action = iota
	Pass
)

func (a Action) String() string {
	if a == Pass {
		return "pass"
	}
	return "block"
}

// Protocol is the transport of a logged packet.
type Protocol int

const (
	ICMP Protocol = iota
	TCP
	UDP
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	default:
		return "icmp"
	}
}

// Event is one logged packet. ICMP events carry addresses only; their ports are zero.
type Event struct {
	Timestamp   string
	Interface   string
	Action      Action
	Protocol    Protocol
	Source      netip.AddrPort
	Destination netip.AddrPort
}

// Log is the firewall event buffer with its fetch cursor.
type Log struct {
	interfaces map[string]bool
	ring       *Ring[Event]
	cursor     string
}

// NewLog creates a log that keeps events seen on the given interfaces.
func NewLog(interfaces []string) *Log {
	set := make(map[string]bool, len(interfaces))
	for _, name := range interfaces {
		set[name] = true
	}
	return &Log{interfaces: set, ring: NewRing[Event](Capacity)}
}

// Cursor returns the digest of the newest record consumed so far.
func (l *Log) Cursor() string {
	return l.cursor
}

// Events returns the buffered events, newest first.
func (l *Log) Events() []Event {
	return l.ring.All()
}

// Update fetches records newer than the cursor and applies them.
func (l *Log) Update(s probes.Session) (int, error) {
	batch, err := probes.FilterLog{Cursor: l.cursor}.Invoke(s)
	if err != nil {
		return 0, err
	}
	return l.Apply(batch)
}

// Apply consumes a newest-first batch and returns how many events were
// inserted. Records from the cursor's digest on were seen by a previous
// fetch and are skipped. The cursor moves to the newest record in the batch
// whether or not that record passes the filters.
func (l *Log) Apply(batch []probes.LogRecord) (int, error) {
	fresh := batch
	if l.cursor != "" {
		for i, rec := range batch {
			if rec.Digest == l.cursor {
				fresh = batch[:i]
				break
			}
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	l.cursor = fresh[0].Digest

	inserted := 0
	for i := len(fresh) - 1; i >= 0; i-- {
		ev, keep, err := l.decode(fresh[i])
		if err != nil {
			return inserted, err
		}
		if !keep {
			continue
		}
		l.ring.Push(ev)
		inserted++
	}
	return inserted, nil
}

// decode filters a record and converts it to an Event. keep is false for
// records that are not rule matches, not inbound, not on a watched interface,
// or use an action or protocol the dashboard does not show.
func (l *Log) decode(rec probes.LogRecord) (Event, bool, error) {
	if rec.Reason != "match" || rec.Direction != "in" || !l.interfaces[rec.Interface] {
		return Event{}, false, nil
	}

	ev := Event{Timestamp: rec.Timestamp, Interface: rec.Interface}
	switch rec.Action {
	case "block":
		ev.Action = Block
	case "pass":
		ev.Action = Pass
	default:
		return Event{}, false, nil
	}

	var icmp string
	switch rec.IPVersion {
	case "4":
		icmp = "1"
	case "6":
		icmp = "58"
	default:
		return Event{}, false, nil
	}

	switch rec.Protocol {
	case icmp:
		ev.Protocol = ICMP
	case "6":
		ev.Protocol = TCP
	case "17":
		ev.Protocol = UDP
	default:
		return Event{}, false, nil
	}

	src, err := parseAddr(rec.Src, rec.IPVersion)
	if err != nil {
		return Event{}, false, errors.Decodef(err, "firewall log %s has a bad source address", rec.Digest)
	}
	dst, err := parseAddr(rec.Dst, rec.IPVersion)
	if err != nil {
		return Event{}, false, errors.Decodef(err, "firewall log %s has a bad destination address", rec.Digest)
	}

	var srcPort, dstPort uint16
	if ev.Protocol != ICMP {
		if srcPort, err = parsePort(rec.SrcPort); err != nil {
			return Event{}, false, errors.Decodef(err, "firewall log %s has a bad source port", rec.Digest)
		}
		if dstPort, err = parsePort(rec.DstPort); err != nil {
			return Event{}, false, errors.Decodef(err, "firewall log %s has a bad destination port", rec.Digest)
		}
	}

	ev.Source = netip.AddrPortFrom(src, srcPort)
	ev.Destination = netip.AddrPortFrom(dst, dstPort)
	return ev, true, nil
}

func parseAddr(s, version string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if (version == "4") != addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv%s address", s, version)
	}
	return addr, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}
