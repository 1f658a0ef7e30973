package monitor

import (
	"strings"
	"time"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/rate"
)

// Interface is one monitored network interface.
type Interface struct {
	Name string
	// Error is the link status when it is not "active", e.g. "no carrier".
	Error string
	// Addresses are the bound addresses, link-local ones left out.
	Addresses []string

	ReceivedRate float64
	SentRate     float64
	RatesKnown   bool

	status   probes.LinkStatus
	received rate.Counter
	sent     rate.Counter
}

func (i *Interface) observe(row probes.InterfaceRow, now time.Time) {
	rx, rxOK := i.received.Observe(row.ReceivedBytes, now)
	tx, txOK := i.sent.Observe(row.SentBytes, now)
	i.ReceivedRate, i.SentRate = rx, tx
	i.RatesKnown = rxOK && txOK
}

// Interfaces is the fixed set of monitored interfaces, in display order.
type Interfaces struct {
	list   []*Interface
	byName map[string]*Interface
}

// NewInterfaces tracks the named physical interfaces.
func NewInterfaces(names []string) *Interfaces {
	n := &Interfaces{byName: make(map[string]*Interface, len(names))}
	for _, name := range names {
		iface := &Interface{Name: name, status: probes.NewLinkStatus(name)}
		n.list = append(n.list, iface)
		n.byName[name] = iface
	}
	return n
}

// All returns the interfaces in display order.
func (n *Interfaces) All() []*Interface {
	return n.list
}

// Update checks each interface's link, then reads every interface's
// counters and addresses with a single netstat.
func (n *Interfaces) Update(s probes.Session, now time.Time) error {
	for _, iface := range n.list {
		status, err := iface.status.Invoke(s)
		if err != nil {
			return err
		}
		iface.Error = status
	}

	rows, err := probes.InterfaceCounters{}.Invoke(s)
	if err != nil {
		return err
	}
	return n.apply(rows, now)
}

// apply folds netstat rows into the interfaces. Each interface has one
// link-layer row ("<Link#N>") carrying its byte counters, plus one row per
// bound address.
func (n *Interfaces) apply(rows []probes.InterfaceRow, now time.Time) error {
	for _, iface := range n.list {
		iface.Addresses = iface.Addresses[:0]
	}

	counted := make(map[string]bool, len(n.list))
	for _, row := range rows {
		iface, ok := n.byName[row.Name]
		if !ok {
			continue
		}
		if strings.HasPrefix(row.Network, "<Link#") {
			if !counted[row.Name] {
				iface.observe(row, now)
				counted[row.Name] = true
			}
			continue
		}
		if isLinkLocal(row.Address) {
			continue
		}
		iface.Addresses = append(iface.Addresses, row.Address)
	}

	for _, iface := range n.list {
		if !counted[iface.Name] {
			return errors.Decodef(nil, "netstat reported no link-layer counters for interface %s", iface.Name)
		}
	}
	return nil
}

func isLinkLocal(addr string) bool {
	return strings.HasPrefix(strings.ToLower(addr), "fe80:")
}
