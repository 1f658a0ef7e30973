package monitor

import (
	"time"

	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/firewall"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/render"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
)

// Collector owns the per-entity state and refreshes it once per cycle.
// It is not safe for concurrent use: every probe runs on the one session, in order.
type Collector struct {
	session probes.Session
	inv     *Inventory

	cycle      *probes.CycleSysctls
	cpu        *CPU
	memory     Memory
	sensors    *Sensors
	disks      []*Disk
	interfaces *Interfaces
	gateways   *Gateways
	services   []*Service
	firewall   *firewall.Log

	statesUsed  uint64
	mbufs       probes.MbufSample
	filesystems []probes.Filesystem
}

// CycleStats summarises one Collect call for logging.
type CycleStats struct {
	FirewallEvents int
}

// NewCollector sets up state for everything in the inventory.
func NewCollector(s probes.Session, inv *Inventory, services []config.Service, abi sysctl.ABI) (*Collector, error) {
	cycle, err := probes.NewCycleSysctls(abi, inv.Sensors)
	if err != nil {
		return nil, err
	}

	disks := make([]*Disk, 0, len(inv.Disks))
	for _, id := range inv.Disks {
		disks = append(disks, NewDisk(id))
	}

	return &Collector{
		session:    s,
		inv:        inv,
		cycle:      cycle,
		cpu:        NewCPU(),
		memory:     Memory{PhysMem: inv.Startup.PhysMem, PageCount: inv.Startup.PageCount},
		sensors:    NewSensors(inv.Sensors),
		disks:      disks,
		interfaces: NewInterfaces(inv.Topology.Interfaces()),
		gateways:   NewGateways(inv.Topology.Gateways),
		services:   NewServices(services),
		firewall:   firewall.NewLog(inv.Topology.GatewayInterfaces),
	}, nil
}

// Collect runs every probe once. now timestamps the interface counters.
func (c *Collector) Collect(now time.Time) (CycleStats, error) {
	var stats CycleStats

	for _, d := range c.disks {
		if err := d.Update(c.session); err != nil {
			return stats, err
		}
	}

	if err := c.interfaces.Update(c.session, now); err != nil {
		return stats, err
	}

	if err := c.gateways.Update(c.session); err != nil {
		return stats, err
	}

	for _, svc := range c.services {
		if err := svc.Update(c.session); err != nil {
			return stats, err
		}
	}

	inserted, err := c.firewall.Update(c.session)
	if err != nil {
		return stats, err
	}
	stats.FirewallEvents = inserted

	sample, err := c.cycle.Invoke(c.session)
	if err != nil {
		return stats, err
	}
	c.memory.Observe(sample)
	c.sensors.Observe(sample.Temperatures)
	c.cpu.Observe(sample.CPTime)

	if c.statesUsed, err = (probes.PFStates{}).Invoke(c.session); err != nil {
		return stats, err
	}
	if c.mbufs, err = (probes.Mbufs{}).Invoke(c.session); err != nil {
		return stats, err
	}
	if c.filesystems, err = (probes.DiskUsage{}).Invoke(c.session); err != nil {
		return stats, err
	}
	return stats, nil
}

// Snapshot copies the current state into a frame.
func (c *Collector) Snapshot(now time.Time) *render.Snapshot {
	cpu, cpuKnown := c.cpu.Usage()

	snap := &render.Snapshot{
		Product:          c.inv.Product,
		OS:               c.inv.OS,
		Uptime:           now.Sub(c.inv.Startup.BootTime),
		CPUKnown:         cpuKnown,
		CPUPercent:       cpu,
		MemoryUsedPages:  c.memory.UsedPages,
		MemoryTotalPages: c.memory.PageCount,
		PhysMem:          c.memory.PhysMem,
		StatesUsed:       c.statesUsed,
		MbufsUsed:        c.mbufs.ClusterTotal,
		MbufsMax:         c.mbufs.ClusterMax,
		Filesystems:      append([]probes.Filesystem(nil), c.filesystems...),
		FirewallEvents:   c.firewall.Events(),
	}

	for _, d := range c.disks {
		snap.Disks = append(snap.Disks, render.Disk{Name: d.Name, Serial: d.Serial, SmartSample: d.Latest})
	}
	for i, name := range c.sensors.Names() {
		snap.Sensors = append(snap.Sensors, render.Sensor{Name: name, Celsius: c.sensors.Celsius(i)})
	}
	for _, iface := range c.interfaces.All() {
		snap.Interfaces = append(snap.Interfaces, render.Interface{
			Name:         iface.Name,
			Error:        iface.Error,
			RatesKnown:   iface.RatesKnown,
			ReceivedRate: iface.ReceivedRate,
			SentRate:     iface.SentRate,
			Addresses:    append([]string(nil), iface.Addresses...),
		})
	}
	for _, name := range c.gateways.Names() {
		snap.Gateways = append(snap.Gateways, render.Gateway{Name: name, Latency: c.gateways.Latency(name)})
	}
	for _, svc := range c.services {
		snap.Services = append(snap.Services, render.Service{Name: svc.Name, Running: svc.Running})
	}
	for _, name := range c.inv.Topology.GatewayInterfaces {
		snap.FirewallInterfaceWidth = max(snap.FirewallInterfaceWidth, len(name))
	}
	return snap
}
