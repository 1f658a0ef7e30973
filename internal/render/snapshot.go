package render

import (
	"time"

	"github.com/rileyhilliard/fwdash/internal/firewall"
	"github.com/rileyhilliard/fwdash/internal/probes"
)

// Geometry is the terminal size in character cells.
type Geometry struct {
	Width  int
	Height int
}

// Snapshot is everything one frame shows. It is built fresh every cycle and
// not retained after Render returns.
type Snapshot struct {
	Product probes.Product
	OS      string
	Uptime  time.Duration

	// CPUKnown is false until two tick samples exist.
	CPUKnown   bool
	CPUPercent float64

	MemoryUsedPages  uint64
	MemoryTotalPages uint64
	PhysMem          uint64

	StatesUsed  uint64
	MbufsUsed   uint64
	MbufsMax    uint64
	Filesystems []probes.Filesystem

	Disks      []Disk
	Sensors    []Sensor
	Interfaces []Interface
	Gateways   []Gateway
	Services   []Service

	FirewallEvents []firewall.Event
	// FirewallInterfaceWidth pads the interface column of the firewall log to
	// the longest monitored interface name.
	FirewallInterfaceWidth int
}

// StatesMax is pf's default state limit for the appliance's memory size.
func (s *Snapshot) StatesMax() uint64 {
	return (s.PhysMem / 10_485_760) * 1000
}

// Disk is a physical disk with its latest SMART reading.
type Disk struct {
	Name   string
	Serial string
	probes.SmartSample
}

// Sensor is a temperature sysctl.
type Sensor struct {
	Name    string
	Celsius float64
}

// Interface is a network interface as of this cycle.
type Interface struct {
	Name string
	// Error is the ifconfig status when the link is not active.
	Error string
	// RatesKnown is false until two counter samples exist.
	RatesKnown   bool
	ReceivedRate float64
	SentRate     float64
	Addresses    []string
}

// Gateway is a configured gateway. Latency is nil when dpinger reported nothing for it.
type Gateway struct {
	Name    string
	Latency *probes.GatewaySample
}

// Service is a monitored process.
type Service struct {
	Name    string
	Running bool
}
