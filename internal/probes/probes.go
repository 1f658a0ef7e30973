// Package probes holds one adapter per remote diagnostic tool. Each adapter
// owns its exact command line and the decoding of that tool's output.
package probes

import (
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// Session is what a probe runs against: commands and whole-file reads over
// one authenticated connection.
type Session interface {
	remote.Runner
	remote.FileReader
}

// Probe invokes one remote tool and decodes its output into a T.
type Probe[T any] interface {
	// Command is the remote command line the probe runs.
	Command() string
	Invoke(s Session) (T, error)
}

var (
	_ Probe[StartupSample]   = (*StartupSysctls)(nil)
	_ Probe[CycleSample]     = (*CycleSysctls)(nil)
	_ Probe[[]string]        = SensorList{}
	_ Probe[[]string]        = DiskList{}
	_ Probe[uint64]          = PFStates{}
	_ Probe[MbufSample]      = Mbufs{}
	_ Probe[[]InterfaceRow]  = InterfaceCounters{}
	_ Probe[[]Filesystem]    = DiskUsage{}
	_ Probe[string]          = SmartIdentity{}
	_ Probe[SmartSample]     = SmartHealth{}
	_ Probe[string]          = LinkStatus{}
	_ Probe[bool]            = ProcessCheck{}
	_ Probe[[]GatewaySample] = GatewayLatency{}
	_ Probe[Product]         = ProductVersion{}
	_ Probe[string]          = OSVersion{}
	_ Probe[[]LogRecord]     = FilterLog{}
)
