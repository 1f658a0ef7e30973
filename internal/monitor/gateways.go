package monitor

import "github.com/rileyhilliard/fwdash/internal/probes"

// Gateways holds dpinger's latest view of the configured gateways.
type Gateways struct {
	names  []string
	latest map[string]*probes.GatewaySample
}

// NewGateways tracks the named gateways.
func NewGateways(names []string) *Gateways {
	return &Gateways{names: names}
}

// Names returns the gateway names in display order.
func (g *Gateways) Names() []string {
	return g.names
}

// Latency returns the gateway's latest sample, or nil when dpinger is not
// monitoring it.
func (g *Gateways) Latency(name string) *probes.GatewaySample {
	return g.latest[name]
}

// Update reads every dpinger socket. Gateways missing from the output are
// reported as not running.
func (g *Gateways) Update(s probes.Session) error {
	samples, err := probes.GatewayLatency{}.Invoke(s)
	if err != nil {
		return err
	}
	latest := make(map[string]*probes.GatewaySample, len(samples))
	for i := range samples {
		latest[samples[i].Name] = &samples[i]
	}
	g.latest = latest
	return nil
}
