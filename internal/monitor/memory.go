package monitor

import "github.com/rileyhilliard/fwdash/internal/probes"

// Memory is page usage. PhysMem and PageCount are fixed at startup.
type Memory struct {
	PhysMem   uint64
	PageCount uint64
	UsedPages uint64
}

// Observe updates used pages: everything not inactive, cached or free.
func (m *Memory) Observe(s probes.CycleSample) {
	idle := s.InactivePages + s.CachePages + s.FreePages
	if idle >= m.PageCount {
		m.UsedPages = 0
		return
	}
	m.UsedPages = m.PageCount - idle
}

// Sensors holds the latest reading of each temperature sysctl.
type Sensors struct {
	names   []string
	celsius []float64
}

// NewSensors tracks the given sysctl names.
func NewSensors(names []string) *Sensors {
	return &Sensors{names: names, celsius: make([]float64, len(names))}
}

// Observe converts raw readings, in deci-Kelvin and in sensor order.
func (s *Sensors) Observe(raw []uint64) {
	for i := range s.celsius {
		if i < len(raw) {
			s.celsius[i] = float64(raw[i])/10 - 273.15
		}
	}
}

// Names returns the sysctl names.
func (s *Sensors) Names() []string {
	return s.names
}

// Celsius returns the latest reading of sensor i.
func (s *Sensors) Celsius(i int) float64 {
	return s.celsius[i]
}
