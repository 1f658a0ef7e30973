package monitor

import "github.com/rileyhilliard/fwdash/internal/rate"

// kern.cp_time holds five tick counters per CPU: user, nice, system,
// interrupt and idle.
const (
	cpuStates = 5
	cpuIdle   = 4
)

// CPU tracks overall CPU usage from kern.cp_time.
type CPU struct {
	ticks   *rate.Family
	percent float64
	known   bool
}

// NewCPU creates a tracker with no baseline.
func NewCPU() *CPU {
	return &CPU{ticks: rate.NewFamily(cpuStates)}
}

// Observe folds in one kern.cp_time sample. Per-CPU rows are summed per state
// first, so the result covers every core.
func (c *CPU) Observe(cpTime []uint64) {
	sums := make([]uint64, cpuStates)
	for i, v := range cpTime {
		sums[i%cpuStates] += v
	}

	c.known = false
	deltas, ok := c.ticks.Observe(sums)
	if !ok {
		return
	}

	var total int64
	for _, d := range deltas {
		total += d
	}
	if total <= 0 {
		return
	}
	c.percent = (1 - float64(deltas[cpuIdle])/float64(total)) * 100
	c.known = true
}

// Usage returns the busy percentage over the last interval. ok is false
// until two samples with elapsed ticks exist.
func (c *CPU) Usage() (percent float64, ok bool) {
	return c.percent, c.known
}
