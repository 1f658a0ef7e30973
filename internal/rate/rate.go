// Package rate turns successive samples of monotonic counters into
// per-second rates and per-interval deltas.
package rate

import "time"

// Counter tracks one monotonic counter. The zero value is ready to use.
//
// Only the previous sample is retained. The appliance never resets its
// counters within a session, so a decrease is reported as a negative rate
// rather than being treated as a wrap.
type Counter struct {
	prev   uint64
	prevAt time.Time
	seeded bool
}

// Observe records v sampled at t and returns the rate since the previous
// sample. ok is false on the first sample, and when no time has passed
// since the previous one.
func (c *Counter) Observe(v uint64, t time.Time) (perSecond float64, ok bool) {
	prev, prevAt, seeded := c.prev, c.prevAt, c.seeded
	c.prev, c.prevAt, c.seeded = v, t, true

	if !seeded {
		return 0, false
	}
	elapsed := t.Sub(prevAt).Seconds()
	if elapsed <= 0 {
		return 0, false
	}
	return float64(delta(prev, v)) / elapsed, true
}

// Reset forgets the previous sample.
func (c *Counter) Reset() {
	*c = Counter{}
}

// Family tracks a fixed group of counters sampled together, such as the CPU
// tick buckets.
type Family struct {
	prev []uint64
}

// NewFamily returns a family of n counters.
func NewFamily(n int) *Family {
	return &Family{prev: make([]uint64, 0, n)}
}

// Observe records one sample of every counter and returns each counter's
// change since the previous sample. ok is false on the first sample and
// whenever the number of counters changes; the new sample becomes the baseline.
func (f *Family) Observe(values []uint64) (deltas []int64, ok bool) {
	seeded := len(f.prev) > 0 && len(f.prev) == len(values)
	if seeded {
		deltas = make([]int64, len(values))
		for i, v := range values {
			deltas[i] = delta(f.prev[i], v)
		}
	}
	f.prev = append(f.prev[:0], values...)
	return deltas, seeded
}

func delta(prev, cur uint64) int64 {
	return int64(cur - prev)
}
