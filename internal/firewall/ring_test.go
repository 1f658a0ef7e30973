package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_Empty(t *testing.T) {
	r := NewRing[int](Capacity)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.All())
	assert.Equal(t, Capacity, r.Cap())
}

func TestRing_NeverExceedsCapacity(t *testing.T) {
	for k := 1; k <= 35; k++ {
		r := NewRing[int](Capacity)
		for i := 1; i <= k; i++ {
			r.Push(i)
		}

		want := []int{}
		for i := k; i > 0 && len(want) < Capacity; i-- {
			want = append(want, i)
		}
		assert.Equal(t, len(want), r.Len(), "k=%d", k)
		assert.Equal(t, want, r.All(), "k=%d", k)
	}
}

func TestRing_MinimumCapacity(t *testing.T) {
	r := NewRing[string](0)
	r.Push("a")
	r.Push("b")
	assert.Equal(t, []string{"b"}, r.All())
}
