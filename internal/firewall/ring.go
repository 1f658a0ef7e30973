package firewall

// Ring is a fixed-capacity buffer that keeps the most recent items. Slots are
// allocated once; inserting into a full ring overwrites the oldest item.
type Ring[T any] struct {
	items []T
	head  int // index of the newest item; moves backwards on insert
	count int
}

// NewRing creates a ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push inserts item as the newest entry.
func (r *Ring[T]) Push(item T) {
	r.head = (r.head + len(r.items) - 1) % len(r.items)
	r.items[r.head] = item
	if r.count < len(r.items) {
		r.count++
	}
}

// Len returns the number of items held.
func (r *Ring[T]) Len() int {
	return r.count
}

// Cap returns the ring's capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// All returns the items newest first.
func (r *Ring[T]) All() []T {
	out := make([]T, r.count)
	for i := range out {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}
