// Package trail implements the bounded FIFO history kept by every kernel for
// rendering. Eviction is by age only.
package trail

import "github.com/san-kum/emergent/internal/dynamo"

// Buffer is a fixed-capacity ring. Push is O(1); once full, each push
// overwrites the oldest entry.
type Buffer[T any] struct {
	items []T
	head  int
	size  int
}

// New allocates a buffer holding at most capacity items.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, dynamo.ErrInvalidCapacity
	}
	return &Buffer[T]{items: make([]T, capacity)}, nil
}

// MustNew is New for capacities known at compile time.
func MustNew[T any](capacity int) *Buffer[T] {
	b, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Buffer[T]) Push(v T) {
	idx := (b.head + b.size) % len(b.items)
	if b.size < len(b.items) {
		b.size++
	} else {
		b.head = (b.head + 1) % len(b.items)
	}
	b.items[idx] = v
}

func (b *Buffer[T]) Len() int { return b.size }
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Clear drops every entry without releasing storage.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head, b.size = 0, 0
}

// Last returns the most recent entry.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.items[(b.head+b.size-1)%len(b.items)], true
}

// At returns the i-th entry counted from the oldest.
func (b *Buffer[T]) At(i int) T {
	return b.items[(b.head+i)%len(b.items)]
}

// Slice copies the contents out, oldest first and most recent last.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Reversed copies the contents out, most recent first.
func (b *Buffer[T]) Reversed() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[b.size-1-i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Resize changes the capacity, keeping the most recent entries.
func (b *Buffer[T]) Resize(capacity int) error {
	if capacity < 1 {
		return dynamo.ErrInvalidCapacity
	}
	if capacity == len(b.items) {
		return nil
	}
	old := b.Slice()
	if len(old) > capacity {
		old = old[len(old)-capacity:]
	}
	b.items = make([]T, capacity)
	b.head = 0
	b.size = copy(b.items, old)
	return nil
}
