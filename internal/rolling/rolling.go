// Package rolling provides a fixed-capacity ring buffer with
// overwrite-oldest eviction. Every rolling history in the engine is
// bounded by construction; nothing grows with session length.
package rolling

// Buffer is a fixed-capacity ring buffer. Not synchronized; owners
// serialize access per the engine's single-writer discipline.
type Buffer[T any] struct {
	buf   []T
	head  int // index of the oldest element
	count int
}

// New creates a ring buffer holding at most capacity elements.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{buf: make([]T, capacity)}
}

// Push appends a value, evicting the oldest when full.
func (b *Buffer[T]) Push(v T) {
	if b.count < len(b.buf) {
		b.buf[(b.head+b.count)%len(b.buf)] = v
		b.count++
		return
	}
	b.buf[b.head] = v
	b.head = (b.head + 1) % len(b.buf)
}

// Len returns the number of stored elements.
func (b *Buffer[T]) Len() int {
	return b.count
}

// Last returns up to n most recent elements, oldest first.
func (b *Buffer[T]) Last(n int) []T {
	if n > b.count {
		n = b.count
	}
	out := make([]T, 0, n)
	for i := b.count - n; i < b.count; i++ {
		out = append(out, b.buf[(b.head+i)%len(b.buf)])
	}
	return out
}

// All returns every stored element, oldest first.
func (b *Buffer[T]) All() []T {
	return b.Last(b.count)
}
