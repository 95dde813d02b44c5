package reactive

import "slices"

// Number is the constraint for NumberSignal.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumberSignal wraps Signal[T] with arithmetic helpers. Each helper is a
// single write.
type NumberSignal[T Number] struct {
	*Signal[T]
}

// NewNumberSignal creates a NumberSignal in g.
func NewNumberSignal[T Number](g *Graph, initial T, opts ...NodeOption) *NumberSignal[T] {
	return &NumberSignal[T]{NewSignal(g, initial, opts...)}
}

// Inc increments the value by 1.
func (s *NumberSignal[T]) Inc() {
	s.Add(1)
}

// Dec decrements the value by 1.
func (s *NumberSignal[T]) Dec() {
	s.Update(func(v T) T { return v - 1 })
}

// Add adds n.
func (s *NumberSignal[T]) Add(n T) {
	s.Update(func(v T) T { return v + n })
}

// BoolSignal wraps Signal[bool].
type BoolSignal struct {
	*Signal[bool]
}

// NewBoolSignal creates a BoolSignal in g.
func NewBoolSignal(g *Graph, initial bool, opts ...NodeOption) *BoolSignal {
	return &BoolSignal{NewSignal(g, initial, opts...)}
}

// Toggle flips the value.
func (s *BoolSignal) Toggle() {
	s.Update(func(b bool) bool { return !b })
}

// SliceSignal wraps Signal[[]T] with copy-on-write helpers: every helper
// stores a fresh slice, so values handed out by Get are never mutated.
type SliceSignal[T any] struct {
	*Signal[[]T]
}

// NewSliceSignal creates a SliceSignal in g. A nil initial value becomes an
// empty slice.
func NewSliceSignal[T any](g *Graph, initial []T, opts ...NodeOption) *SliceSignal[T] {
	if initial == nil {
		initial = []T{}
	}
	return &SliceSignal[T]{NewSignal(g, initial, opts...)}
}

// Append adds items to the end of the slice.
func (s *SliceSignal[T]) Append(items ...T) {
	s.Update(func(cur []T) []T {
		return append(slices.Clip(cur), items...)
	})
}

// RemoveAt removes the item at index. Out of range indexes write nothing.
func (s *SliceSignal[T]) RemoveAt(index int) {
	cur := s.Peek()
	if index < 0 || index >= len(cur) {
		return
	}
	s.Set(slices.Delete(slices.Clone(cur), index, index+1))
}

// Len returns the length of the slice, as a tracked read.
func (s *SliceSignal[T]) Len() int {
	return len(s.Get())
}
