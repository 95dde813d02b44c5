package reactive

import (
	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
)

// Memo is a read-only signal derived from other signals. It is backed by an
// internal signal holding the last result and an internal effect that
// recomputes it.
//
// Memos are eager: the computation runs once at construction and again on
// every write to a signal it read, and each recomputation writes the internal
// signal, re-running the memo's own readers.
type Memo[T any] struct {
	sig      *Signal[T]
	observer ObserverID
}

// NewMemo creates a memo in g computed by fn.
//
// Example:
//
//	total := reactive.NewMemo(g, func() float64 {
//	    return price.Get() * float64(qty.Get())
//	})
func NewMemo[T any](g *Graph, fn func() T, opts ...NodeOption) *Memo[T] {
	if fn == nil {
		panic(sgerrors.New("E102").Wrap(ErrNilBody))
	}
	cfg := applyNodeOptions(opts)
	g.checkDepth(g.observerLabel(cfg.label))

	var zero T
	m := &Memo[T]{sig: NewSignal(g, zero, opts...)}

	var effectOpts []NodeOption
	if cfg.label != "" {
		effectOpts = append(effectOpts, WithLabel(cfg.label))
	}
	m.observer = g.Effect(func() {
		m.sig.Set(fn())
	}, effectOpts...)

	return m
}

// CreateMemo creates a memo in the default graph and returns its read
// accessor.
func CreateMemo[T any](fn func() T) func() T {
	return NewMemo(defaultGraph, fn).Get
}

// Get returns the memo's value and subscribes the current observer.
func (m *Memo[T]) Get() T {
	return m.sig.Get()
}

// Peek returns the memo's value without subscribing.
func (m *Memo[T]) Peek() T {
	return m.sig.Peek()
}

// ID returns the handle of the memo's internal signal.
func (m *Memo[T]) ID() SignalID {
	return m.sig.id
}

// Observer returns the handle of the memo's internal effect.
func (m *Memo[T]) Observer() ObserverID {
	return m.observer
}
