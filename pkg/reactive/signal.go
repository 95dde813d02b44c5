package reactive

import (
	"slices"
)

// Signal is a reactive value container.
// Reading a Signal with Get while an effect of the same graph is executing
// subscribes that effect; writing it with Set re-runs every subscribed
// effect before Set returns.
type Signal[T any] struct {
	g  *Graph
	id SignalID

	value T

	// equal, when set, suppresses writes of a value equal to the current
	// one. Nil means every write propagates.
	equal func(T, T) bool
}

// NewSignal creates a new signal in g with the given initial value.
func NewSignal[T any](g *Graph, initial T, opts ...NodeOption) *Signal[T] {
	cfg := applyNodeOptions(opts)
	return &Signal[T]{
		g:     g,
		id:    g.addSignal(cfg.label),
		value: initial,
	}
}

// CreateSignal creates a signal in the default graph and returns its read
// and write accessors.
//
// Example:
//
//	count, setCount := reactive.CreateSignal(0)
//	setCount(count() + 1)
func CreateSignal[T any](initial T) (read func() T, write func(T)) {
	return NewSignal(defaultGraph, initial).Accessors()
}

// Get returns the current value and subscribes the current observer.
// Outside any effect it only returns the value.
func (s *Signal[T]) Get() T {
	s.g.track(s.id)
	return s.value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set stores value and synchronously re-executes every observer subscribed
// at the moment of the call. A panic from an observer body propagates out of
// Set and the remaining observers are not executed.
func (s *Signal[T]) Set(value T) {
	if s.equal != nil && s.equal(s.value, value) {
		return
	}
	s.value = value
	s.g.notify(s.id)
}

// Update sets the signal to fn applied to its current value. The current
// value is read without subscribing.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// WithEquals configures the signal to drop writes for which fn reports the
// new value equal to the current one.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// Accessors returns the signal's read and write functions.
func (s *Signal[T]) Accessors() (read func() T, write func(T)) {
	return s.Get, s.Set
}

// ID returns the signal's handle in its graph.
func (s *Signal[T]) ID() SignalID {
	return s.id
}

// Graph returns the graph the signal belongs to.
func (s *Signal[T]) Graph() *Graph {
	return s.g
}

// Label returns the signal's label.
func (s *Signal[T]) Label() string {
	return s.g.signals[s.id].label
}

// notify re-executes the observers subscribed to sid. The subscriber set is
// copied first because each execution removes and re-adds edges on the live
// set. The copy is ordered by observer id so propagation is reproducible.
func (g *Graph) notify(sid SignalID) {
	node := g.signals[sid]
	node.writes++

	snapshot := make([]ObserverID, 0, len(node.subs))
	for oid := range node.subs {
		snapshot = append(snapshot, oid)
	}
	slices.Sort(snapshot)

	g.emit(Event{
		Kind:        EventSignalWritten,
		Signal:      sid,
		Observer:    noObserver,
		Label:       node.label,
		Subscribers: len(snapshot),
	})

	for _, oid := range snapshot {
		g.execute(oid)
	}
}
