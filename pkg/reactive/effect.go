package reactive

import (
	"fmt"

	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
)

// ObserverState is the phase an observer is in.
// Executions move Idle → Cleaning → Running → Idle.
type ObserverState uint8

const (
	StateIdle ObserverState = iota
	StateCleaning
	StateRunning
)

// String returns a human-readable name for the state.
func (s ObserverState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCleaning:
		return "cleaning"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ObserverState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ObserverState) UnmarshalText(text []byte) error {
	for _, st := range []ObserverState{StateIdle, StateCleaning, StateRunning} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("reactive: unknown observer state %q", text)
}

// Effect creates an observer in g and runs body immediately. body re-runs
// whenever a signal it read during its most recent run is written.
//
// The returned handle is for introspection only; effects live as long as
// some signal is subscribed to them and cannot be disposed.
//
// Example:
//
//	g.Effect(func() {
//	    fmt.Println("Count is:", count.Get())
//	}, reactive.WithLabel("logger"))
func (g *Graph) Effect(body func(), opts ...NodeOption) ObserverID {
	if body == nil {
		panic(sgerrors.New("E102").Wrap(ErrNilBody))
	}
	cfg := applyNodeOptions(opts)
	label := g.observerLabel(cfg.label)
	// A new effect runs immediately, so trip the limit before it joins the
	// arena.
	g.checkDepth(label)
	id := g.addObserver(label, body)
	g.execute(id)
	return id
}

// CreateEffect creates an effect in the default graph and runs it.
func CreateEffect(body func()) {
	defaultGraph.Effect(body)
}

// execute runs one full cycle of observer id: drop every edge from the
// previous run, push the observer, run the body, pop. Reads during the body
// rebuild the observer's dependencies from scratch.
func (g *Graph) execute(id ObserverID) {
	o := g.observers[id]
	g.checkDepth(o.label)

	o.state = StateCleaning
	g.cleanup(id)

	g.push(id)
	g.running++
	o.active++
	o.runs++
	o.state = StateRunning
	g.emit(Event{Kind: EventRunStarted, Signal: -1, Observer: id, Label: o.label, Run: o.runs, Depth: g.running})

	run := o.runs
	completed := false
	defer func() {
		depth := g.running
		g.running--
		o.active--
		if o.active == 0 {
			o.state = StateIdle
		}
		g.pop()
		g.emit(Event{
			Kind:     EventRunFinished,
			Signal:   -1,
			Observer: id,
			Label:    o.label,
			Run:      run,
			Depth:    depth,
			Panicked: !completed,
		})
	}()

	o.body()
	completed = true
}

// observerLabel returns label, or the default label of the next observer.
func (g *Graph) observerLabel(label string) string {
	if label == "" {
		return fmt.Sprintf("effect-%d", len(g.observers))
	}
	return label
}

// checkDepth panics with ErrDepthExceeded when starting one more execution
// would exceed the graph's limit.
func (g *Graph) checkDepth(label string) {
	if g.maxDepth == 0 || g.running < g.maxDepth {
		return
	}
	g.logger.Warn("reactive propagation depth exceeded",
		"graph", g.id,
		"observer", label,
		"max_depth", g.maxDepth,
	)
	panic(sgerrors.New("E101").
		WithDetailf("observer %q would start nested execution %d; the limit is %d", label, g.running+1, g.maxDepth).
		Wrap(ErrDepthExceeded))
}

// cleanup removes id from the subscribers of every signal it depends on and
// clears its dependencies.
func (g *Graph) cleanup(id ObserverID) {
	o := g.observers[id]
	for sid := range o.deps {
		delete(g.signals[sid].subs, id)
		g.emit(Event{Kind: EventUnsubscribed, Signal: sid, Observer: id})
	}
	clear(o.deps)
}
