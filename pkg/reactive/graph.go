package reactive

import (
	"fmt"
	"log/slog"
)

// Graph owns an arena of signals and observers plus the execution context
// stack used to attribute signal reads. Independent graphs share no state.
//
// The zero value is not usable; create graphs with New.
type Graph struct {
	id uint64

	signals   []*signalNode
	observers []*observerNode

	// stack holds the observers currently executing; the top attributes
	// reads. noObserver frames come from Untracked.
	stack []ObserverID

	// running counts observer executions in progress.
	running int

	maxDepth int
	hook     Hook
	logger   *slog.Logger
}

// signalNode is the graph-side half of a signal: everything except the
// typed value, which lives in Signal[T].
type signalNode struct {
	label  string
	subs   map[ObserverID]struct{}
	writes uint64
}

type observerNode struct {
	label string
	body  func()
	deps  map[SignalID]struct{}
	state ObserverState
	runs  uint64

	// active counts executions of this observer on the stack; it is above
	// one only when the observer re-triggers itself.
	active int
}

// Option configures a Graph.
type Option func(*Graph)

// WithHooks attaches hooks that receive every event of the graph.
// Calling it more than once accumulates hooks.
func WithHooks(hooks ...Hook) Option {
	return func(g *Graph) {
		g.hook = MultiHook(append([]Hook{g.hook}, hooks...)...)
	}
}

// WithLogger sets the logger used for graph diagnostics.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMaxDepth bounds the number of nested observer executions. When a write
// would start execution number n+1, the graph panics with an error wrapping
// ErrDepthExceeded instead of recursing further. Zero, the default, means no
// limit.
func WithMaxDepth(n int) Option {
	return func(g *Graph) {
		if n < 0 {
			n = 0
		}
		g.maxDepth = n
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		id:     nextGraphID(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// defaultGraph backs the package-level constructors.
var defaultGraph = New()

// Default returns the process-wide graph used by CreateSignal, CreateEffect
// and CreateMemo.
func Default() *Graph {
	return defaultGraph
}

// ID returns the unique identifier for this graph.
func (g *Graph) ID() uint64 {
	return g.id
}

// MaxDepth returns the configured nesting limit, 0 when unlimited.
func (g *Graph) MaxDepth() int {
	return g.maxDepth
}

// emit delivers an event to the graph's hooks.
func (g *Graph) emit(e Event) {
	if g.hook == nil {
		return
	}
	e.Graph = g.id
	g.hook.HandleEvent(e)
}

// addSignal allocates a signal node and returns its handle.
func (g *Graph) addSignal(label string) SignalID {
	id := SignalID(len(g.signals))
	if label == "" {
		label = fmt.Sprintf("signal-%d", id)
	}
	g.signals = append(g.signals, &signalNode{
		label: label,
		subs:  make(map[ObserverID]struct{}),
	})
	g.emit(Event{Kind: EventSignalCreated, Signal: id, Observer: noObserver, Label: label})
	return id
}

// addObserver allocates an observer node and returns its handle.
func (g *Graph) addObserver(label string, body func()) ObserverID {
	id := ObserverID(len(g.observers))
	if label == "" {
		label = fmt.Sprintf("effect-%d", id)
	}
	g.observers = append(g.observers, &observerNode{
		label: label,
		body:  body,
		deps:  make(map[SignalID]struct{}),
	})
	g.emit(Event{Kind: EventObserverCreated, Signal: -1, Observer: id, Label: label})
	return id
}

// NodeOption configures a signal, effect or memo at creation.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	label string
}

// WithLabel names a node for introspection, logs, metrics and traces.
// Unlabelled nodes get "signal-N" or "effect-N".
func WithLabel(label string) NodeOption {
	return func(c *nodeConfig) {
		c.label = label
	}
}

func applyNodeOptions(opts []NodeOption) nodeConfig {
	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
