package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/signalgraph/pkg/reactive"
)

// Default tracer name for signalgraph.
const defaultTracerName = "signalgraph"

// OTelConfig configures the OpenTelemetry hook.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "signalgraph").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Parent is the context root spans are started from.
	// Default: context.Background().
	Parent context.Context

	// Filter determines which observer runs to trace.
	// It receives the EventRunStarted event; return false to skip the run.
	// Runs nested under a skipped run are parented to the nearest traced
	// ancestor. If nil, all runs are traced.
	Filter func(e reactive.Event) bool

	// AttributeExtractor returns extra attributes for a run span.
	AttributeExtractor func(e reactive.Event) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry hook.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the context root spans are started from.
func WithParentContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Parent = ctx
	}
}

// WithRunFilter sets a filter function for observer runs.
func WithRunFilter(filter func(e reactive.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(e reactive.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		Parent:     context.Background(),
	}
}

// spanFrame is one observer execution in progress. Untraced runs keep the
// context of their parent so nesting stays aligned with the graph.
type spanFrame struct {
	ctx    context.Context
	span   trace.Span
	traced bool
}

// Tracer is a reactive.Hook that turns observer executions into spans.
// One Tracer may serve many graphs; each graph keeps its own span stack.
type Tracer struct {
	config OTelConfig

	mu     sync.Mutex
	stacks map[uint64][]spanFrame
}

// OpenTelemetry creates a hook that traces every observer execution.
//
// Example:
//
//	g := reactive.New(reactive.WithHooks(
//	    middleware.OpenTelemetry(
//	        middleware.WithTracerName("my-app"),
//	        middleware.WithRunFilter(func(e reactive.Event) bool {
//	            return e.Label != "noisy"
//	        }),
//	    ),
//	))
//
// Configure the global tracer provider in main() before creating graphs:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) *Tracer {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Parent == nil {
		config.Parent = context.Background()
	}

	provider := config.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	config.tracer = provider.Tracer(config.TracerName)

	return &Tracer{
		config: config,
		stacks: make(map[uint64][]spanFrame),
	}
}

// HandleEvent implements reactive.Hook.
func (t *Tracer) HandleEvent(e reactive.Event) {
	switch e.Kind {
	case reactive.EventRunStarted:
		t.startRun(e)
	case reactive.EventRunFinished:
		t.finishRun(e)
	case reactive.EventSignalWritten:
		if span := t.SpanFromGraph(e.Graph); span != nil {
			span.AddEvent("signal.write", trace.WithAttributes(
				attribute.Int("signalgraph.signal", int(e.Signal)),
				attribute.String("signalgraph.signal_label", e.Label),
				attribute.Int("signalgraph.subscribers", e.Subscribers),
			))
		}
	}
}

func (t *Tracer) startRun(e reactive.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stack := t.stacks[e.Graph]
	parent := t.config.Parent
	if n := len(stack); n > 0 {
		parent = stack[n-1].ctx
	}

	if t.config.Filter != nil && !t.config.Filter(e) {
		t.stacks[e.Graph] = append(stack, spanFrame{ctx: parent})
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("signalgraph.graph", int64(e.Graph)),
		attribute.Int("signalgraph.observer", int(e.Observer)),
		attribute.String("signalgraph.observer_label", e.Label),
		attribute.Int64("signalgraph.run", int64(e.Run)),
		attribute.Int("signalgraph.depth", e.Depth),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(e)...)
	}

	ctx, span := t.config.tracer.Start(
		parent,
		formatSpanName(e),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	t.stacks[e.Graph] = append(stack, spanFrame{ctx: ctx, span: span, traced: true})
}

func (t *Tracer) finishRun(e reactive.Event) {
	t.mu.Lock()
	stack := t.stacks[e.Graph]
	if len(stack) == 0 {
		t.mu.Unlock()
		return
	}
	frame := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(t.stacks, e.Graph)
	} else {
		t.stacks[e.Graph] = stack[:len(stack)-1]
	}
	t.mu.Unlock()

	if !frame.traced {
		return
	}
	if e.Panicked {
		frame.span.SetAttributes(attribute.Bool("signalgraph.panicked", true))
		frame.span.SetStatus(codes.Error, "observer panicked")
	} else {
		frame.span.SetStatus(codes.Ok, "")
	}
	frame.span.End()
}

// TraceContext returns the context of the innermost traced run in progress
// on the graph, or the configured parent context when none is running.
// Call it from inside an effect body to propagate the trace downstream.
//
// Example:
//
//	g.Effect(func() {
//	    ctx := tracer.TraceContext(g.ID())
//	    req, _ := http.NewRequestWithContext(ctx, "GET", url.Get(), nil)
//	    ...
//	})
func (t *Tracer) TraceContext(graph uint64) context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stack := t.stacks[graph]; len(stack) > 0 {
		return stack[len(stack)-1].ctx
	}
	return t.config.Parent
}

// SpanFromGraph returns the span of the innermost traced run in progress on
// the graph, or nil.
func (t *Tracer) SpanFromGraph(graph uint64) trace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	stack := t.stacks[graph]
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].traced {
			return stack[i].span
		}
	}
	return nil
}

// formatSpanName creates a span name from the run event.
func formatSpanName(e reactive.Event) string {
	return fmt.Sprintf("signalgraph.run %s", e.Label)
}
