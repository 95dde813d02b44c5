package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/signalgraph/pkg/reactive"
)

// MetricsConfig configures the Prometheus metrics hook.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "signalgraph").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics hook.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the run duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "signalgraph",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// runKey identifies an observer across graphs.
type runKey struct {
	graph    uint64
	observer reactive.ObserverID
}

// Metrics is a reactive.Hook that records graph activity as Prometheus
// metrics. One Metrics may serve many graphs.
type Metrics struct {
	signalsCreated   prometheus.Counter
	observersCreated prometheus.Counter
	writesTotal      prometheus.Counter
	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	depth            prometheus.Histogram
	fanout           prometheus.Histogram
	subscriptions    prometheus.Gauge

	mu sync.Mutex
	// starts holds the start time of every execution in progress. An
	// observer that re-triggers itself has several.
	starts map[runKey][]time.Time
	now    func() time.Time
}

// Prometheus creates a hook that collects Prometheus metrics for every
// graph it is attached to. Metrics are registered with the configured
// registry, so each registry may only receive one Metrics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	g := reactive.New(reactive.WithHooks(
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		signalsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signals_created_total",
			Help:        "Total number of signals created",
			ConstLabels: config.ConstLabels,
		}),

		observersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observers_created_total",
			Help:        "Total number of observers (effects and memos) created",
			ConstLabels: config.ConstLabels,
		}),

		writesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Total number of propagating signal writes",
			ConstLabels: config.ConstLabels,
		}),

		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observer_runs_total",
			Help:        "Total number of observer executions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observer_run_duration_seconds",
			Help:        "Observer execution duration in seconds, including nested executions",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		depth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagation_depth",
			Help:        "Nesting depth at which observer executions start",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		fanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "write_fanout",
			Help:        "Number of observers notified per signal write",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),

		subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_subscriptions",
			Help:        "Number of live signal-to-observer edges",
			ConstLabels: config.ConstLabels,
		}),

		starts: make(map[runKey][]time.Time),
		now:    time.Now,
	}
}

// HandleEvent implements reactive.Hook.
func (m *Metrics) HandleEvent(e reactive.Event) {
	switch e.Kind {
	case reactive.EventSignalCreated:
		m.signalsCreated.Inc()
	case reactive.EventObserverCreated:
		m.observersCreated.Inc()
	case reactive.EventSubscribed:
		m.subscriptions.Inc()
	case reactive.EventUnsubscribed:
		m.subscriptions.Dec()
	case reactive.EventSignalWritten:
		m.writesTotal.Inc()
		m.fanout.Observe(float64(e.Subscribers))
	case reactive.EventRunStarted:
		m.depth.Observe(float64(e.Depth))
		key := runKey{e.Graph, e.Observer}
		m.mu.Lock()
		m.starts[key] = append(m.starts[key], m.now())
		m.mu.Unlock()
	case reactive.EventRunFinished:
		m.finishRun(e)
	}
}

func (m *Metrics) finishRun(e reactive.Event) {
	key := runKey{e.Graph, e.Observer}

	m.mu.Lock()
	stack := m.starts[key]
	var start time.Time
	if n := len(stack); n > 0 {
		start = stack[n-1]
		if n == 1 {
			delete(m.starts, key)
		} else {
			m.starts[key] = stack[:n-1]
		}
	}
	m.mu.Unlock()

	if !start.IsZero() {
		m.runDuration.Observe(m.now().Sub(start).Seconds())
	}

	status := "ok"
	if e.Panicked {
		status = "panic"
	}
	m.runsTotal.WithLabelValues(status).Inc()
}
