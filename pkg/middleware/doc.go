// Package middleware provides instrumentation hooks for reactive graphs.
//
// Every constructor returns a value implementing reactive.Hook. Attach one
// or more of them when creating a graph:
//
//	metrics := middleware.Prometheus(middleware.WithRegistry(reg))
//	g := reactive.New(reactive.WithHooks(
//	    middleware.Logger(slog.Default()),
//	    metrics,
//	    middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	))
//
// # Logging
//
// Logger writes one structured record per graph event using log/slog. Use
// WithEventKinds to keep only the events you care about:
//
//	middleware.Logger(logger,
//	    middleware.WithLogLevel(slog.LevelInfo),
//	    middleware.WithEventKinds(reactive.EventSignalWritten, reactive.EventRunFinished),
//	)
//
// # Prometheus Metrics
//
// Prometheus collects:
//   - signalgraph_signals_created_total
//   - signalgraph_observers_created_total
//   - signalgraph_signal_writes_total
//   - signalgraph_observer_runs_total{status="ok|panic"}
//   - signalgraph_observer_run_duration_seconds
//   - signalgraph_propagation_depth
//   - signalgraph_write_fanout
//   - signalgraph_active_subscriptions
//
// Expose them with promhttp as usual.
//
// # OpenTelemetry
//
// OpenTelemetry starts a span for every observer execution. Nested
// executions (an effect whose write re-runs another effect) become child
// spans, so one trace shows a whole propagation chain. Inside an effect
// body, TraceContext returns the context of the running span for
// downstream calls.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given with WithTracerProvider.
package middleware
