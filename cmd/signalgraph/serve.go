package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/signalgraph/internal/config"
	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
	"github.com/vango-dev/signalgraph/pkg/inspect"
	"github.com/vango-dev/signalgraph/pkg/middleware"
	"github.com/vango-dev/signalgraph/pkg/reactive"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port     int
		host     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Tick a demo graph and serve the inspector",
		Long: `Build a demo graph, write to it on an interval, and serve the
inspector so the graph can be watched live.

Routes:
  /healthz            liveness probe
  /graphs             known graphs
  /graphs/{id}        snapshot of one graph
  /events             WebSocket event stream
  /metrics            Prometheus metrics (metrics.enabled)

Examples:
  signalgraph serve
  signalgraph serve --port=8080 --interval=250ms
  signalgraph serve --config=signalgraph.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			if port > 0 {
				cfg.Inspector.Port = port
			}
			if host != "" {
				cfg.Inspector.Host = host
			}
			if interval < 0 {
				return sgerrors.New("E401").WithDetailf("--interval must not be negative, got %s", interval)
			}
			if interval > 0 {
				cfg.Serve.TickInterval = config.Duration(interval)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Tick interval (default from config)")

	return cmd
}

// demoGraph is the graph `serve` keeps writing to.
type demoGraph struct {
	g     *reactive.Graph
	ticks *reactive.NumberSignal[int]
}

// newDemoGraph wires a tick counter, two memos and an effect that reads one
// memo or the other depending on parity, so edges change on every tick.
func newDemoGraph(logger *slog.Logger, opts ...reactive.Option) *demoGraph {
	g := reactive.New(opts...)

	ticks := reactive.NewNumberSignal(g, 0, reactive.WithLabel("ticks"))
	even := reactive.NewMemo(g, func() bool {
		return ticks.Get()%2 == 0
	}, reactive.WithLabel("even"))
	squared := reactive.NewMemo(g, func() int {
		n := ticks.Get()
		return n * n
	}, reactive.WithLabel("squared"))

	g.Effect(func() {
		if even.Get() {
			logger.Debug("tick", "squared", squared.Get())
			return
		}
		logger.Debug("tick", "ticks", ticks.Get())
	}, reactive.WithLabel("reporter"))

	return &demoGraph{g: g, ticks: ticks}
}

func (d *demoGraph) tick() {
	d.ticks.Inc()
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ins := inspect.New(
		inspect.WithGatherer(reg),
		inspect.WithLogger(logger),
		inspect.WithEventBuffer(cfg.Inspector.EventBuffer),
	)

	hooks := []reactive.Hook{ins, middleware.Logger(logger)}
	if cfg.Metrics.Enabled {
		hooks = append(hooks, middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithSubsystem(cfg.Metrics.Subsystem),
		))
	}
	if cfg.Tracing.Enabled {
		hooks = append(hooks, middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
		))
	}

	demo := newDemoGraph(logger,
		reactive.WithLogger(logger),
		reactive.WithMaxDepth(cfg.Graph.MaxDepth),
		reactive.WithHooks(hooks...),
	)

	addr := cfg.InspectorAddress()
	printBanner(out)
	success(out, "Inspector at http://%s", addr)
	info(out, "Graph %d ticks every %s", demo.g.ID(), cfg.Serve.TickInterval)
	if !cfg.Metrics.Enabled {
		warn(out, "Graph metrics disabled (metrics.enabled = false)")
	}
	fmt.Fprintln(out)

	errCh := make(chan error, 1)
	go func() {
		errCh <- ins.ListenAndServe(ctx, addr)
	}()

	// The graph is only ever touched from this goroutine.
	ticker := time.NewTicker(cfg.Serve.TickInterval.Std())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			demo.tick()
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return <-errCh
		}
	}
}
