package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
	"github.com/vango-dev/signalgraph/pkg/reactive"
)

// DefaultEventBuffer is the per-client queue length of the event stream.
const DefaultEventBuffer = 256

// Inspector mirrors graph events and serves them over HTTP.
// It implements reactive.Hook.
type Inspector struct {
	mu     sync.RWMutex
	graphs map[uint64]*graphModel

	hub      *hub
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	shutdownTimeout time.Duration
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(i *Inspector) {
		i.gatherer = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithEventBuffer sets how many events may queue per stream client before
// events are dropped for that client.
func WithEventBuffer(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.hub.buffer = n
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown in ListenAndServe.
func WithShutdownTimeout(d time.Duration) Option {
	return func(i *Inspector) {
		i.shutdownTimeout = d
	}
}

// New creates an inspector with no graphs.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		graphs:          make(map[uint64]*graphModel),
		logger:          slog.Default(),
		shutdownTimeout: 5 * time.Second,
	}
	i.hub = newHub(DefaultEventBuffer, i.logger)
	for _, opt := range opts {
		opt(i)
	}
	i.hub.logger = i.logger
	return i
}

// HandleEvent implements reactive.Hook.
func (i *Inspector) HandleEvent(e reactive.Event) {
	i.mu.Lock()
	m, ok := i.graphs[e.Graph]
	if !ok {
		m = newGraphModel(e.Graph)
		i.graphs[e.Graph] = m
	}
	m.apply(e)
	i.mu.Unlock()

	if i.hub.clientCount() == 0 {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	i.hub.broadcast(e.Graph, data)
}

// Graphs returns the IDs of every graph seen so far, sorted.
func (i *Inspector) Graphs() []uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ids := make([]uint64, 0, len(i.graphs))
	for id := range i.graphs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Snapshot returns the inspector's view of graph id.
func (i *Inspector) Snapshot(id uint64) (reactive.Snapshot, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	m, ok := i.graphs[id]
	if !ok {
		return reactive.Snapshot{}, false
	}
	return m.snapshot(), true
}

// Summaries returns one summary per known graph, ordered by ID.
func (i *Inspector) Summaries() []GraphSummary {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]GraphSummary, 0, len(i.graphs))
	for _, m := range i.graphs {
		out = append(out, m.summary())
	}
	slices.SortFunc(out, func(a, b GraphSummary) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Clients returns the number of connected event stream clients.
func (i *Inspector) Clients() int {
	return i.hub.clientCount()
}

// Dropped returns how many stream messages were dropped for slow clients.
func (i *Inspector) Dropped() uint64 {
	return i.hub.dropped.Load()
}

// Handler returns the inspector's HTTP routes.
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/graphs", i.handleGraphs)
	r.Get("/graphs/{graphID}", i.handleGraph)
	r.Get("/events", i.handleEvents)
	if i.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(i.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (i *Inspector) handleGraphs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, i.Summaries())
}

func (i *Inspector) handleGraph(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "graphID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, sgerrors.New("E302").WithDetailf("graph id %q is not a number", raw))
		return
	}
	snap, ok := i.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, sgerrors.New("E302").WithDetailf("no graph with id %d", id))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (i *Inspector) handleEvents(w http.ResponseWriter, r *http.Request) {
	var graph uint64
	if raw := r.URL.Query().Get("graph"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, sgerrors.New("E302").WithDetailf("graph id %q is not a number", raw))
			return
		}
		graph = id
	}
	i.hub.serve(w, r, graph)
}

// ListenAndServe serves the inspector on addr until ctx is cancelled, then
// shuts down gracefully and disconnects stream clients.
func (i *Inspector) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return sgerrors.New("E301").WithDetailf("address %s", addr).Wrap(err)
	}
	return i.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (i *Inspector) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           i.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		i.logger.Info("inspector listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		i.hub.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	i.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), i.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		i.logger.Error("inspector shutdown error", "error", err)
		return err
	}
	i.logger.Info("inspector stopped")
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err *sgerrors.Error) {
	writeJSON(w, status, errorBody{Code: err.Code, Message: err.Message, Detail: err.Detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
