package middleware

import (
	"context"
	"log/slog"

	"github.com/vango-dev/signalgraph/pkg/reactive"
)

// LoggerConfig configures the logging hook.
type LoggerConfig struct {
	// Level is the level ordinary events are logged at (default: Debug).
	// Panicking runs are always logged at Warn or above.
	Level slog.Level

	// Kinds restricts logging to these event kinds. Empty means all.
	Kinds map[reactive.EventKind]bool
}

// LoggerOption configures the logging hook.
type LoggerOption func(*LoggerConfig)

// WithLogLevel sets the level ordinary events are logged at.
func WithLogLevel(level slog.Level) LoggerOption {
	return func(c *LoggerConfig) {
		c.Level = level
	}
}

// WithEventKinds restricts logging to the given kinds.
func WithEventKinds(kinds ...reactive.EventKind) LoggerOption {
	return func(c *LoggerConfig) {
		if c.Kinds == nil {
			c.Kinds = make(map[reactive.EventKind]bool, len(kinds))
		}
		for _, k := range kinds {
			c.Kinds[k] = true
		}
	}
}

type loggerHook struct {
	logger *slog.Logger
	config LoggerConfig
}

// Logger returns a hook that logs graph events to logger.
// A nil logger uses slog.Default().
func Logger(logger *slog.Logger, opts ...LoggerOption) reactive.Hook {
	if logger == nil {
		logger = slog.Default()
	}
	config := LoggerConfig{Level: slog.LevelDebug}
	for _, opt := range opts {
		opt(&config)
	}
	return &loggerHook{logger: logger, config: config}
}

func (h *loggerHook) HandleEvent(e reactive.Event) {
	if len(h.config.Kinds) > 0 && !h.config.Kinds[e.Kind] {
		return
	}

	level := h.config.Level
	msg := "reactive " + e.Kind.String()
	if e.Kind == reactive.EventRunFinished && e.Panicked {
		level = max(level, slog.LevelWarn)
		msg = "reactive observer panicked"
	}

	ctx := context.Background()
	if !h.logger.Enabled(ctx, level) {
		return
	}
	h.logger.LogAttrs(ctx, level, msg, eventAttrs(e)...)
}

// eventAttrs returns the attributes relevant to the event's kind.
func eventAttrs(e reactive.Event) []slog.Attr {
	attrs := []slog.Attr{slog.Uint64("graph", e.Graph)}

	switch e.Kind {
	case reactive.EventSignalCreated:
		attrs = append(attrs,
			slog.Int("signal", int(e.Signal)),
			slog.String("label", e.Label))
	case reactive.EventObserverCreated:
		attrs = append(attrs,
			slog.Int("observer", int(e.Observer)),
			slog.String("label", e.Label))
	case reactive.EventSubscribed, reactive.EventUnsubscribed:
		attrs = append(attrs,
			slog.Int("signal", int(e.Signal)),
			slog.Int("observer", int(e.Observer)))
	case reactive.EventSignalWritten:
		attrs = append(attrs,
			slog.Int("signal", int(e.Signal)),
			slog.String("label", e.Label),
			slog.Int("subscribers", e.Subscribers))
	case reactive.EventRunStarted, reactive.EventRunFinished:
		attrs = append(attrs,
			slog.Int("observer", int(e.Observer)),
			slog.String("label", e.Label),
			slog.Uint64("run", e.Run),
			slog.Int("depth", e.Depth))
		if e.Panicked {
			attrs = append(attrs, slog.Bool("panicked", true))
		}
	}
	return attrs
}
