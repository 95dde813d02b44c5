package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/signalgraph/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file looked up by Load.
	ConfigFileName = "signalgraph.json"

	// DefaultMaxDepth bounds nested observer executions in tooling graphs.
	DefaultMaxDepth = 1000

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultEventBuffer is the per-client event queue of the inspector.
	DefaultEventBuffer = 256

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "signalgraph"

	// DefaultTickInterval is how often `signalgraph serve` writes its demo signal.
	DefaultTickInterval = time.Second
)

// Config represents the complete signalgraph configuration.
type Config struct {
	// Graph configures reactive graphs built by the tooling.
	Graph GraphConfig `json:"graph" yaml:"graph"`

	// Log configures the structured logger.
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics configures Prometheus instrumentation.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures OpenTelemetry instrumentation.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Inspector configures the HTTP/WebSocket inspector.
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`

	// Serve configures the `serve` command's demo graph.
	Serve ServeConfig `json:"serve" yaml:"serve"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// GraphConfig contains reactive graph settings.
type GraphConfig struct {
	// MaxDepth is the nested execution limit; 0 disables it.
	MaxDepth int `json:"maxDepth" yaml:"maxDepth"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	Host        string `json:"host,omitempty" yaml:"host,omitempty"`
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`
	EventBuffer int    `json:"eventBuffer,omitempty" yaml:"eventBuffer,omitempty"`
}

// ServeConfig contains settings for the serve command.
type ServeConfig struct {
	TickInterval Duration `json:"tickInterval,omitempty" yaml:"tickInterval,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Graph: GraphConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
		Inspector: InspectorConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			EventBuffer: DefaultEventBuffer,
		},
		Serve: ServeConfig{
			TickInterval: Duration(DefaultTickInterval),
		},
	}
}

// Load reads signalgraph.json from the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E202").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Create " + ConfigFileName + " or omit --config to use defaults")
		}
		return nil, errors.New("E203").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E203").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path, as YAML or JSON by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E203").Wrap(err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Path returns the path the config was loaded from, empty for defaults.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in empty values after decoding.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Inspector.EventBuffer == 0 {
		c.Inspector.EventBuffer = DefaultEventBuffer
	}
	if c.Serve.TickInterval == 0 {
		c.Serve.TickInterval = Duration(DefaultTickInterval)
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Graph.MaxDepth < 0 {
		return errors.New("E201").
			WithDetail("graph.maxDepth must not be negative").
			WithSuggestion("Set graph.maxDepth to 0 to disable the limit")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("E201").WithDetail(err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E201").
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("E201").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if c.Inspector.EventBuffer < 0 {
		return errors.New("E201").
			WithDetail("inspector.eventBuffer must not be negative")
	}
	if c.Serve.TickInterval < 0 {
		return errors.New("E201").
			WithDetail("serve.tickInterval must not be negative")
	}
	return nil
}

// InspectorAddress returns the host:port the inspector listens on.
func (c *Config) InspectorAddress() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

// NewLogger builds a slog.Logger writing to w according to the log section.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s)
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
