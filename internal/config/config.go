// Package config provides the configuration types, defaults and persistence of the wiretap CLI.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/wiretap/internal/tracing"
)

// Executor kinds.
const (
	ExecutorSync = "sync"
	ExecutorLoop = "loop"
	ExecutorPool = "pool"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Executor ExecutorConfig `mapstructure:"executor" yaml:"executor"`
	Tracing  tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// ExecutorConfig selects where listeners and task work run.
type ExecutorConfig struct {
	// Kind is sync (the emitting goroutine), loop (one serial goroutine) or pool.
	Kind string `mapstructure:"kind" yaml:"kind"`

	// PoolSize bounds the parallelism of the pool executor.
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size"`
}

func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Executor: ExecutorConfig{
			Kind:     ExecutorLoop,
			PoolSize: 4,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// SetDefaults registers every default with v, so that keys missing from the
// config file still unmarshal to their default.
func SetDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("executor.kind", d.Executor.Kind)
	v.SetDefault("executor.pool_size", d.Executor.PoolSize)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load reads the config file at path, or only the defaults and the
// environment when path is empty.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("WIRETAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}

	switch c.Executor.Kind {
	case ExecutorSync, ExecutorLoop:
	case ExecutorPool:
		if c.Executor.PoolSize < 1 {
			return fmt.Errorf("executor.pool_size must be at least 1, got %d", c.Executor.PoolSize)
		}
	default:
		return fmt.Errorf("executor.kind must be \"sync\", \"loop\", or \"pool\", got %q", c.Executor.Kind)
	}

	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled && t.Exporter == "file" && t.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}

	return nil
}

// YAML renders c the way a config file would hold it.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return buf.Bytes(), nil
}

// WriteDefault writes the default config to path, creating its directory.
func WriteDefault(path string) error {
	data, err := Defaults().YAML()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}

	return level, nil
}
