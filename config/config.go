// Package config loads the YAML file shared by the CLI and the server.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gorootfind/sweep"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Sweeps []sweep.Spec `yaml:"sweeps"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RequestTimeout bounds each run or sweep handled by the server.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxIterations caps every run the server performs; requests may ask
	// for less, never more.
	MaxIterations int  `yaml:"max_iterations"`
	Debug         bool `yaml:"debug"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxBodyBytes:   1 << 20,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxIterations:  10000,
		},
		Sweeps: []sweep.Spec{sweep.DefaultSpec()},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values; a sweeps list in the file replaces the default sweep.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg.Sweeps = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(cfg.Sweeps) == 0 {
		cfg.Sweeps = []sweep.Spec{sweep.DefaultSpec()}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.Server.MaxIterations <= 0 {
		return fmt.Errorf("%w: server.max_iterations must be positive", ErrInvalidConfig)
	}
	seen := map[string]bool{}
	for i, s := range c.Sweeps {
		s = s.WithDefaults()
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: sweeps[%d]: %w", ErrInvalidConfig, i, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate sweep name %q", ErrInvalidConfig, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Sweep returns the sweep called name.
func (c Config) Sweep(name string) (sweep.Spec, bool) {
	for _, s := range c.Sweeps {
		if s.WithDefaults().Name == name {
			return s, true
		}
	}
	return sweep.Spec{}, false
}

// Logger builds a slog.Logger writing to w.
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
	return level, nil
}
