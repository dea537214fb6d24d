// Package config loads library settings from YAML files and
// DOUBLES_* environment variables, and applies them to an
// assertion engine.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"digital.vasic.doubles/pkg/assertion"
	"digital.vasic.doubles/pkg/logging"
	"digital.vasic.doubles/pkg/metrics"
	"digital.vasic.doubles/pkg/spy"
)

// Log formats.
const (
	FormatNone    = "none"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds all library settings.
type Config struct {
	Assert  AssertConfig  `yaml:"assert"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AssertConfig configures the assertion engine.
type AssertConfig struct {
	FailException string                  `yaml:"fail_exception"`
	Expose        assertion.ExposeOptions `yaml:"expose"`
}

// LoggingConfig selects and configures the logger.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	InvocationLog string `yaml:"invocation_log"`
	AssertionLog  string `yaml:"assertion_log"`
	Verbose       bool   `yaml:"verbose"`

	// Redact names environment variables whose values are
	// masked in every log line.
	Redact []string `yaml:"redact"`
}

// MetricsConfig enables in-memory counters.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in settings: failures raise
// AssertError, exposed names use the "assert" prefix and
// logging is off.
func Default() *Config {
	return &Config{
		Assert: AssertConfig{
			FailException: assertion.DefaultFailException,
			Expose:        assertion.DefaultExposeOptions(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatNone,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are
// rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the
// result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from DOUBLES_* variables.
func (c *Config) ApplyEnv(env Getter) error {
	str := func(key string, dst *string) {
		if v := env.Get(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v := env.Get(EnvPrefix + key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("FAIL_EXCEPTION", &c.Assert.FailException)
	if v, ok := lookup(env, EnvPrefix+"EXPOSE_PREFIX"); ok {
		c.Assert.Expose.Prefix = v
	}
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("LOG_OUTPUT", &c.Logging.Output)
	str("INVOCATION_LOG", &c.Logging.InvocationLog)
	str("ASSERTION_LOG", &c.Logging.AssertionLog)
	if v := env.Get(EnvPrefix + "LOG_REDACT"); v != "" {
		c.Logging.Redact = splitList(v)
	}

	for key, dst := range map[string]*bool{
		"EXPOSE_EXCLUDE_FAIL": &c.Assert.Expose.ExcludeFail,
		"LOG_VERBOSE":         &c.Logging.Verbose,
		"METRICS":             &c.Metrics.Enabled,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return c.Validate()
}

// lookup distinguishes an empty process variable from an unset
// one, so that DOUBLES_EXPOSE_PREFIX= selects bare names.
func lookup(env Getter, key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	if l, ok := env.(*EnvLoader); ok {
		l.mu.RLock()
		defer l.mu.RUnlock()
		v, ok := l.vars[key]
		return v, ok
	}
	v := env.Get(key)
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the log level and format.
func (c *Config) Validate() error {
	if c.Assert.FailException == "" {
		return fmt.Errorf("assert.fail_exception must not be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", FormatNone, FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}

// NewLogger builds the configured logger. Values of the
// variables named in Logging.Redact are masked.
func (c *Config) NewLogger(env Getter) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	if c.Logging.Verbose {
		level = logging.LevelDebug
	}

	jsonLogger := func() (*logging.JSONLogger, error) {
		return logging.NewJSONLogger(logging.LoggerConfig{
			OutputPath:    c.Logging.Output,
			InvocationLog: c.Logging.InvocationLog,
			AssertionLog:  c.Logging.AssertionLog,
			Level:         level,
			Verbose:       c.Logging.Verbose,
		})
	}

	var logger logging.Logger
	switch c.Logging.Format {
	case "", FormatNone:
		return logging.NullLogger{}, nil
	case FormatConsole:
		logger = logging.NewConsoleLogger(c.Logging.Verbose)
		// An output file keeps a JSON Lines copy next to the
		// console.
		if c.Logging.Output != "" {
			jl, err := jsonLogger()
			if err != nil {
				return nil, err
			}
			logger = logging.NewMultiLogger(logger, jl)
		}
	case FormatJSON:
		logger, err = jsonLogger()
		if err != nil {
			return nil, err
		}
	}

	if secrets := c.secrets(env); len(secrets) > 0 {
		logger = logging.NewRedactingLogger(logger, secrets...)
	}
	return logger, nil
}

func (c *Config) secrets(env Getter) []string {
	if env == nil {
		return nil
	}
	var out []string
	for _, key := range c.Logging.Redact {
		if v := env.Get(key); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// NewCollector returns in-memory counters when metrics are
// enabled, otherwise a no-op collector.
func (c *Config) NewCollector() metrics.Collector {
	if c.Metrics.Enabled {
		return metrics.NewCounters()
	}
	return metrics.NoopCollector{}
}

// Runtime is the logger and collector built from a Config.
type Runtime struct {
	Logger  logging.Logger
	Metrics metrics.Collector
	Expose  assertion.ExposeOptions
}

// SpyOptions returns the options wiring new spies to the
// runtime's logger and collector.
func (r *Runtime) SpyOptions() []spy.Option {
	return []spy.Option{spy.WithLogger(r.Logger), spy.WithMetrics(r.Metrics)}
}

// Close closes the logger.
func (r *Runtime) Close() error {
	return r.Logger.Close()
}

// Apply builds the runtime and installs it on e together with
// the configured fail exception.
func (c *Config) Apply(e *assertion.DefaultEngine, env Getter) (*Runtime, error) {
	logger, err := c.NewLogger(env)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Logger:  logger,
		Metrics: c.NewCollector(),
		Expose:  c.Assert.Expose,
	}
	e.SetFailException(c.Assert.FailException)
	e.SetLogger(rt.Logger)
	e.SetMetrics(rt.Metrics)
	return rt, nil
}
