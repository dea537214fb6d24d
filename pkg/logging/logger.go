// Package logging provides structured logging for spies and the
// assertion engine with JSON, console, and multi-destination
// output.
package logging

import (
	"fmt"
	"strings"
)

// Logger defines the interface for structured logging of test
// doubles.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// LogInvocation logs a completed spy invocation.
	LogInvocation(invocation InvocationLog)

	// LogAssertion logs the outcome of an assertion.
	LogAssertion(assertion AssertionLog)

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// InvocationLog captures one completed spy invocation.
type InvocationLog struct {
	Timestamp   string `json:"timestamp"`
	Spy         string `json:"spy"`
	SpyID       string `json:"spy_id"`
	Ordinal     int64  `json:"ordinal"`
	Index       int    `json:"index"`
	Call        string `json:"call"`
	Returns     string `json:"returns,omitempty"`
	Panic       string `json:"panic,omitempty"`
	Constructed bool   `json:"constructed,omitempty"`
}

// AssertionLog captures the outcome of one assertion.
type AssertionLog struct {
	Timestamp string `json:"timestamp"`
	Assertion string `json:"assertion"`
	Target    string `json:"target"`
	Passed    bool   `json:"passed"`
	Message   string `json:"message,omitempty"`
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}
