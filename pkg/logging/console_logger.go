package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ConsoleLogger provides colored console output.
type ConsoleLogger struct {
	mu      *sync.Mutex
	output  io.Writer
	verbose bool
	fields  map[string]any
}

// NewConsoleLogger creates a console logger writing to stdout.
// When verbose is true, debug messages and individual
// invocations are emitted.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stdout, verbose)
}

// NewConsoleLoggerTo creates a console logger writing to w.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		mu:      &sync.Mutex{},
		output:  w,
		verbose: verbose,
		fields:  make(map[string]any),
	}
}

func (c *ConsoleLogger) log(
	level LogLevel, color, msg string, fields ...Field,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Now().Format("15:04:05")

	merged := make(map[string]any, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	var fieldStr string
	if len(merged) > 0 {
		keys := make([]string, 0, len(merged))
		for k := range merged {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, merged[k]))
		}
		fieldStr = " " + colorGray +
			fmt.Sprintf("{%s}", strings.Join(parts, ", ")) +
			colorReset
	}

	fmt.Fprintf(
		c.output, "%s%s%s [%s%-5s%s] %s%s\n",
		colorGray, ts, colorReset,
		color, level.String(), colorReset,
		msg, fieldStr,
	)
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, colorBlue, msg, fields...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, colorYellow, msg, fields...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, colorRed, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	if c.verbose {
		c.log(LevelDebug, colorGray, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields. The new logger shares the output and its lock.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	newFields := make(map[string]any, len(c.fields)+len(fields))
	for k, v := range c.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}
	return &ConsoleLogger{
		mu:      c.mu,
		output:  c.output,
		verbose: c.verbose,
		fields:  newFields,
	}
}

// LogInvocation prints the rendered call in verbose mode. Calls
// that panicked are always printed as warnings.
func (c *ConsoleLogger) LogInvocation(invocation InvocationLog) {
	if invocation.Panic != "" {
		c.Warn(invocation.Call+" panicked",
			Int64Field("ordinal", invocation.Ordinal),
			StringField("panic", invocation.Panic),
		)
		return
	}
	c.Debug(invocation.Call,
		Int64Field("ordinal", invocation.Ordinal),
		StringField("returns", invocation.Returns),
	)
}

// LogAssertion prints failed assertions as errors and passed
// ones in green.
func (c *ConsoleLogger) LogAssertion(assertion AssertionLog) {
	if !assertion.Passed {
		c.Error(assertion.Message,
			StringField("assertion", assertion.Assertion),
			StringField("target", assertion.Target),
		)
		return
	}
	c.log(LevelInfo, colorGreen, "assert "+assertion.Assertion+" passed",
		StringField("target", assertion.Target),
	)
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
