package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = jsoniter.ConfigCompatibleWithStandardLibrary.Marshal

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	OutputPath    string
	InvocationLog string
	AssertionLog  string
	Level         LogLevel
	Verbose       bool
	Fields        map[string]any
}

// JSONLogger implements Logger with JSON Lines output.
// Invocations and assertions go to their own files when
// configured.
type JSONLogger struct {
	mu            *sync.Mutex
	output        io.Writer
	invocationLog io.Writer
	assertionLog  io.Writer
	level         LogLevel
	fields        map[string]any
	verbose       bool
	closed        *bool
}

// NewJSONLogger creates a new JSON logger. If OutputPath is
// empty, logs are written to stdout.
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	closed := false
	logger := &JSONLogger{
		mu:      &sync.Mutex{},
		level:   config.Level,
		verbose: config.Verbose,
		fields:  config.Fields,
		closed:  &closed,
	}

	if logger.fields == nil {
		logger.fields = make(map[string]any)
	}

	if config.OutputPath != "" {
		file, err := openLog(config.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.output = file
	} else {
		logger.output = os.Stdout
	}

	if config.InvocationLog != "" {
		file, err := openLog(config.InvocationLog)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to open invocation log: %w", err,
			)
		}
		logger.invocationLog = file
	}

	if config.AssertionLog != "" {
		file, err := openLog(config.AssertionLog)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to open assertion log: %w", err,
			)
		}
		logger.assertionLog = file
	}

	return logger, nil
}

// NewJSONLoggerTo creates a JSON logger writing entries,
// invocations, and assertions to w.
func NewJSONLoggerTo(w io.Writer, level LogLevel) *JSONLogger {
	closed := false
	return &JSONLogger{
		mu:            &sync.Mutex{},
		output:        w,
		invocationLog: w,
		assertionLog:  w,
		level:         level,
		verbose:       level == LevelDebug,
		fields:        make(map[string]any),
		closed:        &closed,
	}
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func (l *JSONLogger) log(
	level LogLevel, msg string, fields ...Field,
) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]any),
	}
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	l.write(l.output, entry)
}

func (l *JSONLogger) write(w io.Writer, v any) {
	if w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if *l.closed {
		return
	}

	data, err := jsonMarshal(v)
	if err != nil {
		return
	}
	fmt.Fprintln(w, string(data))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log(LevelDebug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields. The child shares writers and lifecycle with l.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}

	return &JSONLogger{
		mu:            l.mu,
		output:        l.output,
		invocationLog: l.invocationLog,
		assertionLog:  l.assertionLog,
		level:         l.level,
		verbose:       l.verbose,
		fields:        newFields,
		closed:        l.closed,
	}
}

// LogInvocation writes the invocation to the invocation log.
func (l *JSONLogger) LogInvocation(invocation InvocationLog) {
	l.write(l.invocationLog, invocation)
}

// LogAssertion writes the outcome to the assertion log.
func (l *JSONLogger) LogAssertion(assertion AssertionLog) {
	l.write(l.assertionLog, assertion)
}

// Close closes all underlying files. Later writes are dropped.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if *l.closed {
		return nil
	}
	*l.closed = true

	var errs []error
	seen := map[io.Writer]bool{os.Stdout: true}
	for _, w := range []io.Writer{l.output, l.invocationLog, l.assertionLog} {
		if w == nil || seen[w] {
			continue
		}
		seen[w] = true
		if closer, ok := w.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// SetupLogging creates a JSON logger writing doubles.log,
// invocations.log and assertions.log into logsDir.
func SetupLogging(
	logsDir string,
	verbose bool,
) (*JSONLogger, error) {
	config := LoggerConfig{
		OutputPath:    filepath.Join(logsDir, "doubles.log"),
		InvocationLog: filepath.Join(logsDir, "invocations.log"),
		AssertionLog:  filepath.Join(logsDir, "assertions.log"),
		Level:         LevelInfo,
		Verbose:       verbose,
	}

	if verbose {
		config.Level = LevelDebug
	}

	return NewJSONLogger(config)
}
