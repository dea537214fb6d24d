package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger_Stdout(t *testing.T) {
	logger, err := NewJSONLogger(LoggerConfig{Level: LevelInfo})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, logger.Close())
}

func TestJSONLogger_File(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "test.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelDebug,
		Verbose:    true,
	})
	require.NoError(t, err)

	logger.Info("hello", LogField("key", "val"))
	logger.Debug("debug msg")
	require.NoError(t, logger.Close())

	lines := readLines(t, logPath)
	require.Len(t, lines, 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "val", entry.Fields["key"])
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, LevelWarn)

	logger.Debug("should not appear")
	logger.Info("should not appear")
	logger.Warn("should appear")
	logger.Error("should appear")

	assert.Len(t, splitNonEmpty(buf.String()), 2)
}

func TestJSONLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, LevelInfo)

	logger.WithFields(LogField("child", "yes")).Info("child message")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(
		[]byte(splitNonEmpty(buf.String())[0]), &entry,
	))
	assert.Equal(t, "yes", entry.Fields["child"])
}

func TestJSONLogger_DedicatedLogs(t *testing.T) {
	dir := t.TempDir()
	invPath := filepath.Join(dir, "invocations.log")
	asrtPath := filepath.Join(dir, "assertions.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath:    filepath.Join(dir, "main.log"),
		InvocationLog: invPath,
		AssertionLog:  asrtPath,
		Level:         LevelInfo,
	})
	require.NoError(t, err)

	logger.LogInvocation(InvocationLog{Spy: "fetch", Ordinal: 1, Call: "fetch(1)"})
	logger.LogInvocation(InvocationLog{Spy: "fetch", Ordinal: 2, Call: "fetch(2)"})
	logger.LogAssertion(AssertionLog{Assertion: "calledTwice", Target: "fetch", Passed: true})
	require.NoError(t, logger.Close())

	invocations := readLines(t, invPath)
	require.Len(t, invocations, 2)
	var inv InvocationLog
	require.NoError(t, json.Unmarshal([]byte(invocations[1]), &inv))
	assert.Equal(t, int64(2), inv.Ordinal)
	assert.Equal(t, "fetch(2)", inv.Call)

	assertions := readLines(t, asrtPath)
	require.Len(t, assertions, 1)
	assert.Contains(t, assertions[0], `"passed":true`)

	assert.Empty(t, readLines(t, filepath.Join(dir, "main.log")))
}

func TestJSONLogger_NoDedicatedLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := &JSONLogger{
		mu:     NewJSONLoggerTo(&buf, LevelInfo).mu,
		output: &buf,
		fields: map[string]any{},
		closed: new(bool),
	}

	logger.LogInvocation(InvocationLog{Spy: "fetch"})
	logger.LogAssertion(AssertionLog{Assertion: "called"})

	assert.Empty(t, buf.String())
}

func TestJSONLogger_ClosedLoggerNoop(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "closed.log")

	logger, err := NewJSONLogger(LoggerConfig{
		OutputPath: logPath,
		Level:      LevelInfo,
	})
	require.NoError(t, err)
	child := logger.WithFields(LogField("a", 1))
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Info("after close")
	child.Info("after close")

	assert.Empty(t, readLines(t, logPath))
}

func TestJSONLogger_MarshalError(t *testing.T) {
	orig := jsonMarshal
	jsonMarshal = func(any) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}
	defer func() { jsonMarshal = orig }()

	var buf bytes.Buffer
	NewJSONLoggerTo(&buf, LevelInfo).Info("dropped")

	assert.Empty(t, buf.String())
}

func TestSetupLogging(t *testing.T) {
	dir := t.TempDir()
	logger, err := SetupLogging(dir, true)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("setup test")
	require.NoError(t, logger.Close())

	for _, name := range []string{"doubles.log", "invocations.log", "assertions.log"} {
		_, err = os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return splitNonEmpty(string(data))
}

func splitNonEmpty(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}
