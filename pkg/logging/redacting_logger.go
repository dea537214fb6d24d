package logging

import "strings"

// RedactingLogger is a decorator that masks secrets before they
// reach the inner logger. Spies record arguments verbatim, so
// rendered calls, results, panics and assertion messages are
// redacted as well as messages and string fields.
type RedactingLogger struct {
	inner   Logger
	secrets []string
}

// NewRedactingLogger creates a logger that redacts the given
// secrets. Secrets of four characters or fewer are ignored.
func NewRedactingLogger(
	inner Logger,
	secrets ...string,
) *RedactingLogger {
	return &RedactingLogger{
		inner:   inner,
		secrets: secrets,
	}
}

func (r *RedactingLogger) redact(msg string) string {
	result := msg
	for _, secret := range r.secrets {
		if len(secret) > 4 {
			result = strings.ReplaceAll(
				result, secret, redactValue(secret),
			)
		}
	}
	return result
}

// redactValue masks all but the first 4 characters.
func redactValue(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func (r *RedactingLogger) redactFields(fields []Field) []Field {
	result := make([]Field, len(fields))
	for i, f := range fields {
		if str, ok := f.Value.(string); ok {
			result[i] = Field{Key: f.Key, Value: r.redact(str)}
		} else {
			result[i] = f
		}
	}
	return result
}

// Info logs a redacted informational message.
func (r *RedactingLogger) Info(msg string, fields ...Field) {
	r.inner.Info(r.redact(msg), r.redactFields(fields)...)
}

// Warn logs a redacted warning message.
func (r *RedactingLogger) Warn(msg string, fields ...Field) {
	r.inner.Warn(r.redact(msg), r.redactFields(fields)...)
}

// Error logs a redacted error message.
func (r *RedactingLogger) Error(msg string, fields ...Field) {
	r.inner.Error(r.redact(msg), r.redactFields(fields)...)
}

// Debug logs a redacted debug message.
func (r *RedactingLogger) Debug(msg string, fields ...Field) {
	r.inner.Debug(r.redact(msg), r.redactFields(fields)...)
}

// WithFields returns a RedactingLogger wrapping a new inner
// logger with the given fields applied.
func (r *RedactingLogger) WithFields(fields ...Field) Logger {
	return &RedactingLogger{
		inner:   r.inner.WithFields(r.redactFields(fields)...),
		secrets: r.secrets,
	}
}

// LogInvocation logs an invocation with its rendered call,
// results and panic redacted.
func (r *RedactingLogger) LogInvocation(invocation InvocationLog) {
	invocation.Call = r.redact(invocation.Call)
	invocation.Returns = r.redact(invocation.Returns)
	invocation.Panic = r.redact(invocation.Panic)
	r.inner.LogInvocation(invocation)
}

// LogAssertion logs an assertion outcome with its message and
// target redacted.
func (r *RedactingLogger) LogAssertion(assertion AssertionLog) {
	assertion.Message = r.redact(assertion.Message)
	assertion.Target = r.redact(assertion.Target)
	r.inner.LogAssertion(assertion)
}

// Close closes the inner logger.
func (r *RedactingLogger) Close() error {
	return r.inner.Close()
}
