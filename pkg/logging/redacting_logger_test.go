package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testSecret = "sk-test-1234567890"

const maskedSecret = "sk-t**************"

func TestRedactValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "***"},
		{"abcd", "****"},
		{"abcdef", "abcd**"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, redactValue(tt.in))
		})
	}
}

func TestRedactingLogger_RedactsMessageAndFields(t *testing.T) {
	inner := new(mockLogger)
	logger := NewRedactingLogger(inner, testSecret)

	inner.On("Info", "token "+maskedSecret, mock.MatchedBy(func(fields []Field) bool {
		return len(fields) == 2 &&
			fields[0].Value == maskedSecret &&
			fields[1].Value == 42
	})).Return()

	logger.Info("token "+testSecret,
		StringField("token", testSecret),
		LogField("n", 42),
	)
	inner.AssertExpectations(t)
}

func TestRedactingLogger_ShortSecretsIgnored(t *testing.T) {
	inner := new(mockLogger)
	logger := NewRedactingLogger(inner, "abc", "")

	inner.On("Warn", "abc stays", []Field{}).Return()

	logger.Warn("abc stays")
	inner.AssertExpectations(t)
}

func TestRedactingLogger_LogInvocation(t *testing.T) {
	inner := new(mockLogger)
	logger := NewRedactingLogger(inner, testSecret)

	inner.On("LogInvocation", InvocationLog{
		Spy:     "login",
		Call:    "login(admin, " + maskedSecret + ")",
		Returns: maskedSecret,
		Panic:   "",
	}).Return()

	logger.LogInvocation(InvocationLog{
		Spy:     "login",
		Call:    "login(admin, " + testSecret + ")",
		Returns: testSecret,
	})
	inner.AssertExpectations(t)
}

func TestRedactingLogger_LogAssertion(t *testing.T) {
	inner := new(mockLogger)
	logger := NewRedactingLogger(inner, testSecret)

	inner.On("LogAssertion", AssertionLog{
		Assertion: "calledWith",
		Target:    "login",
		Message:   "expected login to be called with arguments " + maskedSecret,
	}).Return()

	logger.LogAssertion(AssertionLog{
		Assertion: "calledWith",
		Target:    "login",
		Message:   "expected login to be called with arguments " + testSecret,
	})
	inner.AssertExpectations(t)
}

func TestRedactingLogger_WithFieldsAndClose(t *testing.T) {
	inner := new(mockLogger)
	logger := NewRedactingLogger(inner, testSecret)

	inner.On("WithFields", []Field{StringField("key", maskedSecret)}).
		Return(NullLogger{})
	inner.On("Close").Return(nil)

	child := logger.WithFields(StringField("key", testSecret))
	_, ok := child.(*RedactingLogger)
	assert.True(t, ok)
	assert.NoError(t, logger.Close())
	inner.AssertExpectations(t)
}
