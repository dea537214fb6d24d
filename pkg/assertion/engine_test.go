package assertion

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/logging"
	"digital.vasic.doubles/pkg/metrics"
)

func TestNewEngine_RegistersBuiltins(t *testing.T) {
	e := NewEngine()

	builtins := []string{
		"called", "notCalled", "calledOnce", "calledTwice", "calledThrice",
		"callCount", "callOrder", "calledOn", "alwaysCalledOn",
		"calledWith", "alwaysCalledWith", "neverCalledWith",
		"calledWithMatch", "alwaysCalledWithMatch", "neverCalledWithMatch",
		"calledWithExactly", "alwaysCalledWithExactly",
		"calledWithNew", "alwaysCalledWithNew", "threw", "alwaysThrew", "match",
	}
	for _, name := range builtins {
		assert.True(t, e.HasEvaluator(name), name)
	}
	assert.Len(t, e.Names(), len(builtins))
	assert.False(t, e.HasEvaluator("expose"))
	assert.Equal(t, DefaultFailException, e.FailException())
}

func TestEngine_Register(t *testing.T) {
	e := NewEngine()

	err := e.Register("calledOnce", func(any, []any) (bool, string) { return true, "" })
	assert.EqualError(t, err, "assertion type already registered: calledOnce")

	err = e.Register("even", func(target any, _ []any) (bool, string) {
		if n, ok := target.(int); ok && n%2 == 0 {
			return true, ""
		}
		return false, "expected an even number"
	})
	require.NoError(t, err)

	assert.True(t, e.Evaluate(Definition{Type: "even"}, 4).Passed)
	r := e.Evaluate(Definition{Type: "even"}, 3)
	assert.False(t, r.Passed)
	assert.Equal(t, "expected an even number", r.Message)
}

func TestEngine_EvaluateUnknown(t *testing.T) {
	e := NewEngine()

	r := e.Evaluate(Definition{Type: "bogus"}, named("fn"))

	assert.False(t, r.Passed)
	assert.Equal(t, "unknown assertion type: bogus", r.Message)
	assert.Equal(t, "fn", r.Target)
}

func TestEngine_AssertRoutesThroughHandlers(t *testing.T) {
	e := NewEngine()
	o := observe(t, e)
	s := named("fn")

	assert.False(t, e.Called(s))
	s.Invoke()
	assert.True(t, e.Called(s))
	assert.False(t, e.NotCalled(s))

	assert.Equal(t, []string{"called"}, o.passes)
	assert.Equal(t, []string{
		"expected fn to have been called at least once but was never called",
		"expected fn to not have been called but was called once\n    fn()",
	}, o.failures)
}

func TestEngine_AssertUnknownFails(t *testing.T) {
	e := NewEngine()
	o := observe(t, e)

	r := e.Assert("bogus", named("fn"))

	assert.False(t, r.Passed)
	assert.Equal(t, []string{"unknown assertion type: bogus"}, o.failures)
}

func TestEngine_DefaultFailPanics(t *testing.T) {
	e := NewEngine()
	s := named("fn")

	v := recoverFrom(func() { e.Called(s) })

	err, ok := failure.FromPanic(v)
	require.True(t, ok)
	assert.Equal(t, failure.AssertionFailure, err.Kind)
	assert.Equal(t, "AssertError", err.Name)
	assert.Equal(t,
		"AssertError: expected fn to have been called at least once but was never called",
		err.Error())
}

func TestEngine_FailException(t *testing.T) {
	e := NewEngine(WithFailException("CustomError"))
	assert.Equal(t, "CustomError", e.FailException())

	restore := e.SetFailException("Other")
	v := recoverFrom(func() { e.Fail("boom") })
	err, ok := failure.FromPanic(v)
	require.True(t, ok)
	assert.Equal(t, "Other", err.Name)
	assert.Equal(t, "boom", err.Message)

	restore()
	assert.Equal(t, "CustomError", e.FailException())
}

func TestEngine_HandlerRestore(t *testing.T) {
	e := NewEngine()
	var got []string

	restore := e.SetFail(func(m string) { got = append(got, m) })
	e.Fail("first")
	restore()

	assert.Equal(t, []string{"first"}, got)
	assert.Panics(t, func() { e.Fail("second") })

	var passed []string
	restorePass := e.SetPass(func(n string) { passed = append(passed, n) })
	e.Pass("called")
	restorePass()
	e.Pass("ignored")
	assert.Equal(t, []string{"called"}, passed)
}

func TestEngine_NonFatalFailContinues(t *testing.T) {
	e := NewEngine()
	o := observe(t, e)
	s := named("fn")

	assert.False(t, e.CalledOnce(s))
	assert.False(t, e.CalledWith(s, 1))
	assert.Len(t, o.failures, 2)
}

func TestEngine_HandlerMayReenter(t *testing.T) {
	e := NewEngine()
	s := named("fn")
	s.Invoke()
	var nested bool

	t.Cleanup(e.SetPass(func(name string) {
		if name == "called" {
			nested = e.Evaluate(Definition{Type: "calledOnce"}, s).Passed
		}
	}))

	assert.True(t, e.Called(s))
	assert.True(t, nested)
}

// recordingT captures Error and Cleanup calls.
type recordingT struct {
	testing.TB
	errors   []string
	cleanups []func()
}

func (r *recordingT) Helper()           {}
func (r *recordingT) Cleanup(fn func()) { r.cleanups = append(r.cleanups, fn) }
func (r *recordingT) Error(args ...any) {
	for _, a := range args {
		r.errors = append(r.errors, a.(string))
	}
}

func TestEngine_UseT(t *testing.T) {
	e := NewEngine()
	rt := &recordingT{}

	e.UseT(rt)
	assert.False(t, e.Called(named("fn")))

	assert.Equal(t, []string{
		"expected fn to have been called at least once but was never called",
	}, rt.errors)
	require.Len(t, rt.cleanups, 1)

	rt.cleanups[0]()
	assert.Panics(t, func() { e.Fail("x") })
}

func TestEngine_Results(t *testing.T) {
	e := NewEngine()
	o := observe(t, e)
	s := named("fn")
	s.Invoke(1)

	e.CalledWith(s, 1)
	e.CalledWith(s, 2)

	results := e.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "calledWith", results[0].Type)
	assert.Equal(t, "fn", results[0].Target)
	assert.Equal(t, "1", results[0].Expected)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.Greater(t, results[1].Ordinal, int64(0))
	assert.Len(t, o.failures, 1)

	e.ResetResults()
	assert.Empty(t, e.Results())
}

func TestEngine_LoggingAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	counters := metrics.NewCounters()
	e := NewEngine(
		WithLogger(logging.NewJSONLoggerTo(&buf, logging.LevelInfo)),
		WithMetrics(counters),
	)
	observe(t, e)
	s := named("fetch")

	e.Called(s)
	s.Invoke()
	e.Called(s)

	assert.Equal(t, 1, counters.AssertionCount("called", true))
	assert.Equal(t, 1, counters.AssertionCount("called", false))
	assert.Contains(t, buf.String(), `"assertion":"called"`)
	assert.Contains(t, buf.String(), `"target":"fetch"`)
	assert.Contains(t, buf.String(), "was never called")

	e.SetLogger(nil)
	e.SetMetrics(nil)
	buf.Reset()
	e.Called(s)
	assert.Empty(t, buf.String())
	assert.Equal(t, 1, counters.AssertionCount("called", true))
}

func TestEngine_EvaluateAll(t *testing.T) {
	e := NewEngine()
	open, read := named("open"), named("read")
	open.Invoke("a.txt")
	read.Invoke()

	targets := map[string]any{"open": open, "read": read}
	results := e.EvaluateAll([]Definition{
		{Type: "calledWith", Target: "open", Values: []any{"a.txt"}},
		{Type: "callOrder", Target: "open", Values: []any{"read"}},
		{Type: "callOrder", Target: "read", Values: []any{"open"}},
		{Type: "called", Target: "close"},
		{Type: "callOrder", Target: "open", Values: []any{"close"}},
	}, targets)

	require.Len(t, results, 5)
	assert.True(t, results[0].Passed, results[0].Message)
	assert.True(t, results[1].Passed, results[1].Message)
	assert.False(t, results[2].Passed)
	assert.Equal(t, "target not found: close", results[3].Message)
	assert.Equal(t, "target not found: close", results[4].Message)
	assert.Equal(t, "open", results[0].Target)
}
