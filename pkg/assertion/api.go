package assertion

import "testing"

// Default is the process-wide engine used by the package-level
// assertion functions.
var Default = NewEngine()

// Called asserts that r was called at least once.
func (e *DefaultEngine) Called(r any) bool {
	return e.Assert("called", r).Passed
}

// NotCalled asserts that r was never called.
func (e *DefaultEngine) NotCalled(r any) bool {
	return e.Assert("notCalled", r).Passed
}

// CalledOnce asserts that r was called exactly once.
func (e *DefaultEngine) CalledOnce(r any) bool {
	return e.Assert("calledOnce", r).Passed
}

// CalledTwice asserts that r was called exactly twice.
func (e *DefaultEngine) CalledTwice(r any) bool {
	return e.Assert("calledTwice", r).Passed
}

// CalledThrice asserts that r was called exactly three times.
func (e *DefaultEngine) CalledThrice(r any) bool {
	return e.Assert("calledThrice", r).Passed
}

// CallCount asserts that r was called exactly n times.
func (e *DefaultEngine) CallCount(r any, n int) bool {
	return e.Assert("callCount", r, n).Passed
}

// CallOrder asserts that the recorders were called in the given
// order.
func (e *DefaultEngine) CallOrder(first any, rest ...any) bool {
	return e.Assert("callOrder", first, rest...).Passed
}

// CalledOn asserts that some call of r had receiver.
func (e *DefaultEngine) CalledOn(r, receiver any) bool {
	return e.Assert("calledOn", r, receiver).Passed
}

// AlwaysCalledOn asserts that every call of r had receiver.
func (e *DefaultEngine) AlwaysCalledOn(r, receiver any) bool {
	return e.Assert("alwaysCalledOn", r, receiver).Passed
}

// CalledWith asserts that some call of r began with args.
func (e *DefaultEngine) CalledWith(r any, args ...any) bool {
	return e.Assert("calledWith", r, args...).Passed
}

// AlwaysCalledWith asserts that every call of r began with args.
func (e *DefaultEngine) AlwaysCalledWith(r any, args ...any) bool {
	return e.Assert("alwaysCalledWith", r, args...).Passed
}

// NeverCalledWith asserts that no call of r began with args.
func (e *DefaultEngine) NeverCalledWith(r any, args ...any) bool {
	return e.Assert("neverCalledWith", r, args...).Passed
}

// CalledWithMatch is CalledWith using structural matching.
func (e *DefaultEngine) CalledWithMatch(r any, args ...any) bool {
	return e.Assert("calledWithMatch", r, args...).Passed
}

// AlwaysCalledWithMatch is AlwaysCalledWith using structural
// matching.
func (e *DefaultEngine) AlwaysCalledWithMatch(r any, args ...any) bool {
	return e.Assert("alwaysCalledWithMatch", r, args...).Passed
}

// NeverCalledWithMatch is NeverCalledWith using structural
// matching.
func (e *DefaultEngine) NeverCalledWithMatch(r any, args ...any) bool {
	return e.Assert("neverCalledWithMatch", r, args...).Passed
}

// CalledWithExactly asserts that some call of r received
// exactly args.
func (e *DefaultEngine) CalledWithExactly(r any, args ...any) bool {
	return e.Assert("calledWithExactly", r, args...).Passed
}

// AlwaysCalledWithExactly asserts that every call of r received
// exactly args.
func (e *DefaultEngine) AlwaysCalledWithExactly(r any, args ...any) bool {
	return e.Assert("alwaysCalledWithExactly", r, args...).Passed
}

// CalledWithNew asserts that r was invoked through Construct.
func (e *DefaultEngine) CalledWithNew(r any) bool {
	return e.Assert("calledWithNew", r).Passed
}

// AlwaysCalledWithNew asserts that every call of r went through
// Construct.
func (e *DefaultEngine) AlwaysCalledWithNew(r any) bool {
	return e.Assert("alwaysCalledWithNew", r).Passed
}

// Threw asserts that some call of r panicked, optionally with a
// value matching expected.
func (e *DefaultEngine) Threw(r any, expected ...any) bool {
	return e.Assert("threw", r, expected...).Passed
}

// AlwaysThrew asserts that every call of r panicked, optionally
// with a value matching expected.
func (e *DefaultEngine) AlwaysThrew(r any, expected ...any) bool {
	return e.Assert("alwaysThrew", r, expected...).Passed
}

// Match asserts that actual matches expected.
func (e *DefaultEngine) Match(actual, expected any) bool {
	return e.Assert("match", actual, expected).Passed
}

// Called asserts on Default that r was called.
func Called(r any) bool { return Default.Called(r) }

// NotCalled asserts on Default that r was never called.
func NotCalled(r any) bool { return Default.NotCalled(r) }

// CalledOnce asserts on Default that r was called exactly once.
func CalledOnce(r any) bool { return Default.CalledOnce(r) }

// CalledTwice asserts on Default that r was called exactly twice.
func CalledTwice(r any) bool { return Default.CalledTwice(r) }

// CalledThrice asserts on Default that r was called exactly three
// times.
func CalledThrice(r any) bool { return Default.CalledThrice(r) }

// CallCount asserts on Default that r was called exactly n times.
func CallCount(r any, n int) bool { return Default.CallCount(r, n) }

// CallOrder asserts on Default that the recorders were called in
// the given order.
func CallOrder(first any, rest ...any) bool {
	return Default.CallOrder(first, rest...)
}

// CalledOn asserts on Default that some call of r had receiver.
func CalledOn(r, receiver any) bool { return Default.CalledOn(r, receiver) }

// AlwaysCalledOn asserts on Default that every call of r had
// receiver.
func AlwaysCalledOn(r, receiver any) bool {
	return Default.AlwaysCalledOn(r, receiver)
}

// CalledWith asserts on Default that some call of r began with args.
func CalledWith(r any, args ...any) bool {
	return Default.CalledWith(r, args...)
}

// AlwaysCalledWith asserts on Default that every call of r began
// with args.
func AlwaysCalledWith(r any, args ...any) bool {
	return Default.AlwaysCalledWith(r, args...)
}

// NeverCalledWith asserts on Default that no call of r began with
// args.
func NeverCalledWith(r any, args ...any) bool {
	return Default.NeverCalledWith(r, args...)
}

// CalledWithMatch is CalledWith on Default using structural
// matching.
func CalledWithMatch(r any, args ...any) bool {
	return Default.CalledWithMatch(r, args...)
}

// AlwaysCalledWithMatch is AlwaysCalledWith on Default using
// structural matching.
func AlwaysCalledWithMatch(r any, args ...any) bool {
	return Default.AlwaysCalledWithMatch(r, args...)
}

// NeverCalledWithMatch is NeverCalledWith on Default using
// structural matching.
func NeverCalledWithMatch(r any, args ...any) bool {
	return Default.NeverCalledWithMatch(r, args...)
}

// CalledWithExactly asserts on Default that some call of r
// received exactly args.
func CalledWithExactly(r any, args ...any) bool {
	return Default.CalledWithExactly(r, args...)
}

// AlwaysCalledWithExactly asserts on Default that every call of r
// received exactly args.
func AlwaysCalledWithExactly(r any, args ...any) bool {
	return Default.AlwaysCalledWithExactly(r, args...)
}

// CalledWithNew asserts on Default that r was invoked through
// Construct.
func CalledWithNew(r any) bool { return Default.CalledWithNew(r) }

// AlwaysCalledWithNew asserts on Default that every call of r went
// through Construct.
func AlwaysCalledWithNew(r any) bool { return Default.AlwaysCalledWithNew(r) }

// Threw asserts on Default that some call of r panicked.
func Threw(r any, expected ...any) bool {
	return Default.Threw(r, expected...)
}

// AlwaysThrew asserts on Default that every call of r panicked.
func AlwaysThrew(r any, expected ...any) bool {
	return Default.AlwaysThrew(r, expected...)
}

// Match asserts on Default that actual matches expected.
func Match(actual, expected any) bool {
	return Default.Match(actual, expected)
}

// Assert runs the named assertion on Default.
func Assert(name string, target any, args ...any) Result {
	return Default.Assert(name, target, args...)
}

// Fail reports a failure through Default's fail handler.
func Fail(message string) { Default.Fail(message) }

// Pass reports a success through Default's pass handler.
func Pass(name string) { Default.Pass(name) }

// SetFail installs a fail handler on Default.
func SetFail(fn FailHandler) (restore func()) { return Default.SetFail(fn) }

// SetPass installs a pass handler on Default.
func SetPass(fn PassHandler) (restore func()) { return Default.SetPass(fn) }

// SetFailException renames failures raised by Default.
func SetFailException(name string) (restore func()) {
	return Default.SetFailException(name)
}

// UseT routes Default's failures to t for the rest of the test.
func UseT(t testing.TB) {
	t.Helper()
	Default.UseT(t)
}
