package spy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/match"
)

func recoverFrom(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func TestStub_UnconfiguredReturnsZero(t *testing.T) {
	st := NewStubFor[func() (int, error)]()

	n, err := Func[func() (int, error)](st)()

	assert.Equal(t, 0, n)
	assert.NoError(t, err)
	assert.True(t, st.CalledOnce())
}

func TestStub_WithArgsAndDefault(t *testing.T) {
	st := NewStub()
	st.WithArgs(1).Returns("a")
	st.Returns("b")
	fn := Func[func(...any) any](st)

	assert.Equal(t, "a", fn(1))
	assert.Equal(t, "b", fn(2))
	assert.Equal(t, "a", fn(1, 2))
	assert.Equal(t, "a", fn(1))
	assert.Equal(t, 4, st.CallCount())
}

func TestStub_WithArgsRegistrationOrder(t *testing.T) {
	st := NewStub()
	st.WithArgs(1).Returns("first")
	st.WithArgs(1, 2).Returns("second")
	st.WithArgs(match.TypeOf("string")).Returns("string")
	fn := Func[func(...any) any](st)

	assert.Equal(t, "first", fn(1, 2))
	assert.Equal(t, "string", fn("x"))
	assert.Nil(t, fn(3))
}

func TestStub_WithArgsSameKeySharesBehavior(t *testing.T) {
	st := NewStub()

	assert.Same(t, st.WithArgs(1, "a"), st.WithArgs(1, "a"))
	assert.NotSame(t, st.WithArgs(1), st.WithArgs(2))

	st.WithArgs(1).Returns("old")
	st.WithArgs(1).Returns("new")
	assert.Equal(t, []any{"new"}, st.Invoke(1))
}

func TestStub_LastConfigurationWins(t *testing.T) {
	st := NewStub()
	st.Returns(1)
	st.Throws("Oops")

	v := recoverFrom(func() { st.Invoke() })
	require.IsType(t, &NamedPanic{}, v)
	assert.Equal(t, "Oops", v.(*NamedPanic).Name)

	st.Returns(2)
	assert.Equal(t, []any{2}, st.Invoke())
}

func TestStub_OnCall(t *testing.T) {
	st := NewStub()
	st.Returns("default")
	st.OnSecondCall().Returns("second")
	st.OnCall(3).Throws(errors.New("fourth"))
	st.WithArgs("x").Returns("x")
	fn := Func[func(...any) any](st)

	assert.Equal(t, "default", fn())
	assert.Equal(t, "second", fn("x"))
	assert.Equal(t, "x", fn("x"))
	assert.Panics(t, func() { fn() })
	assert.Equal(t, "default", fn())

	assert.Same(t, st.OnCall(0), st.OnFirstCall())
	assert.Same(t, st.OnCall(2), st.OnThirdCall())
}

func TestStub_Throws(t *testing.T) {
	custom := errors.New("custom")

	tests := []struct {
		name  string
		value any
		check func(t *testing.T, st *Stub, v any)
	}{
		{"name", "TypeError", func(t *testing.T, st *Stub, v any) {
			assert.Equal(t, &NamedPanic{Name: "TypeError"}, v)
			assert.True(t, st.Threw("TypeError"))
			assert.False(t, st.Threw("RangeError"))
		}},
		{"error", custom, func(t *testing.T, st *Stub, v any) {
			assert.Same(t, custom, v)
			assert.True(t, st.Threw(custom))
			assert.True(t, st.Threw("errorString"))
		}},
		{"nil", nil, func(t *testing.T, st *Stub, v any) {
			assert.Equal(t, &NamedPanic{Name: "Error"}, v)
			assert.True(t, st.AlwaysThrew("Error"))
		}},
		{"value", 42, func(t *testing.T, st *Stub, v any) {
			assert.Equal(t, 42, v)
			assert.True(t, st.Threw(42))
			assert.False(t, st.Threw(43))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStub().Throws(tt.value)
			v := recoverFrom(func() { st.Invoke() })
			tt.check(t, st, v)
		})
	}
}

func TestStub_ReturnsArg(t *testing.T) {
	st := NewStubFor[func(string, int) int]().ReturnsArg(1)

	assert.Equal(t, 9, Func[func(string, int) int](st)("a", 9))

	st.ReturnsArg(5)
	assert.Equal(t, 0, Func[func(string, int) int](st)("a", 9))
}

func TestStub_ReturnsConvertsResults(t *testing.T) {
	boom := errors.New("boom")
	st := NewStubFor[func() (int64, error)]().Returns(5, boom)

	n, err := Func[func() (int64, error)](st)()

	assert.Equal(t, int64(5), n)
	assert.Same(t, boom, err)

	st.Returns("five")
	assert.Panics(t, func() { Func[func() (int64, error)](st)() })
}

func TestStub_CallsArg(t *testing.T) {
	callback := New(WithName("callback"))
	st := NewStub().CallsArg(1, "x", 2)
	st.Returns("done")

	assert.Equal(t, []any{"done"}, st.Invoke("ignored", callback.Func()))
	assert.True(t, callback.CalledOnce())
	assert.True(t, callback.CalledWithExactly("x", 2))

	var got string
	typed := NewStubFor[func(func(string))]().CallsArg(0, "hello")
	Func[func(func(string))](typed)(func(s string) { got = s })
	assert.Equal(t, "hello", got)
}

func TestStub_CallsArgNotFunction(t *testing.T) {
	st := NewStub().CallsArg(0)

	v := recoverFrom(func() { st.Invoke("nope") })

	err, ok := v.(*failure.Error)
	require.True(t, ok)
	assert.Equal(t, failure.TypeError, err.Kind)
	assert.Contains(t, err.Message, "argument at index 0 is not a function")
	assert.True(t, st.Threw("TypeError"))
}

func TestStub_CallsFake(t *testing.T) {
	typed := NewStubFor[func(int) int]().CallsFake(func(n int) int { return n * 2 })
	assert.Equal(t, 8, Func[func(int) int](typed)(4))

	generic := NewStubFor[func(int, int) int]().
		CallsFake(func(args ...any) any { return args[0].(int) + args[1].(int) + 1 })
	assert.Equal(t, 6, Func[func(int, int) int](generic)(2, 3))

	anon := NewStub().CallsFake(func(args ...any) any { return len(args) })
	assert.Equal(t, []any{3}, anon.Invoke("a", "b", "c"))
}

func TestStub_CallsFakeInvalid(t *testing.T) {
	st := NewStubFor[func(int) int]()

	assert.Panics(t, func() { st.CallsFake("not a function") })
	assert.Panics(t, func() { st.CallsFake(func(string) int { return 0 }) })
}

func TestStub_CallThroughAndPassThrough(t *testing.T) {
	st, err := StubOf(add)
	require.NoError(t, err)
	fn := Func[func(int, int) int](st)

	assert.Equal(t, 0, fn(2, 3))
	st.CallThrough()
	assert.Equal(t, 5, fn(2, 3))

	pass, err := StubOf(add, PassThrough())
	require.NoError(t, err)
	pass.WithArgs(1).Returns(100)
	pfn := Func[func(int, int) int](pass)

	assert.Equal(t, 5, pfn(2, 3))
	assert.Equal(t, 100, pfn(1, 1))
}

func TestStub_ResetBehavior(t *testing.T) {
	st := NewStub().Returns("x")
	st.WithArgs(1).Returns("y")
	st.OnFirstCall().Returns("z")
	st.Invoke(1)

	st.ResetBehavior()
	assert.Equal(t, []any{nil}, st.Invoke(1))
	assert.Equal(t, 2, st.CallCount())

	st.Returns("again")
	st.Reset()
	assert.Equal(t, 0, st.CallCount())
	assert.Equal(t, []any{nil}, st.Invoke())
}

func TestStubOn_NilField(t *testing.T) {
	svc := &service{}
	st, err := StubOn(svc, "Save")
	require.NoError(t, err)
	st.Returns(errors.New("disk full"))

	assert.EqualError(t, svc.Save("doc"), "disk full")
	assert.True(t, st.CalledOn(svc))
	assert.True(t, st.CalledWith("doc"))

	st.Restore()
	assert.Nil(t, svc.Save)
}

func TestStubReplace(t *testing.T) {
	st, err := StubReplace(&clock)
	require.NoError(t, err)
	st.Returns("fake")

	assert.Equal(t, "fake", clock())

	st.Restore()
	assert.Equal(t, "real", clock())
}

func TestNewStubFor_NotFunction(t *testing.T) {
	assert.Panics(t, func() { NewStubFor[int]() })
}

func TestStub_ConditionKeyIncludesType(t *testing.T) {
	st := NewStub()
	st.WithArgs(1).Returns("int")
	st.WithArgs("1").Returns("string")

	assert.NotSame(t, st.WithArgs(1), st.WithArgs("1"))
	assert.Equal(t, []any{"int"}, st.Invoke(1))
	assert.Equal(t, []any{"string"}, st.Invoke("1"))
}

func TestStub_DistinctMatchersWithSameLabel(t *testing.T) {
	st := NewStub()
	st.WithArgs(match.Func(func(v any) bool { return v == 1 }, "")).Returns("a")
	st.WithArgs(match.Func(func(v any) bool { return v == 2 }, "")).Returns("b")

	assert.Equal(t, []any{"a"}, st.Invoke(1))
	assert.Equal(t, []any{"b"}, st.Invoke(2))
	assert.Equal(t, []any{nil}, st.Invoke(3))
}

func TestStub_SameMatcherOnDistinctPointers(t *testing.T) {
	type cfg struct{ N int }
	a, b := &cfg{1}, &cfg{1}

	st := NewStub()
	st.WithArgs(match.Same(a)).Returns("a")
	st.WithArgs(match.Same(b)).Returns("b")

	assert.Equal(t, []any{"a"}, st.Invoke(a))
	assert.Equal(t, []any{"b"}, st.Invoke(b))
}

func TestStub_WithArgsReusesIdenticalMatcher(t *testing.T) {
	st := NewStub()
	isString := match.TypeOf("string")

	assert.Same(t, st.WithArgs(isString), st.WithArgs(isString))
	assert.Same(t, st.WithArgs(match.Any, 1), st.WithArgs(match.Any, 1))
	assert.NotSame(t, st.WithArgs(isString), st.WithArgs(match.TypeOf("string")))
	assert.Same(t, st.WithArgs(), st.WithArgs())
}
