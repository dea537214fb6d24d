package spy

import (
	"errors"
	"reflect"
	"sync"
	"time"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/match"
)

// Call is the record of a single invocation. ID, Index, Args,
// Receiver, Constructed and Time are set when the invocation
// starts and never change; the outcome is filled in exactly once
// when the invocation completes.
type Call struct {
	// ID is the global invocation ordinal, shared by all spies.
	ID int64

	// Index is the position of the call in its spy's history.
	Index int

	// Args holds the arguments by reference. A variadic tail is
	// flattened into individual arguments.
	Args []any

	// Receiver is the value the spy was invoked on, nil when
	// invoked as a plain function.
	Receiver any

	// Constructed reports an invocation through Construct.
	Constructed bool

	// Time is informational only; ordering uses ID.
	Time time.Time

	spyName string

	mu       sync.RWMutex
	done     bool
	returns  []any
	panicVal any
	panicked bool
}

func (c *Call) complete(returns []any, panicVal any, panicked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return
	}
	c.done = true
	c.returns = returns
	c.panicVal = panicVal
	c.panicked = panicked
}

// Name returns the name of the spy that recorded the call.
func (c *Call) Name() string {
	return c.spyName
}

// Calls returns the call itself, so that a single Call can be
// used wherever a Recorder is expected.
func (c *Call) Calls() []*Call {
	return []*Call{c}
}

// Done reports whether the invocation has completed.
func (c *Call) Done() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done
}

// Returns returns all values the invocation returned.
func (c *Call) Returns() []any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]any, len(c.returns))
	copy(out, c.returns)
	return out
}

// ReturnValue returns the first returned value, or nil.
func (c *Call) ReturnValue() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.returns) == 0 {
		return nil
	}
	return c.returns[0]
}

// Panic returns the recovered panic value and whether the
// invocation panicked.
func (c *Call) Panic() (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.panicVal, c.panicked
}

// Arg returns the i-th argument, or nil when out of range.
func (c *Call) Arg(i int) any {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// CalledWith reports whether the call received arguments deeply
// equal to args, position by position. Extra trailing actual
// arguments are ignored.
func (c *Call) CalledWith(args ...any) bool {
	return match.Args(args, c.Args, false, match.Equal)
}

// CalledWithExactly is CalledWith with equal argument counts.
func (c *Call) CalledWithExactly(args ...any) bool {
	return match.Args(args, c.Args, true, match.Equal)
}

// CalledWithMatch is CalledWith using structural matching.
func (c *Call) CalledWithMatch(args ...any) bool {
	return match.Args(args, c.Args, false, match.Matches)
}

// NotCalledWith is the negation of CalledWith.
func (c *Call) NotCalledWith(args ...any) bool {
	return !c.CalledWith(args...)
}

// NotCalledWithMatch is the negation of CalledWithMatch.
func (c *Call) NotCalledWithMatch(args ...any) bool {
	return !c.CalledWithMatch(args...)
}

// CalledOn reports whether the receiver is identical to
// receiver, or satisfies it when receiver is a Matcher.
func (c *Call) CalledOn(receiver any) bool {
	if m, ok := receiver.(match.Matcher); ok {
		return m.Test(c.Receiver)
	}
	return match.Same(receiver).Test(c.Receiver)
}

// CalledWithNew reports an invocation through Construct.
func (c *Call) CalledWithNew() bool {
	return c.Constructed
}

// Threw reports whether the invocation panicked. With an
// argument, the panic must also match it: a string matches the
// panic's name (see PanicName) or an identical string panic, an
// error matches through errors.Is, and any other value must be
// equal to the panic value.
func (c *Call) Threw(expected ...any) bool {
	v, panicked := c.Panic()
	if !panicked {
		return false
	}
	if len(expected) == 0 {
		return true
	}

	switch exp := expected[0].(type) {
	case string:
		if s, ok := v.(string); ok && s == exp {
			return true
		}
		return PanicName(v) == exp
	case error:
		if err, ok := v.(error); ok {
			return errors.Is(err, exp)
		}
		return false
	case match.Matcher:
		return exp.Test(v)
	}

	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Type().Comparable() &&
		reflect.TypeOf(expected[0]) == rv.Type() {
		return v == expected[0]
	}
	return false
}

// CalledBefore reports whether c started before other.
func (c *Call) CalledBefore(other *Call) bool {
	return other != nil && c.ID < other.ID
}

// CalledAfter reports whether c started after other.
func (c *Call) CalledAfter(other *Call) bool {
	return other != nil && c.ID > other.ID
}

// String renders the call as "name(arg1, arg2)".
func (c *Call) String() string {
	return format.Call(c.spyName, c.Args)
}

// NamedPanic is the value a stub configured with a bare name
// panics with.
type NamedPanic struct {
	Name    string
	Message string
}

// Error implements the error interface.
func (p *NamedPanic) Error() string {
	if p.Message == "" {
		return p.Name
	}
	return p.Name + ": " + p.Message
}

// PanicName returns the name used to match a panic value: the
// Name of a *NamedPanic, the Name (or Kind) of a *failure.Error
// and otherwise the dynamic type name of the value with pointer
// indirections removed.
func PanicName(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case *NamedPanic:
		return p.Name
	case *failure.Error:
		if p.Name != "" {
			return p.Name
		}
		return string(p.Kind)
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
