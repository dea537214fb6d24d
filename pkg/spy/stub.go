package spy

import (
	"reflect"
	"sync"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/match"
)

// Stub is a spy whose behaviour is programmed by the test. For
// every invocation the behaviour is resolved in this order: the
// behaviour configured for the call index with OnCall, the first
// WithArgs condition (in registration order) the arguments
// match, the default behaviour, the original function when the
// stub was created with PassThrough, and finally zero values.
type Stub struct {
	*Spy

	mu         sync.Mutex
	fallback   *Behavior
	onCall     map[int]*Behavior
	conditions []*condition
}

type condition struct {
	args     []any
	behavior *Behavior
}

// sameCondition reports whether two WithArgs argument lists
// describe the same condition. Plain values must be deeply equal
// and of the same type; matchers must be the same matcher.
func sameCondition(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// NewStub creates an anonymous stub of type func(...any) any.
func NewStub(opts ...Option) *Stub {
	return newStub(New(opts...))
}

// NewStubFor creates a stub of function type F with no original
// function behind it.
func NewStubFor[F any](opts ...Option) *Stub {
	typ := reflect.TypeFor[F]()
	if typ.Kind() != reflect.Func {
		panic(failure.New(failure.InvalidArgument, "%s is not a function type", typ))
	}
	return newStub(newSpy(reflect.Value{}, typ, opts))
}

// StubOf wraps fn in a stub. The original is only called when
// the stub is configured to call through.
func StubOf(fn any, opts ...Option) (*Stub, error) {
	s, err := Of(fn, opts...)
	if err != nil {
		return nil, err
	}
	return newStub(s), nil
}

// StubOn replaces the func-typed field of the struct obj points
// to with a stub. Unlike On, the field may be nil.
func StubOn(obj any, field string, opts ...Option) (*Stub, error) {
	s, err := attach(obj, field, true, opts)
	if err != nil {
		return nil, err
	}
	return newStub(s), nil
}

// StubReplace replaces the function variable ptr points to with
// a stub. The variable may be nil.
func StubReplace(ptr any, opts ...Option) (*Stub, error) {
	s, err := replace(ptr, true, opts)
	if err != nil {
		return nil, err
	}
	return newStub(s), nil
}

func newStub(s *Spy) *Stub {
	st := &Stub{Spy: s, onCall: map[int]*Behavior{}}
	s.mu.Lock()
	s.behave = st.resolve
	s.mu.Unlock()
	return st
}

// Returns sets the default result values.
func (st *Stub) Returns(values ...any) *Stub {
	st.defaultBehavior().Returns(values...)
	return st
}

// ReturnsArg makes the stub return its i-th argument by default.
func (st *Stub) ReturnsArg(i int) *Stub {
	st.defaultBehavior().ReturnsArg(i)
	return st
}

// Throws makes the stub panic by default. See Behavior.Throws.
func (st *Stub) Throws(v any) *Stub {
	st.defaultBehavior().Throws(v)
	return st
}

// CallsArg makes the stub call its i-th argument by default.
func (st *Stub) CallsArg(i int, args ...any) *Stub {
	st.defaultBehavior().CallsArg(i, args...)
	return st
}

// CallsFake makes the stub delegate to fn by default.
func (st *Stub) CallsFake(fn any) *Stub {
	st.defaultBehavior().CallsFake(fn)
	return st
}

// CallThrough makes the stub call the original by default.
func (st *Stub) CallThrough() *Stub {
	st.defaultBehavior().CallThrough()
	return st
}

// WithArgs returns the behaviour applied to invocations whose
// arguments start with args. Repeating WithArgs with deeply equal
// arguments, or with the same matchers, returns the same
// behaviour.
func (st *Stub) WithArgs(args ...any) *Behavior {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, c := range st.conditions {
		if sameCondition(c.args, args) {
			return c.behavior
		}
	}
	b := &Behavior{stub: st}
	st.conditions = append(st.conditions, &condition{
		args:     args,
		behavior: b,
	})
	return b
}

// OnCall returns the behaviour applied to the n-th invocation
// (zero-based) only.
func (st *Stub) OnCall(n int) *Behavior {
	st.mu.Lock()
	defer st.mu.Unlock()

	b, ok := st.onCall[n]
	if !ok {
		b = &Behavior{stub: st}
		st.onCall[n] = b
	}
	return b
}

// OnFirstCall is OnCall(0).
func (st *Stub) OnFirstCall() *Behavior { return st.OnCall(0) }

// OnSecondCall is OnCall(1).
func (st *Stub) OnSecondCall() *Behavior { return st.OnCall(1) }

// OnThirdCall is OnCall(2).
func (st *Stub) OnThirdCall() *Behavior { return st.OnCall(2) }

// ResetBehavior drops every configured behaviour.
func (st *Stub) ResetBehavior() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.fallback = nil
	st.onCall = map[int]*Behavior{}
	st.conditions = nil
}

// Reset clears the history and the configured behaviour.
func (st *Stub) Reset() {
	st.ResetHistory()
	st.ResetBehavior()
}

func (st *Stub) defaultBehavior() *Behavior {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.fallback == nil {
		st.fallback = &Behavior{stub: st}
	}
	return st.fallback
}

func (st *Stub) resolve(c *Call, in []reflect.Value) []reflect.Value {
	b, ok := st.behaviorFor(c)
	if ok {
		return b.run(st.Spy, c, in)
	}
	if st.passThrough {
		return st.callOriginal(c, in)
	}
	return nil
}

// behaviorFor returns a snapshot of the behaviour selected for c.
func (st *Stub) behaviorFor(c *Call) (Behavior, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if b, ok := st.onCall[c.Index]; ok && b.configured() {
		return b.snapshot(), true
	}
	for _, cond := range st.conditions {
		if cond.behavior.configured() &&
			match.Args(cond.args, c.Args, false, match.Equal) {
			return cond.behavior.snapshot(), true
		}
	}
	if st.fallback != nil && st.fallback.configured() {
		return st.fallback.snapshot(), true
	}
	return Behavior{}, false
}

type action int

const (
	actNone action = iota
	actReturns
	actReturnsArg
	actThrows
	actFake
	actThrough
)

// Behavior describes what a stub does for one condition. A
// behaviour runs an optional argument callback and then a single
// action; configuring another action replaces the previous one.
type Behavior struct {
	stub *Stub

	callsArg    bool
	argIndex    int
	argCallArgs []any

	act       action
	returns   []any
	returnArg int
	panicVal  any
	fake      reflect.Value
}

// Returns makes the behaviour return values.
func (b *Behavior) Returns(values ...any) *Behavior {
	b.set(func() {
		b.act = actReturns
		b.returns = values
	})
	return b
}

// ReturnsArg makes the behaviour return the i-th argument.
func (b *Behavior) ReturnsArg(i int) *Behavior {
	b.set(func() {
		b.act = actReturnsArg
		b.returnArg = i
	})
	return b
}

// Throws makes the behaviour panic with v. A string panics with
// a *NamedPanic of that name; nil panics with a NamedPanic named
// "Error".
func (b *Behavior) Throws(v any) *Behavior {
	switch p := v.(type) {
	case nil:
		v = &NamedPanic{Name: "Error"}
	case string:
		v = &NamedPanic{Name: p}
	}
	b.set(func() {
		b.act = actThrows
		b.panicVal = v
	})
	return b
}

// CallsArg makes the behaviour call the i-th argument, which
// must be a function, with args before running its action.
func (b *Behavior) CallsArg(i int, args ...any) *Behavior {
	b.set(func() {
		b.callsArg = true
		b.argIndex = i
		b.argCallArgs = args
	})
	return b
}

// CallsFake makes the behaviour delegate to fn, which must have
// the stub's type or be a func(...any) any.
func (b *Behavior) CallsFake(fn any) *Behavior {
	rv, err := funcValue(fn)
	if err != nil {
		panic(err)
	}
	typ := b.stub.Type()
	if rv.Type() != typ && rv.Type() != anyFunc {
		panic(failure.New(
			failure.InvalidArgument,
			"fake for %s has type %s, want %s",
			b.stub.Name(), rv.Type(), typ,
		))
	}
	b.set(func() {
		b.act = actFake
		b.fake = rv
	})
	return b
}

// CallThrough makes the behaviour call the original function.
func (b *Behavior) CallThrough() *Behavior {
	b.set(func() { b.act = actThrough })
	return b
}

func (b *Behavior) set(update func()) {
	b.stub.mu.Lock()
	defer b.stub.mu.Unlock()
	update()
}

func (b *Behavior) configured() bool {
	return b.act != actNone || b.callsArg
}

func (b *Behavior) snapshot() Behavior {
	return Behavior{
		callsArg:    b.callsArg,
		argIndex:    b.argIndex,
		argCallArgs: b.argCallArgs,
		act:         b.act,
		returns:     b.returns,
		returnArg:   b.returnArg,
		panicVal:    b.panicVal,
		fake:        b.fake,
	}
}

func (b Behavior) run(s *Spy, c *Call, in []reflect.Value) []reflect.Value {
	if b.callsArg {
		callArg(c, b.argIndex, b.argCallArgs)
	}

	switch b.act {
	case actReturns:
		return anyValues(s.typ, b.returns, s.name)
	case actReturnsArg:
		return anyValues(s.typ, []any{c.Arg(b.returnArg)}, s.name)
	case actThrows:
		panic(b.panicVal)
	case actFake:
		if b.fake.Type() == s.typ {
			if s.typ.IsVariadic() {
				return b.fake.CallSlice(in)
			}
			return b.fake.Call(in)
		}
		out := b.fake.CallSlice([]reflect.Value{reflect.ValueOf(c.Args)})
		return anyValues(s.typ, interfaces(out), s.name)
	case actThrough:
		return s.callOriginal(c, in)
	}
	return nil
}

func callArg(c *Call, i int, args []any) {
	fn := reflect.ValueOf(c.Arg(i))
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		panic(failure.New(
			failure.TypeError,
			"argument at index %d is not a function: %s",
			i, format.Value(c.Arg(i)),
		))
	}

	in := argValues(fn.Type(), args, "callback")
	if fn.Type().IsVariadic() {
		fn.CallSlice(in)
		return
	}
	fn.Call(in)
}
