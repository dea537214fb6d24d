// Package spy provides test doubles that record every
// invocation of a wrapped function: spies, which call through to
// the original, and stubs, which replace it with programmable
// behaviour.
//
// A spy exposes a function value with the identical signature
// through Func. Every invocation takes the next value of a
// process-wide ordinal, so calls can be ordered across spies
// without relying on wall-clock time. Panics raised by the
// wrapped function are recorded and then re-raised unchanged.
package spy

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/logging"
	"digital.vasic.doubles/pkg/metrics"
)

// DefaultName is the display name of spies that have none.
const DefaultName = "spy"

var ordinal atomic.Int64

// Ordinal returns the current value of the global invocation
// ordinal.
func Ordinal() int64 {
	return ordinal.Load()
}

// anyFunc is the signature of spies created without a function.
var anyFunc = reflect.TypeOf((func(...any) any)(nil))

// invokeFunc executes the behaviour of one invocation. in has
// the shape reflect.MakeFunc hands to its implementation.
type invokeFunc func(c *Call, in []reflect.Value) []reflect.Value

// Option configures a Spy.
type Option func(*Spy)

// WithName sets the display name used in diagnostics.
func WithName(name string) Option {
	return func(s *Spy) {
		s.name = name
	}
}

// WithLogger sets the logger that receives every completed
// invocation.
func WithLogger(logger logging.Logger) Option {
	return func(s *Spy) {
		s.logger = logger
	}
}

// WithMetrics sets the collector that counts invocations.
func WithMetrics(collector metrics.Collector) Option {
	return func(s *Spy) {
		s.metrics = collector
	}
}

// PassThrough makes a stub call the original function when no
// configured behaviour applies. It has no effect on plain spies,
// which always call through.
func PassThrough() Option {
	return func(s *Spy) {
		s.passThrough = true
	}
}

// Spy wraps a function and records every invocation. It is safe
// for concurrent use; no lock is held while the wrapped function
// runs, so spies may call each other or themselves.
type Spy struct {
	mu          sync.RWMutex
	id          uuid.UUID
	name        string
	createdAt   int64
	original    reflect.Value
	typ         reflect.Type
	receiver    any
	calls       []*Call
	proxy       reflect.Value
	behave      invokeFunc
	restore     func()
	passThrough bool
	logger      logging.Logger
	metrics     metrics.Collector
}

// New creates an anonymous spy of type func(...any) any that
// records its calls and returns nil.
func New(opts ...Option) *Spy {
	return newSpy(reflect.Value{}, anyFunc, opts)
}

// Of wraps fn, which must be a non-nil function. The spy's name
// defaults to the function's name.
func Of(fn any, opts ...Option) (*Spy, error) {
	rv, err := funcValue(fn)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithName(format.FuncName(fn))}, opts...)
	return newSpy(rv, rv.Type(), opts), nil
}

// On replaces the exported func-typed field named field of the
// struct obj points to with a spy wrapping its current value.
// Calls made through the field record obj as their receiver.
// Restore puts the original function back.
func On(obj any, field string, opts ...Option) (*Spy, error) {
	s, err := attach(obj, field, false, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Replace replaces the function variable ptr points to with a
// spy wrapping its current value. Restore puts it back.
func Replace(ptr any, opts ...Option) (*Spy, error) {
	return replace(ptr, false, opts)
}

// Proxy is implemented by spies and stubs.
type Proxy interface {
	Name() string
	Type() reflect.Type
	Func() any
}

// Func returns the recording function of p as type F. It panics
// when p does not have type F.
func Func[F any](p Proxy) F {
	fn, ok := p.Func().(F)
	if !ok {
		panic(failure.New(
			failure.InvalidArgument,
			"spy %s has type %s, not %s",
			p.Name(), p.Type(), reflect.TypeFor[F](),
		))
	}
	return fn
}

func newSpy(original reflect.Value, typ reflect.Type, opts []Option) *Spy {
	s := &Spy{
		id:        uuid.New(),
		name:      DefaultName,
		createdAt: Ordinal(),
		original:  original,
		typ:       typ,
		logger:    logging.NullLogger{},
		metrics:   metrics.NoopCollector{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = DefaultName
	}
	s.behave = s.callOriginal
	return s
}

func funcValue(fn any) (reflect.Value, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return reflect.Value{}, failure.New(
			failure.InvalidArgument,
			"cannot wrap %s: not a function", format.Value(fn),
		)
	}
	if rv.IsNil() {
		return reflect.Value{}, failure.New(
			failure.InvalidArgument,
			"cannot wrap nil %s", rv.Type(),
		)
	}
	return rv, nil
}

func attach(obj any, field string, allowNil bool, opts []Option) (*Spy, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() ||
		rv.Elem().Kind() != reflect.Struct {
		return nil, failure.New(
			failure.InvalidArgument,
			"cannot attach to %s: need a non-nil pointer to a struct",
			format.Value(obj),
		)
	}

	fv := rv.Elem().FieldByName(field)
	if !fv.IsValid() {
		return nil, failure.New(
			failure.InvalidArgument,
			"%s has no field %s", rv.Elem().Type(), field,
		)
	}
	if fv.Kind() != reflect.Func {
		return nil, failure.New(
			failure.InvalidArgument,
			"field %s is %s, not a function", field, fv.Type(),
		)
	}
	if !fv.CanSet() {
		return nil, failure.New(
			failure.InvalidArgument,
			"field %s is not exported", field,
		)
	}
	if fv.IsNil() && !allowNil {
		return nil, failure.New(
			failure.InvalidArgument,
			"cannot wrap nil field %s", field,
		)
	}

	original := reflect.ValueOf(fv.Interface())
	var wrapped reflect.Value
	if !fv.IsNil() {
		wrapped = original
	}

	opts = append([]Option{WithName(field)}, opts...)
	s := newSpy(wrapped, fv.Type(), opts)
	s.receiver = obj
	fv.Set(reflect.ValueOf(s.Func()))
	s.restore = func() { fv.Set(original) }
	return s, nil
}

func replace(ptr any, allowNil bool, opts []Option) (*Spy, error) {
	rv := reflect.ValueOf(ptr)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() ||
		rv.Elem().Kind() != reflect.Func {
		return nil, failure.New(
			failure.InvalidArgument,
			"cannot replace %s: need a non-nil pointer to a function",
			format.Value(ptr),
		)
	}

	target := rv.Elem()
	if target.IsNil() && !allowNil {
		return nil, failure.New(
			failure.InvalidArgument,
			"cannot wrap nil %s", target.Type(),
		)
	}

	original := reflect.ValueOf(target.Interface())
	var wrapped reflect.Value
	if !target.IsNil() {
		wrapped = original
		opts = append([]Option{WithName(format.FuncName(target.Interface()))}, opts...)
	}

	s := newSpy(wrapped, target.Type(), opts)
	target.Set(reflect.ValueOf(s.Func()))
	s.restore = func() { target.Set(original) }
	return s, nil
}

// ID returns the spy's correlation id.
func (s *Spy) ID() uuid.UUID {
	return s.id
}

// Name returns the display name used in diagnostics.
func (s *Spy) Name() string {
	return s.name
}

// CreatedAt returns the global ordinal at creation time. Every
// call of the spy has a greater ID.
func (s *Spy) CreatedAt() int64 {
	return s.createdAt
}

// Type returns the function type of the spy.
func (s *Spy) Type() reflect.Type {
	return s.typ
}

// Func returns a function of the spy's type that records every
// invocation. The same value is returned on every call.
func (s *Spy) Func() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.proxy.IsValid() {
		s.proxy = reflect.MakeFunc(s.typ, func(in []reflect.Value) []reflect.Value {
			return s.invoke(s.receiver, false, in)
		})
	}
	return s.proxy.Interface()
}

// Invoke calls the spy with args and returns the results.
// Arguments are converted to the parameter types; a mismatch
// panics with an InvalidArgument error.
func (s *Spy) Invoke(args ...any) []any {
	return s.InvokeOn(s.receiver, args...)
}

// InvokeOn is Invoke with an explicit receiver.
func (s *Spy) InvokeOn(receiver any, args ...any) []any {
	out := s.invoke(receiver, false, s.inValues(args))
	return interfaces(out)
}

// Construct invokes the spy through the constructor protocol.
// The receiver is a freshly allocated instance: a new value of
// the pointed-to type when the first result is a pointer, an
// empty map[string]any otherwise. A non-zero first result is
// returned; otherwise the fresh instance is.
func (s *Spy) Construct(args ...any) any {
	instance := s.freshInstance()
	out := s.invoke(instance, true, s.inValues(args))
	if len(out) > 0 && !out[0].IsZero() {
		return out[0].Interface()
	}
	return instance
}

func (s *Spy) freshInstance() any {
	if s.typ.NumOut() > 0 && s.typ.Out(0).Kind() == reflect.Pointer {
		return reflect.New(s.typ.Out(0).Elem()).Interface()
	}
	return map[string]any{}
}

func (s *Spy) invoke(receiver any, constructed bool, in []reflect.Value) []reflect.Value {
	c := &Call{
		ID:          ordinal.Add(1),
		Args:        flatten(s.typ, in),
		Receiver:    receiver,
		Constructed: constructed,
		Time:        time.Now(),
		spyName:     s.name,
	}

	s.mu.Lock()
	c.Index = len(s.calls)
	s.calls = append(s.calls, c)
	behave := s.behave
	s.mu.Unlock()

	out, panicVal, panicked := run(behave, c, in)
	if !panicked {
		out = s.outValues(out)
	}
	c.complete(interfaces(out), panicVal, panicked)
	s.record(c)

	if panicked {
		panic(panicVal)
	}
	return out
}

func run(behave invokeFunc, c *Call, in []reflect.Value) (out []reflect.Value, panicVal any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicVal, panicked = r, true
		}
	}()
	return behave(c, in), nil, false
}

func (s *Spy) callOriginal(_ *Call, in []reflect.Value) []reflect.Value {
	if !s.original.IsValid() {
		return nil
	}
	if s.typ.IsVariadic() {
		return s.original.CallSlice(in)
	}
	return s.original.Call(in)
}

func (s *Spy) record(c *Call) {
	panicVal, panicked := c.Panic()

	entry := logging.InvocationLog{
		Timestamp:   c.Time.Format(time.RFC3339Nano),
		Spy:         s.name,
		SpyID:       s.id.String(),
		Ordinal:     c.ID,
		Index:       c.Index,
		Call:        c.String(),
		Constructed: c.Constructed,
	}
	if returns := c.Returns(); len(returns) > 0 {
		entry.Returns = format.Values(returns)
	}
	if panicked {
		entry.Panic = format.Value(panicVal)
	}

	s.logger.LogInvocation(entry)
	s.metrics.RecordInvocation(s.name, panicked)
}

// Restore undoes On and Replace. It is a no-op for spies that
// did not replace anything and safe to call more than once.
func (s *Spy) Restore() {
	s.mu.Lock()
	restore := s.restore
	s.restore = nil
	s.mu.Unlock()

	if restore != nil {
		restore()
	}
}

// ResetHistory clears the recorded calls.
func (s *Spy) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Reset clears the recorded calls.
func (s *Spy) Reset() {
	s.ResetHistory()
}

// Calls returns a snapshot of the recorded calls in invocation
// order.
func (s *Spy) Calls() []*Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// History returns the recorded calls as a History.
func (s *Spy) History() History {
	return History(s.Calls())
}

// CallCount returns the number of recorded calls.
func (s *Spy) CallCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// Called reports at least one call.
func (s *Spy) Called() bool { return s.CallCount() > 0 }

// NotCalled reports no calls.
func (s *Spy) NotCalled() bool { return s.CallCount() == 0 }

// CalledOnce reports exactly one call.
func (s *Spy) CalledOnce() bool { return s.CallCount() == 1 }

// CalledTwice reports exactly two calls.
func (s *Spy) CalledTwice() bool { return s.CallCount() == 2 }

// CalledThrice reports exactly three calls.
func (s *Spy) CalledThrice() bool { return s.CallCount() == 3 }

// Call returns the n-th call (zero-based). Negative n counts
// from the end. It returns nil when out of range.
func (s *Spy) Call(n int) *Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 0 {
		n += len(s.calls)
	}
	if n < 0 || n >= len(s.calls) {
		return nil
	}
	return s.calls[n]
}

// FirstCall returns the first call, or nil.
func (s *Spy) FirstCall() *Call { return s.Call(0) }

// SecondCall returns the second call, or nil.
func (s *Spy) SecondCall() *Call { return s.Call(1) }

// ThirdCall returns the third call, or nil.
func (s *Spy) ThirdCall() *Call { return s.Call(2) }

// LastCall returns the most recent call, or nil.
func (s *Spy) LastCall() *Call { return s.Call(-1) }

// Args returns the arguments of every call.
func (s *Spy) Args() [][]any { return s.History().Args() }

// Receivers returns the receiver of every call.
func (s *Spy) Receivers() []any { return s.History().Receivers() }

// ReturnValues returns the first result of every call.
func (s *Spy) ReturnValues() []any {
	calls := s.Calls()
	out := make([]any, len(calls))
	for i, c := range calls {
		out[i] = c.ReturnValue()
	}
	return out
}

// Panics returns the panic value of every call, nil for calls
// that returned normally.
func (s *Spy) Panics() []any {
	calls := s.Calls()
	out := make([]any, len(calls))
	for i, c := range calls {
		out[i], _ = c.Panic()
	}
	return out
}

// CalledBefore reports whether the first call of s started
// before the last call of other.
func (s *Spy) CalledBefore(other Recorder) bool {
	mine, theirs := s.Calls(), other.Calls()
	if len(mine) == 0 || len(theirs) == 0 {
		return false
	}
	return mine[0].ID < theirs[len(theirs)-1].ID
}

// CalledAfter reports whether the last call of s started after
// the last call of other.
func (s *Spy) CalledAfter(other Recorder) bool {
	mine, theirs := s.Calls(), other.Calls()
	if len(mine) == 0 || len(theirs) == 0 {
		return false
	}
	return mine[len(mine)-1].ID > theirs[len(theirs)-1].ID
}

// CalledOn reports whether any call had the given receiver.
func (s *Spy) CalledOn(receiver any) bool {
	return s.History().CalledOn(receiver)
}

// AlwaysCalledOn reports whether every call had the given
// receiver. It is false when the spy was never called.
func (s *Spy) AlwaysCalledOn(receiver any) bool {
	return s.History().AlwaysCalledOn(receiver)
}

// CalledWith reports whether any call received args.
func (s *Spy) CalledWith(args ...any) bool {
	return s.History().CalledWith(args...)
}

// AlwaysCalledWith reports whether every call received args.
func (s *Spy) AlwaysCalledWith(args ...any) bool {
	return s.History().AlwaysCalledWith(args...)
}

// NeverCalledWith reports whether no call received args.
func (s *Spy) NeverCalledWith(args ...any) bool {
	return s.History().NeverCalledWith(args...)
}

// CalledWithExactly reports whether any call received exactly
// args.
func (s *Spy) CalledWithExactly(args ...any) bool {
	return s.History().CalledWithExactly(args...)
}

// AlwaysCalledWithExactly reports whether every call received
// exactly args.
func (s *Spy) AlwaysCalledWithExactly(args ...any) bool {
	return s.History().AlwaysCalledWithExactly(args...)
}

// CalledWithMatch reports whether any call matched args.
func (s *Spy) CalledWithMatch(args ...any) bool {
	return s.History().CalledWithMatch(args...)
}

// AlwaysCalledWithMatch reports whether every call matched
// args.
func (s *Spy) AlwaysCalledWithMatch(args ...any) bool {
	return s.History().AlwaysCalledWithMatch(args...)
}

// NeverCalledWithMatch reports whether no call matched args.
func (s *Spy) NeverCalledWithMatch(args ...any) bool {
	return s.History().NeverCalledWithMatch(args...)
}

// CalledWithNew reports whether any call went through
// Construct.
func (s *Spy) CalledWithNew() bool {
	return s.History().CalledWithNew()
}

// AlwaysCalledWithNew reports whether every call went through
// Construct.
func (s *Spy) AlwaysCalledWithNew() bool {
	return s.History().AlwaysCalledWithNew()
}

// Threw reports whether any call panicked.
func (s *Spy) Threw(expected ...any) bool {
	return s.History().Threw(expected...)
}

// AlwaysThrew reports whether every call panicked.
func (s *Spy) AlwaysThrew(expected ...any) bool {
	return s.History().AlwaysThrew(expected...)
}
