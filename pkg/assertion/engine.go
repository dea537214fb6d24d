package assertion

import (
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/logging"
	"digital.vasic.doubles/pkg/metrics"
	"digital.vasic.doubles/pkg/spy"
)

// DefaultFailException is the name carried by the error the
// default fail handler panics with.
const DefaultFailException = "AssertError"

// FailHandler receives the diagnostic of a failed assertion.
type FailHandler func(message string)

// PassHandler receives the name of a passed assertion.
type PassHandler func(name string)

// Engine defines the interface for assertion engines.
type Engine interface {
	// Assert evaluates the named assertion and routes the
	// outcome through the pass or fail handler.
	Assert(name string, target any, args ...any) Result

	// Evaluate checks a definition against the given target
	// without invoking the handlers.
	Evaluate(def Definition, target any) Result

	// EvaluateAll checks multiple definitions against a map of
	// named targets. Each definition's Target field is used as
	// the key into the targets map.
	EvaluateAll(defs []Definition, targets map[string]any) []Result

	// Register adds a custom evaluator for the given assertion
	// name. Returns an error if the name is already registered.
	Register(name string, evaluator Evaluator) error
}

// Option configures a DefaultEngine.
type Option func(*DefaultEngine)

// WithLogger sets the logger receiving every assertion outcome.
func WithLogger(l logging.Logger) Option {
	return func(e *DefaultEngine) { e.logger = l }
}

// WithMetrics sets the collector counting assertion outcomes.
func WithMetrics(c metrics.Collector) Option {
	return func(e *DefaultEngine) { e.metrics = c }
}

// WithFailException sets the name of the error raised by the
// default fail handler.
func WithFailException(name string) Option {
	return func(e *DefaultEngine) { e.failException = name }
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use. Handlers are invoked without holding
// the engine lock, so a handler may call back into the engine.
type DefaultEngine struct {
	mu            sync.RWMutex
	evaluators    map[string]Evaluator
	fail          FailHandler
	pass          PassHandler
	failException string
	logger        logging.Logger
	metrics       metrics.Collector
	results       []Result
}

// NewEngine creates a DefaultEngine with all built-in
// evaluators pre-registered, the default fail handler and a
// no-op pass handler.
func NewEngine(opts ...Option) *DefaultEngine {
	e := &DefaultEngine{
		evaluators:    make(map[string]Evaluator),
		failException: DefaultFailException,
		logger:        logging.NullLogger{},
		metrics:       metrics.NoopCollector{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registerDefaults()
	return e
}

// Register adds a custom evaluator for the given assertion name.
// Returns an error if the name is already registered.
func (e *DefaultEngine) Register(name string, evaluator Evaluator) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.evaluators[name]; exists {
		return fmt.Errorf("assertion type already registered: %s", name)
	}

	e.evaluators[name] = evaluator
	return nil
}

// HasEvaluator returns true if the given assertion name has a
// registered evaluator.
func (e *DefaultEngine) HasEvaluator(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.evaluators[name]
	return exists
}

// Names returns the registered assertion names, sorted.
func (e *DefaultEngine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.evaluators))
	for name := range e.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assert evaluates the named assertion against target and args.
// On success the pass handler receives name; on failure the fail
// handler receives the diagnostic. With the default fail handler
// a failure panics with a *failure.Error.
func (e *DefaultEngine) Assert(name string, target any, args ...any) Result {
	r := e.Evaluate(Definition{Type: name, Values: args}, target)
	if r.Passed {
		e.Pass(name)
	} else {
		e.Fail(r.Message)
	}
	return r
}

// Evaluate runs a single definition against target, recording,
// logging and counting the outcome. Handlers are not invoked.
func (e *DefaultEngine) Evaluate(def Definition, target any) Result {
	e.mu.RLock()
	evaluator, exists := e.evaluators[def.Type]
	e.mu.RUnlock()

	r := Result{
		Type:     def.Type,
		Target:   targetName(def, target),
		Expected: format.Values(def.Values),
		Ordinal:  spy.Ordinal(),
	}
	if !exists {
		r.Message = fmt.Sprintf("unknown assertion type: %s", def.Type)
	} else {
		r.Passed, r.Message = evaluator(target, def.Values)
		if r.Passed {
			r.Message = ""
		}
	}

	e.record(r)
	return r
}

// EvaluateAll runs multiple definitions against a map of named
// targets. If a target is missing, the assertion fails. For
// callOrder, string values naming a target are resolved to it.
func (e *DefaultEngine) EvaluateAll(defs []Definition, targets map[string]any) []Result {
	results := make([]Result, 0, len(defs))

	for _, def := range defs {
		target, exists := targets[def.Target]
		if !exists {
			r := Result{
				Type:    def.Type,
				Target:  def.Target,
				Message: fmt.Sprintf("target not found: %s", def.Target),
			}
			e.record(r)
			results = append(results, r)
			continue
		}

		if def.Type == "callOrder" {
			resolved, missing := resolveTargets(def.Values, targets)
			if missing != "" {
				r := Result{
					Type:    def.Type,
					Target:  def.Target,
					Message: fmt.Sprintf("target not found: %s", missing),
				}
				e.record(r)
				results = append(results, r)
				continue
			}
			def.Values = resolved
		}

		results = append(results, e.Evaluate(def, target))
	}

	return results
}

func resolveTargets(values []any, targets map[string]any) ([]any, string) {
	out := make([]any, len(values))
	for i, v := range values {
		name, ok := v.(string)
		if !ok {
			out[i] = v
			continue
		}
		target, exists := targets[name]
		if !exists {
			return nil, name
		}
		out[i] = target
	}
	return out, ""
}

func targetName(def Definition, target any) string {
	if def.Target != "" {
		return def.Target
	}
	if r, _ := asRecorder(target); r != nil {
		return r.Name()
	}
	return format.Value(target)
}

func (e *DefaultEngine) record(r Result) {
	e.mu.Lock()
	e.results = append(e.results, r)
	logger, collector := e.logger, e.metrics
	e.mu.Unlock()

	logger.LogAssertion(logging.AssertionLog{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Assertion: r.Type,
		Target:    r.Target,
		Passed:    r.Passed,
		Message:   r.Message,
	})
	collector.RecordAssertion(r.Type, r.Passed)
}

// Results returns a copy of every outcome evaluated so far.
func (e *DefaultEngine) Results() []Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Result, len(e.results))
	copy(out, e.results)
	return out
}

// ResetResults clears the result log.
func (e *DefaultEngine) ResetResults() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results = nil
}

// SetLogger replaces the logger.
func (e *DefaultEngine) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NullLogger{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = l
}

// SetMetrics replaces the metrics collector.
func (e *DefaultEngine) SetMetrics(c metrics.Collector) {
	if c == nil {
		c = metrics.NoopCollector{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = c
}

// Fail reports a failure through the installed fail handler.
func (e *DefaultEngine) Fail(message string) {
	e.mu.RLock()
	fail, name := e.fail, e.failException
	e.mu.RUnlock()

	if fail == nil {
		panic(failure.Assertion(name, message))
	}
	fail(message)
}

// Pass reports a success through the installed pass handler.
func (e *DefaultEngine) Pass(name string) {
	e.mu.RLock()
	pass := e.pass
	e.mu.RUnlock()

	if pass != nil {
		pass(name)
	}
}

// FailException returns the name carried by default failures.
func (e *DefaultEngine) FailException() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.failException
}

// SetFail installs a fail handler and returns a func restoring
// the previous one. A nil handler restores the default.
func (e *DefaultEngine) SetFail(fn FailHandler) (restore func()) {
	e.mu.Lock()
	prev := e.fail
	e.fail = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		e.fail = prev
		e.mu.Unlock()
	}
}

// SetPass installs a pass handler and returns a func restoring
// the previous one.
func (e *DefaultEngine) SetPass(fn PassHandler) (restore func()) {
	e.mu.Lock()
	prev := e.pass
	e.pass = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		e.pass = prev
		e.mu.Unlock()
	}
}

// SetFailException changes the name carried by default failures
// and returns a func restoring the previous name.
func (e *DefaultEngine) SetFailException(name string) (restore func()) {
	e.mu.Lock()
	prev := e.failException
	e.failException = name
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		e.failException = prev
		e.mu.Unlock()
	}
}

// UseT routes failures to t.Error for the rest of the test and
// restores the previous handler when the test finishes.
func (e *DefaultEngine) UseT(t testing.TB) {
	t.Helper()
	restore := e.SetFail(func(message string) {
		t.Helper()
		t.Error(message)
	})
	t.Cleanup(restore)
}
