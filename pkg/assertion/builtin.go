package assertion

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/match"
	"digital.vasic.doubles/pkg/spy"
)

// registerDefaults registers all built-in evaluators.
func (e *DefaultEngine) registerDefaults() {
	e.evaluators["called"] = OnRecorder(evaluateCalled)
	e.evaluators["notCalled"] = OnRecorder(evaluateNotCalled)
	e.evaluators["calledOnce"] = OnRecorder(evaluateCount(1))
	e.evaluators["calledTwice"] = OnRecorder(evaluateCount(2))
	e.evaluators["calledThrice"] = OnRecorder(evaluateCount(3))
	e.evaluators["callCount"] = OnRecorder(evaluateCallCount)
	e.evaluators["callOrder"] = evaluateCallOrder
	e.evaluators["calledOn"] = OnRecorder(evaluateCalledOn(false))
	e.evaluators["alwaysCalledOn"] = OnRecorder(evaluateCalledOn(true))

	e.evaluators["calledWith"] = OnRecorder(evaluateArgs(
		spy.History.CalledWith, "to be called with arguments"))
	e.evaluators["alwaysCalledWith"] = OnRecorder(evaluateArgs(
		spy.History.AlwaysCalledWith, "to always be called with arguments"))
	e.evaluators["neverCalledWith"] = OnRecorder(evaluateArgs(
		spy.History.NeverCalledWith, "to never be called with arguments"))
	e.evaluators["calledWithMatch"] = OnRecorder(evaluateArgs(
		spy.History.CalledWithMatch, "to be called with match"))
	e.evaluators["alwaysCalledWithMatch"] = OnRecorder(evaluateArgs(
		spy.History.AlwaysCalledWithMatch, "to always be called with match"))
	e.evaluators["neverCalledWithMatch"] = OnRecorder(evaluateArgs(
		spy.History.NeverCalledWithMatch, "to never be called with match"))
	e.evaluators["calledWithExactly"] = OnRecorder(evaluateArgs(
		spy.History.CalledWithExactly, "to be called with exact arguments"))
	e.evaluators["alwaysCalledWithExactly"] = OnRecorder(evaluateArgs(
		spy.History.AlwaysCalledWithExactly, "to always be called with exact arguments"))

	e.evaluators["calledWithNew"] = OnRecorder(evaluateNew(
		spy.History.CalledWithNew, "to be called with new"))
	e.evaluators["alwaysCalledWithNew"] = OnRecorder(evaluateNew(
		spy.History.AlwaysCalledWithNew, "to always be called with new"))

	e.evaluators["threw"] = OnRecorder(evaluateThrew(
		spy.History.Threw, "did not throw exception"))
	e.evaluators["alwaysThrew"] = OnRecorder(evaluateThrew(
		spy.History.AlwaysThrew, "did not always throw exception"))

	e.evaluators["match"] = evaluateMatch
}

func neverCalled(r spy.Recorder) string {
	return fmt.Sprintf(
		"expected %s to have been called at least once but was never called",
		r.Name(),
	)
}

func evaluateCalled(r spy.Recorder, _ []any) (bool, string) {
	if len(r.Calls()) > 0 {
		return true, ""
	}
	return false, neverCalled(r)
}

func evaluateNotCalled(r spy.Recorder, _ []any) (bool, string) {
	calls := r.Calls()
	if len(calls) == 0 {
		return true, ""
	}
	return false, fmt.Sprintf(
		"expected %s to not have been called but was called %s%s",
		r.Name(), format.Times(len(calls)), spy.RenderCalls(calls),
	)
}

// evaluateCount checks for exactly n calls. A spy that was
// never called reports the at-least-once diagnostic.
func evaluateCount(n int) RecorderEvaluator {
	return func(r spy.Recorder, _ []any) (bool, string) {
		calls := r.Calls()
		if len(calls) == n {
			return true, ""
		}
		if len(calls) == 0 {
			return false, neverCalled(r)
		}
		return false, fmt.Sprintf(
			"expected %s to be called %s but was called %s%s",
			r.Name(), format.Times(n), format.Times(len(calls)),
			spy.RenderCalls(calls),
		)
	}
}

func evaluateCallCount(r spy.Recorder, args []any) (bool, string) {
	if len(args) == 0 {
		return false, "callCount expects an expected count"
	}
	n, ok := toInt(args[0])
	if !ok {
		return false, fmt.Sprintf(
			"callCount expects an integer count, got %s",
			format.Value(args[0]),
		)
	}
	return evaluateCount(n)(r, args)
}

func toInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	}
	return 0, false
}

// evaluateCallOrder passes when each recorder has a call that
// happened after the matched call of the one before it. The same
// recorder may appear more than once.
func evaluateCallOrder(target any, args []any) (bool, string) {
	items := append([]any{target}, args...)
	recorders := make([]spy.Recorder, len(items))
	for i, item := range items {
		r, msg := asRecorder(item)
		if r == nil {
			return false, msg
		}
		recorders[i] = r
	}

	if inOrder(recorders) {
		return true, ""
	}

	expected := make([]string, len(recorders))
	for i, r := range recorders {
		expected[i] = r.Name()
	}
	return false, fmt.Sprintf(
		"expected %s to be called in order but were called as %s",
		strings.Join(expected, ", "), strings.Join(actualOrder(recorders), ", "),
	)
}

func inOrder(recorders []spy.Recorder) bool {
	var prev int64
	for _, r := range recorders {
		next := int64(-1)
		for _, c := range r.Calls() {
			if c.ID > prev {
				next = c.ID
				break
			}
		}
		if next < 0 {
			return false
		}
		prev = next
	}
	return true
}

// actualOrder names the called recorders ordered by their first
// call. Recorders that were never called are left out.
func actualOrder(recorders []spy.Recorder) []string {
	type first struct {
		name string
		id   int64
	}
	var called []first
	for _, r := range recorders {
		calls := r.Calls()
		if len(calls) == 0 {
			continue
		}
		called = append(called, first{name: r.Name(), id: calls[0].ID})
	}
	sort.SliceStable(called, func(i, j int) bool {
		return called[i].id < called[j].id
	})

	names := make([]string, len(called))
	for i, f := range called {
		names[i] = f.name
	}
	return names
}

func evaluateCalledOn(always bool) RecorderEvaluator {
	return func(r spy.Recorder, args []any) (bool, string) {
		var receiver any
		if len(args) > 0 {
			receiver = args[0]
		}

		h := spy.History(r.Calls())
		verb := "to be called with"
		passed := h.CalledOn(receiver)
		if always {
			verb = "to always be called with"
			passed = h.AlwaysCalledOn(receiver)
		}
		if passed {
			return true, ""
		}
		return false, fmt.Sprintf(
			"expected %s %s %s as this but was called with %s",
			r.Name(), verb, format.Value(receiver), format.Values(h.Receivers()),
		)
	}
}

func evaluateArgs(
	query func(spy.History, ...any) bool,
	phrase string,
) RecorderEvaluator {
	return func(r spy.Recorder, args []any) (bool, string) {
		calls := r.Calls()
		if query(spy.History(calls), args...) {
			return true, ""
		}
		return false, fmt.Sprintf(
			"expected %s %s %s%s",
			r.Name(), phrase, format.Values(args), spy.RenderCalls(calls),
		)
	}
}

func evaluateNew(query func(spy.History) bool, phrase string) RecorderEvaluator {
	return func(r spy.Recorder, _ []any) (bool, string) {
		if query(spy.History(r.Calls())) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %s %s", r.Name(), phrase)
	}
}

func evaluateThrew(
	query func(spy.History, ...any) bool,
	phrase string,
) RecorderEvaluator {
	return func(r spy.Recorder, args []any) (bool, string) {
		calls := r.Calls()
		if query(spy.History(calls), args...) {
			return true, ""
		}
		return false, fmt.Sprintf(
			"%s %s%s", r.Name(), phrase, spy.RenderCalls(calls),
		)
	}
}

// evaluateMatch tests target against args[0] with the
// structural match used by the WithMatch family.
func evaluateMatch(target any, args []any) (bool, string) {
	var expected any
	if len(args) > 0 {
		expected = args[0]
	}
	if match.Matches(expected, target) {
		return true, ""
	}
	return false, fmt.Sprintf(
		"expected value to match\n    expected = %s\n    actual = %s",
		format.Value(expected), format.Value(target),
	)
}
