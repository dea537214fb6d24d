package assertion

import (
	"reflect"

	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/spy"
)

// Evaluator checks one named assertion. target is the first
// assertion argument and args the rest. It returns whether the
// assertion passed and, on failure, the diagnostic message.
type Evaluator func(target any, args []any) (bool, string)

// RecorderEvaluator is an Evaluator over a validated invocation
// history.
type RecorderEvaluator func(r spy.Recorder, args []any) (bool, string)

// OnRecorder adapts fn into an Evaluator that first checks that
// the target is a spy, stub or single call.
func OnRecorder(fn RecorderEvaluator) Evaluator {
	return func(target any, args []any) (bool, string) {
		r, msg := asRecorder(target)
		if r == nil {
			return false, msg
		}
		return fn(r, args)
	}
}

// asRecorder returns the target as a Recorder, or the usage
// message explaining why it is not one.
func asRecorder(target any) (spy.Recorder, string) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || isNilValue(rv) {
		return nil, "fake is not a spy"
	}
	if r, ok := target.(spy.Recorder); ok {
		return r, ""
	}
	if rv.Kind() == reflect.Func {
		return nil, format.Value(target) + " is not stubbed"
	}
	return nil, format.Value(target) + " is not a function"
}

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
