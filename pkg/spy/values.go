package spy

import (
	"reflect"

	"digital.vasic.doubles/pkg/failure"
	"digital.vasic.doubles/pkg/format"
)

// flatten turns MakeFunc-shaped arguments into the recorded
// argument list, expanding a variadic tail.
func flatten(typ reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if typ.IsVariadic() && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}
	return args
}

// inValues converts dynamic arguments into the MakeFunc shape of
// s.typ. Missing fixed parameters get their zero value.
func (s *Spy) inValues(args []any) []reflect.Value {
	return argValues(s.typ, args, s.name)
}

func argValues(typ reflect.Type, args []any, name string) []reflect.Value {
	fixed := typ.NumIn()
	if typ.IsVariadic() {
		fixed--
	}
	if !typ.IsVariadic() && len(args) > fixed {
		panic(failure.New(
			failure.InvalidArgument,
			"%s takes %d arguments, got %d", name, fixed, len(args),
		))
	}

	in := make([]reflect.Value, 0, typ.NumIn())
	for i := 0; i < fixed; i++ {
		var arg any
		if i < len(args) {
			arg = args[i]
		}
		in = append(in, convert(arg, typ.In(i), name))
	}

	if typ.IsVariadic() {
		sliceType := typ.In(fixed)
		var rest []any
		if len(args) > fixed {
			rest = args[fixed:]
		}
		tail := reflect.MakeSlice(sliceType, len(rest), len(rest))
		for i, arg := range rest {
			tail.Index(i).Set(convert(arg, sliceType.Elem(), name))
		}
		in = append(in, tail)
	}
	return in
}

// outValues normalises behaviour results to the result types of
// s.typ: missing or invalid values become zero values.
func (s *Spy) outValues(out []reflect.Value) []reflect.Value {
	return resultValues(s.typ, out, s.name)
}

func resultValues(typ reflect.Type, out []reflect.Value, name string) []reflect.Value {
	res := make([]reflect.Value, typ.NumOut())
	for i := range res {
		t := typ.Out(i)
		if i >= len(out) || !out[i].IsValid() {
			res[i] = reflect.Zero(t)
			continue
		}
		if out[i].Type() == t {
			res[i] = out[i]
			continue
		}
		res[i] = convert(out[i].Interface(), t, name)
	}
	return res
}

// anyValues converts plain values to results of typ.
func anyValues(typ reflect.Type, values []any, name string) []reflect.Value {
	out := make([]reflect.Value, len(values))
	for i, v := range values {
		if i >= typ.NumOut() {
			break
		}
		out[i] = convert(v, typ.Out(i), name)
	}
	return resultValues(typ, out, name)
}

// convert produces a value of exactly type t from v. Numbers
// convert across numeric kinds; anything else must be
// assignable.
func convert(v any, t reflect.Type, name string) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Type() == t:
		return rv
	case rv.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out
	case numeric(rv.Kind()) && numeric(t.Kind()),
		rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t):
		return rv.Convert(t)
	}

	panic(failure.New(
		failure.InvalidArgument,
		"%s: cannot use %s (%T) as %s", name, format.Value(v), v, t,
	))
}

func numeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func interfaces(vals []reflect.Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		if v.IsValid() {
			out[i] = v.Interface()
		}
	}
	return out
}
