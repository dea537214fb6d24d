package match

import (
	"reflect"
	"regexp"
	"strings"
)

// Equal reports whether actual is deeply equal to expected.
// Slices and arrays compare element-wise in order, maps by key
// set and recursive value equality, structs field by field and
// numbers by value across numeric kinds. Any Matcher found in
// expected, at any depth, is applied to the corresponding
// actual value instead.
func Equal(expected, actual any) bool {
	return equal(
		reflect.ValueOf(expected),
		reflect.ValueOf(actual),
		map[visit]bool{},
	)
}

// Matches reports whether actual satisfies expected under the
// structural "match" rules: a Matcher is applied, a string
// expectation matches any string containing it, a regular
// expression matches strings it finds a match in, a map or
// struct expectation matches any map or struct holding at least
// the expected properties (compared recursively) and anything
// else falls back to Equal.
func Matches(expected, actual any) bool {
	return matches(reflect.ValueOf(expected), reflect.ValueOf(actual), map[visit]bool{})
}

// Args reports whether actual satisfies expected position by
// position using test. Extra trailing actual arguments are
// ignored unless exact is set, in which case the counts must be
// equal.
func Args(
	expected, actual []any,
	exact bool,
	test func(expected, actual any) bool,
) bool {
	if len(expected) > len(actual) {
		return false
	}
	if exact && len(expected) != len(actual) {
		return false
	}
	for i, e := range expected {
		if !test(e, actual[i]) {
			return false
		}
	}
	return true
}

type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// enter marks the pair of references as being compared and
// reports whether it already was. A pair seen again is part of a
// cycle and is assumed equal.
func enter(e, a reflect.Value, seen map[visit]bool) bool {
	v := visit{e.Pointer(), a.Pointer(), e.Type()}
	if seen[v] {
		return true
	}
	seen[v] = true
	return false
}

func equal(e, a reflect.Value, seen map[visit]bool) bool {
	if e.IsValid() && e.Kind() == reflect.Interface {
		if e.IsNil() {
			e = reflect.Value{}
		} else {
			e = e.Elem()
		}
	}
	if a.IsValid() && a.Kind() == reflect.Interface {
		if a.IsNil() {
			a = reflect.Value{}
		} else {
			a = a.Elem()
		}
	}

	if m, ok := asMatcher(e); ok {
		return m.Test(toAny(a))
	}

	if !e.IsValid() || !a.IsValid() {
		return isNil(e) && isNil(a)
	}

	if isNumber(e) && isNumber(a) {
		return numbersEqual(e, a)
	}

	if e.Type() != a.Type() {
		return false
	}

	switch e.Kind() {
	case reflect.Pointer:
		if e.Pointer() == a.Pointer() {
			return true
		}
		if e.IsNil() || a.IsNil() {
			return false
		}
		if enter(e, a, seen) {
			return true
		}
		return equal(e.Elem(), a.Elem(), seen)
	case reflect.Slice, reflect.Array:
		if e.Len() != a.Len() {
			return false
		}
		if e.Kind() == reflect.Slice && e.Len() > 0 {
			if e.Pointer() == a.Pointer() {
				return true
			}
			if enter(e, a, seen) {
				return true
			}
		}
		for i := 0; i < e.Len(); i++ {
			if !equal(e.Index(i), a.Index(i), seen) {
				return false
			}
		}
		return true
	case reflect.Map:
		if e.Len() != a.Len() {
			return false
		}
		if e.Pointer() == a.Pointer() || enter(e, a, seen) {
			return true
		}
		iter := e.MapRange()
		for iter.Next() {
			av := a.MapIndex(iter.Key())
			if !av.IsValid() {
				return false
			}
			if !equal(iter.Value(), av, seen) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < e.NumField(); i++ {
			if !equal(e.Field(i), a.Field(i), seen) {
				return false
			}
		}
		return true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return e.Pointer() == a.Pointer()
	case reflect.String:
		return e.String() == a.String()
	case reflect.Bool:
		return e.Bool() == a.Bool()
	case reflect.Complex64, reflect.Complex128:
		return e.Complex() == a.Complex()
	}

	return false
}

func matches(e, a reflect.Value, seen map[visit]bool) bool {
	if e.IsValid() && e.Kind() == reflect.Interface && !e.IsNil() {
		e = e.Elem()
	}
	if a.IsValid() && a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}

	if m, ok := asMatcher(e); ok {
		return m.Test(toAny(a))
	}
	switch exp := toAny(e).(type) {
	case string:
		s, ok := stringOf(a)
		return ok && strings.Contains(s, exp)
	case *regexp.Regexp:
		s, ok := stringOf(a)
		return ok && exp.MatchString(s)
	}

	switch e.Kind() {
	case reflect.Map:
		if e.Type().Key().Kind() != reflect.String {
			return equal(e, a, seen)
		}
		if a.IsValid() && a.Kind() == reflect.Map && a.Type() == e.Type() &&
			(e.Pointer() == a.Pointer() || enter(e, a, seen)) {
			return true
		}
		iter := e.MapRange()
		for iter.Next() {
			av, ok := property(a, iter.Key().String())
			if !ok || !matchProperty(iter.Value(), av, seen) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < e.NumField(); i++ {
			f := e.Type().Field(i)
			av, ok := property(a, f.Name)
			if !ok || !matchProperty(e.Field(i), av, seen) {
				return false
			}
		}
		return true
	}

	return equal(e, a, seen)
}

// matchProperty applies Matchers and recurses into nested maps
// and structs; other property values must be deeply equal.
func matchProperty(e, a reflect.Value, seen map[visit]bool) bool {
	if e.Kind() == reflect.Interface && !e.IsNil() {
		e = e.Elem()
	}
	if m, ok := asMatcher(e); ok {
		return m.Test(toAny(a))
	}
	if e.Kind() == reflect.Map || e.Kind() == reflect.Struct {
		return matches(e, a, seen)
	}
	return equal(e, a, seen)
}

// property looks up a named key on a string-keyed map or a
// field on a struct (or pointer to struct).
func property(v reflect.Value, name string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		pv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		return pv, pv.IsValid()
	case reflect.Struct:
		fv := v.FieldByName(name)
		return fv, fv.IsValid()
	}
	return reflect.Value{}, false
}

func asMatcher(v reflect.Value) (Matcher, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	m, ok := v.Interface().(Matcher)
	return m, ok
}

func toAny(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

func stringOf(v reflect.Value) (string, bool) {
	if !v.IsValid() || v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isSigned(v) || isUnsigned(v) || isFloat(v)
}

func isSigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func numbersEqual(e, a reflect.Value) bool {
	switch {
	case isSigned(e) && isSigned(a):
		return e.Int() == a.Int()
	case isUnsigned(e) && isUnsigned(a):
		return e.Uint() == a.Uint()
	case isSigned(e) && isUnsigned(a):
		return e.Int() >= 0 && uint64(e.Int()) == a.Uint()
	case isUnsigned(e) && isSigned(a):
		return a.Int() >= 0 && uint64(a.Int()) == e.Uint()
	}
	return toFloat(e) == toFloat(a)
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isSigned(v):
		return float64(v.Int())
	case isUnsigned(v):
		return float64(v.Uint())
	}
	return v.Float()
}
