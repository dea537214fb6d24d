// Package match provides value matchers: reusable predicates
// with a human-readable label, usable wherever spy arguments are
// compared.
package match

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"digital.vasic.doubles/pkg/format"
)

// Matcher is a predicate over a single value. String returns the
// label used in diagnostic messages.
type Matcher interface {
	Test(value any) bool
	String() string
}

type matcher struct {
	label string
	test  func(any) bool
}

func (m *matcher) Test(value any) bool { return m.test(value) }

func (m *matcher) String() string { return m.label }

// New creates a Matcher from a label and a predicate. Every call
// yields a distinct matcher; two matchers compare equal with ==
// only when they are the same one.
func New(label string, test func(value any) bool) Matcher {
	return &matcher{label: label, test: test}
}

var (
	// Any matches every value, including nil.
	Any Matcher = New("any", func(any) bool { return true })

	// Defined matches every value except nil and nil
	// pointers, maps, slices, funcs, channels and interfaces.
	Defined Matcher = New("defined", func(v any) bool {
		return !isNil(reflect.ValueOf(v))
	})

	// Truthy matches values that are neither nil, false, zero
	// numbers, NaN nor the empty string.
	Truthy Matcher = New("truthy", truthy)

	// Falsy matches the values Truthy rejects.
	Falsy Matcher = New("falsy", func(v any) bool { return !truthy(v) })
)

// Same matches only the identical value: the same pointer, map,
// slice header, func or channel, or an equal comparable value
// of the same dynamic type.
func Same(expected any) Matcher {
	return New(
		"same("+format.Value(expected)+")",
		func(v any) bool { return same(expected, v) },
	)
}

// TypeOf matches values of a named type category: "string",
// "number", "bool" (or "boolean"), "map", "slice" (or "array"),
// "func" (or "function"), "struct", "pointer", "error" and
// "nil".
func TypeOf(name string) Matcher {
	return New(
		"typeOf("+strconv.Quote(name)+")",
		func(v any) bool { return typeName(v, name) },
	)
}

// InstanceOf matches values whose dynamic type is T or, for
// interface types, implements T.
func InstanceOf[T any]() Matcher {
	t := reflect.TypeFor[T]()
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return New(
		"instanceOf("+name+")",
		func(v any) bool {
			if v == nil {
				return false
			}
			return reflect.TypeOf(v).AssignableTo(t)
		},
	)
}

// Match builds a structural matcher from pattern. A Matcher is
// returned as is, a func(any) bool becomes a custom matcher and
// everything else is tested with Matches.
func Match(pattern any) Matcher {
	switch s := pattern.(type) {
	case Matcher:
		return s
	case func(any) bool:
		return Func(s, "")
	case string:
		return New(
			"match("+strconv.Quote(s)+")",
			func(v any) bool { return Matches(s, v) },
		)
	case *regexp.Regexp:
		return New(
			"match(/"+s.String()+"/)",
			func(v any) bool { return Matches(s, v) },
		)
	}

	return New(
		"match("+patternLabel(pattern)+")",
		func(v any) bool { return Matches(pattern, v) },
	)
}

// Regexp matches strings in which pattern finds a match. It
// panics when pattern does not compile.
func Regexp(pattern string) Matcher {
	return Match(regexp.MustCompile(pattern))
}

// Func creates a custom matcher. The label defaults to the
// function's name, or "custom" for closures.
func Func(test func(value any) bool, label string) Matcher {
	if label == "" {
		label = format.FuncName(test)
	}
	if label == "" {
		label = "custom"
	}
	return New("match("+label+")", test)
}

// Has matches maps and structs holding the named property. When
// expected is given the property value must also satisfy it.
func Has(name string, expected ...any) Matcher {
	label := "has(" + strconv.Quote(name)
	for _, e := range expected {
		label += ", " + format.Value(e)
	}
	label += ")"

	return New(label, func(v any) bool {
		pv, ok := property(reflect.ValueOf(v), name)
		if !ok {
			return false
		}
		if len(expected) == 0 {
			return true
		}
		return equal(reflect.ValueOf(expected[0]), pv, map[visit]bool{})
	})
}

// In matches values deeply equal to one of the candidates.
func In(candidates ...any) Matcher {
	return New(
		"in("+format.Value(candidates)+")",
		func(v any) bool {
			for _, c := range candidates {
				if Equal(c, v) {
					return true
				}
			}
			return false
		},
	)
}

// And matches values satisfying both a and b.
func And(a, b Matcher) Matcher {
	return New(
		a.String()+".and("+b.String()+")",
		func(v any) bool { return a.Test(v) && b.Test(v) },
	)
}

// Or matches values satisfying a or b.
func Or(a, b Matcher) Matcher {
	return New(
		a.String()+".or("+b.String()+")",
		func(v any) bool { return a.Test(v) || b.Test(v) },
	)
}

// Not matches values m rejects.
func Not(m Matcher) Matcher {
	return New(
		"not("+m.String()+")",
		func(v any) bool { return !m.Test(v) },
	)
}

// IsMatcher reports whether v is a Matcher.
func IsMatcher(v any) bool {
	_, ok := v.(Matcher)
	return ok
}

// patternLabel renders a structural pattern without braces, so that a
// map renders as "k: v, k2: v2" with sorted keys and a struct lists
// its fields in declaration order.
func patternLabel(pattern any) string {
	rv := reflect.ValueOf(pattern)
	if _, ok := pattern.(fmt.Stringer); ok {
		return format.Value(pattern)
	}
	switch rv.Kind() {
	case reflect.Struct:
		body := strings.TrimPrefix(format.Value(pattern), rv.Type().Name())
		if body == "{}" {
			return ""
		}
		return strings.TrimSuffix(strings.TrimPrefix(body, "{ "), " }")
	case reflect.Map:
		parts := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			parts = append(parts, format.Value(iter.Key().Interface())+
				": "+format.Value(iter.Value().Interface()))
		}
		sort.Strings(parts)
		return strings.Join(parts, ", ")
	case reflect.String:
		return strconv.Quote(rv.String())
	}
	return format.Value(pattern)
}

func truthy(v any) bool {
	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return false
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	if isNumber(rv) {
		return toFloat(rv) != 0
	}
	return true
}

func same(expected, actual any) bool {
	e, a := reflect.ValueOf(expected), reflect.ValueOf(actual)
	if !e.IsValid() || !a.IsValid() {
		return !e.IsValid() && !a.IsValid()
	}
	if e.Type() != a.Type() {
		return false
	}

	switch e.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func,
		reflect.Chan, reflect.UnsafePointer:
		return e.Pointer() == a.Pointer()
	case reflect.Slice:
		return e.Pointer() == a.Pointer() && e.Len() == a.Len()
	}

	if e.Type().Comparable() {
		return expected == actual
	}
	return false
}

func typeName(v any, name string) bool {
	if v == nil {
		return name == "nil"
	}

	rv := reflect.ValueOf(v)
	switch name {
	case "string":
		return rv.Kind() == reflect.String
	case "number":
		return isNumber(rv)
	case "bool", "boolean":
		return rv.Kind() == reflect.Bool
	case "map", "object":
		return rv.Kind() == reflect.Map
	case "slice", "array":
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	case "func", "function":
		return rv.Kind() == reflect.Func
	case "struct":
		return rv.Kind() == reflect.Struct
	case "pointer":
		return rv.Kind() == reflect.Pointer
	case "error":
		_, ok := v.(error)
		return ok
	case "nil":
		return isNil(rv)
	}
	return false
}
