// Package format renders values, argument lists and call counts
// for diagnostic messages.
//
// Strings are rendered without quotes, maps as "{ k: v }" with
// sorted keys, slices as "[a, b]" and anything implementing
// fmt.Stringer or error through that method. Matchers therefore
// render as their labels.
package format

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// maxDepth bounds recursion into nested containers.
const maxDepth = 8

var fallback = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

var closureName = regexp.MustCompile(`^(func)?\d+$`)

// Value renders a single value.
func Value(v any) string {
	if v == nil {
		return "nil"
	}
	return value(reflect.ValueOf(v), 0, map[uintptr]bool{})
}

// Values renders a list of values joined by ", ".
func Values(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Value(v)
	}
	return strings.Join(parts, ", ")
}

// Call renders an invocation as "name(arg1, arg2)".
func Call(name string, args []any) string {
	return name + "(" + Values(args) + ")"
}

// Times renders a call count in words: once, twice, thrice,
// otherwise "<n> times".
func Times(n int) string {
	switch n {
	case 1:
		return "once"
	case 2:
		return "twice"
	case 3:
		return "thrice"
	default:
		return strconv.Itoa(n) + " times"
	}
}

// FuncName returns the short name of a named function, or ""
// for nil values, non-functions and closures.
func FuncName(fn any) string {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}
	return shortName(f.Name())
}

func shortName(full string) string {
	name := full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if closureName.MatchString(name) {
		return ""
	}
	return name
}

func value(rv reflect.Value, depth int, seen map[uintptr]bool) string {
	if !rv.IsValid() {
		return "nil"
	}

	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case error:
			if isNilable(rv) && rv.IsNil() {
				return "nil"
			}
			return v.Error()
		case fmt.Stringer:
			if isNilable(rv) && rv.IsNil() {
				return "nil"
			}
			return v.String()
		}
	}

	if depth > maxDepth {
		return "..."
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return value(rv.Elem(), depth, seen)
	case reflect.Pointer:
		if rv.IsNil() {
			return "nil"
		}
		if seen[rv.Pointer()] {
			return "&<cycle>"
		}
		seen[rv.Pointer()] = true
		defer delete(seen, rv.Pointer())
		return "&" + value(rv.Elem(), depth+1, seen)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = value(rv.Index(i), depth+1, seen)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.Map:
		return mapValue(rv, depth, seen)
	case reflect.Struct:
		return structValue(rv, depth, seen)
	case reflect.Func:
		if rv.IsNil() {
			return "nil"
		}
		if name := shortName(funcName(rv)); name != "" {
			return name
		}
		return "func"
	}

	if rv.CanInterface() {
		return fallback.Sprint(rv.Interface())
	}
	return rv.Type().String()
}

func mapValue(rv reflect.Value, depth int, seen map[uintptr]bool) string {
	if rv.Len() == 0 {
		return "{}"
	}

	type entry struct{ key, val string }
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{
			key: value(iter.Key(), depth+1, seen),
			val: value(iter.Value(), depth+1, seen),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key + ": " + e.val
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func structValue(rv reflect.Value, depth int, seen map[uintptr]bool) string {
	t := rv.Type()
	parts := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		parts = append(parts, t.Field(i).Name+": "+
			value(rv.Field(i), depth+1, seen))
	}

	body := "{}"
	if len(parts) > 0 {
		body = "{ " + strings.Join(parts, ", ") + " }"
	}
	return t.Name() + body
}

func funcName(rv reflect.Value) string {
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

func isNilable(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
