package assertion

import (
	"unicode"
	"unicode/utf8"

	"digital.vasic.doubles/pkg/failure"
)

// AssertFunc is an assertion bound to an engine.
type AssertFunc func(target any, args ...any) bool

// ExposeOptions controls which names Expose writes. The zero
// value writes bare names together with "fail" and
// "failException".
type ExposeOptions struct {
	// Prefix is prepended to each capitalized assertion name.
	// An empty prefix writes the bare names.
	Prefix string `yaml:"prefix"`

	// ExcludeFail leaves out the "fail" handler and the
	// "failException" name.
	ExcludeFail bool `yaml:"exclude_fail"`
}

// DefaultExposeOptions returns the "assert" prefix with fail
// included.
func DefaultExposeOptions() ExposeOptions {
	return ExposeOptions{Prefix: "assert"}
}

// ExposeOption adjusts the options of a single Expose call.
type ExposeOption func(*ExposeOptions)

// WithPrefix sets the key prefix. "" selects bare names.
func WithPrefix(prefix string) ExposeOption {
	return func(o *ExposeOptions) {
		o.Prefix = prefix
	}
}

// WithoutFail leaves "fail" and "failException" out.
func WithoutFail() ExposeOption {
	return func(o *ExposeOptions) {
		o.ExcludeFail = true
	}
}

// WithExposeOptions replaces every option, typically with the
// ones loaded from configuration.
func WithExposeOptions(opts ExposeOptions) ExposeOption {
	return func(o *ExposeOptions) {
		*o = opts
	}
}

// Expose copies every registered assertion of Default into
// target.
func Expose(target map[string]any, opts ...ExposeOption) error {
	return Default.Expose(target, opts...)
}

// Expose copies every registered assertion into target as an
// AssertFunc bound to e, keyed by prefix plus the capitalized
// name (e.g. "assertCalledOnce"), or the bare name when the
// prefix is empty. Without options the prefix is "assert" and
// "fail" and "failException" are written too.
func (e *DefaultEngine) Expose(target map[string]any, opts ...ExposeOption) error {
	if target == nil {
		return failure.New(failure.TypeError, "expose target is nil")
	}

	o := DefaultExposeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	for _, name := range e.Names() {
		key := name
		if o.Prefix != "" {
			key = o.Prefix + capitalize(name)
		}
		target[key] = e.bind(name)
	}

	if !o.ExcludeFail {
		target["fail"] = e.Fail
		target["failException"] = e.FailException()
	}
	return nil
}

func (e *DefaultEngine) bind(name string) AssertFunc {
	return func(target any, args ...any) bool {
		return e.Assert(name, target, args...).Passed
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

