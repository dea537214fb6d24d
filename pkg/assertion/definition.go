// Package assertion provides the assertion engine for spies and
// stubs: a registry of named evaluators sharing one pass/fail
// protocol, with diagnostics describing the recorded calls.
package assertion

// Definition describes a single assertion to evaluate against a
// named target, for table-driven or declarative use.
type Definition struct {
	// Type is the evaluator name (e.g., "calledWith",
	// "callOrder", "threw").
	Type string `json:"type" yaml:"type"`

	// Target is the name of the spy or value to check.
	Target string `json:"target" yaml:"target"`

	// Values holds the assertion arguments. For callOrder they
	// name the further targets in order.
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Message is a human-readable description shown in
	// reports.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	// Type is the assertion that was evaluated.
	Type string `json:"type"`

	// Target is the display name of the spy, or the rendered
	// value for assertions on plain values.
	Target string `json:"target"`

	// Expected is the rendered assertion argument list.
	Expected string `json:"expected,omitempty"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is the failure diagnostic, empty on success.
	Message string `json:"message,omitempty"`

	// Ordinal is the global invocation ordinal at evaluation
	// time.
	Ordinal int64 `json:"ordinal"`
}
