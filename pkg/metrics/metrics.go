// Package metrics counts spy invocations and assertion outcomes.
package metrics

// Collector defines the interface for recording test double
// metrics.
type Collector interface {
	// RecordInvocation records one completed invocation of a spy.
	RecordInvocation(spy string, panicked bool)
	// RecordAssertion records an assertion evaluation.
	RecordAssertion(assertion string, passed bool)
}

// NoopCollector is a no-op implementation of Collector used
// when metrics collection is disabled.
type NoopCollector struct{}

func (NoopCollector) RecordInvocation(_ string, _ bool) {}
func (NoopCollector) RecordAssertion(_ string, _ bool)  {}
