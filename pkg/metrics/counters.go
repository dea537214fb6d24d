package metrics

import "sync"

// Counters implements Collector with in-memory counters keyed
// by spy and assertion name. It is safe for concurrent use.
type Counters struct {
	mu          sync.Mutex
	invocations map[string]int
	panics      map[string]int
	passed      map[string]int
	failed      map[string]int
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Invocations map[string]int `json:"invocations"`
	Panics      map[string]int `json:"panics"`
	Passed      map[string]int `json:"passed"`
	Failed      map[string]int `json:"failed"`
}

// NewCounters creates an empty Counters.
func NewCounters() *Counters {
	c := &Counters{}
	c.Reset()
	return c
}

// RecordInvocation counts an invocation of spy and, when it
// panicked, a panic.
func (c *Counters) RecordInvocation(spy string, panicked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invocations[spy]++
	if panicked {
		c.panics[spy]++
	}
}

// RecordAssertion counts an assertion outcome.
func (c *Counters) RecordAssertion(assertion string, passed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if passed {
		c.passed[assertion]++
	} else {
		c.failed[assertion]++
	}
}

// InvocationCount returns the number of invocations of spy.
func (c *Counters) InvocationCount(spy string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invocations[spy]
}

// PanicCount returns the number of invocations of spy that
// panicked.
func (c *Counters) PanicCount(spy string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panics[spy]
}

// AssertionCount returns how often the assertion passed or
// failed.
func (c *Counters) AssertionCount(assertion string, passed bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if passed {
		return c.passed[assertion]
	}
	return c.failed[assertion]
}

// Snapshot copies the current counters.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Invocations: copyCounts(c.invocations),
		Panics:      copyCounts(c.panics),
		Passed:      copyCounts(c.passed),
		Failed:      copyCounts(c.failed),
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invocations = make(map[string]int)
	c.panics = make(map[string]int)
	c.passed = make(map[string]int)
	c.failed = make(map[string]int)
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
