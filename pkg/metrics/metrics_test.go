package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounters_RecordInvocation(t *testing.T) {
	c := NewCounters()
	c.RecordInvocation("fetch", false)
	c.RecordInvocation("fetch", true)
	c.RecordInvocation("save", false)

	assert.Equal(t, 2, c.InvocationCount("fetch"))
	assert.Equal(t, 1, c.PanicCount("fetch"))
	assert.Equal(t, 1, c.InvocationCount("save"))
	assert.Equal(t, 0, c.PanicCount("save"))
	assert.Equal(t, 0, c.InvocationCount("missing"))
}

func TestCounters_RecordAssertion(t *testing.T) {
	c := NewCounters()
	c.RecordAssertion("called", true)
	c.RecordAssertion("called", false)
	c.RecordAssertion("called", true)

	assert.Equal(t, 2, c.AssertionCount("called", true))
	assert.Equal(t, 1, c.AssertionCount("called", false))
}

func TestCounters_SnapshotIsCopy(t *testing.T) {
	c := NewCounters()
	c.RecordInvocation("fetch", false)

	snap := c.Snapshot()
	snap.Invocations["fetch"] = 99

	assert.Equal(t, 1, c.InvocationCount("fetch"))
	assert.Equal(t, map[string]int{"fetch": 1}, c.Snapshot().Invocations)
}

func TestCounters_Reset(t *testing.T) {
	c := NewCounters()
	c.RecordInvocation("fetch", true)
	c.RecordAssertion("threw", true)
	c.Reset()

	snap := c.Snapshot()
	assert.Empty(t, snap.Invocations)
	assert.Empty(t, snap.Panics)
	assert.Empty(t, snap.Passed)
}

func TestCounters_Concurrent(t *testing.T) {
	c := NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordInvocation("fetch", false)
			c.RecordAssertion("called", true)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.InvocationCount("fetch"))
	assert.Equal(t, 50, c.AssertionCount("called", true))
}

func TestNoopCollector(t *testing.T) {
	var c Collector = NoopCollector{}
	assert.NotPanics(t, func() {
		c.RecordInvocation("fetch", true)
		c.RecordAssertion("called", false)
	})
}
