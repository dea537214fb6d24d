package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPass(t *testing.T) {
	e := NewEngine()
	fetch := named("fetch")
	fetch.Invoke("/a")
	targets := map[string]any{"fetch": fetch}

	r := AllPass(e, []Definition{
		{Type: "calledOnce", Target: "fetch"},
		{Type: "calledWith", Target: "fetch", Values: []any{"/a"}},
	}, targets)
	assert.True(t, r.Passed)
	assert.Equal(t, "all 2 assertions passed", r.Message)

	r = AllPass(e, []Definition{
		{Type: "calledOnce", Target: "fetch"},
		{Type: "calledWith", Target: "fetch", Values: []any{"/b"}},
	}, targets)
	assert.False(t, r.Passed)
	assert.Equal(t,
		"assertion 'calledWith' on target 'fetch' failed: "+
			"expected fetch to be called with arguments /b\n    fetch(/a)",
		r.Message)
}

func TestAnyPass(t *testing.T) {
	e := NewEngine()
	fetch := named("fetch")
	targets := map[string]any{"fetch": fetch}

	r := AnyPass(e, []Definition{
		{Type: "called", Target: "fetch"},
		{Type: "notCalled", Target: "fetch"},
	}, targets)
	assert.True(t, r.Passed)
	assert.Equal(t, "assertion 'notCalled' on target 'fetch' passed", r.Message)

	r = AnyPass(e, []Definition{{Type: "called", Target: "fetch"}}, targets)
	assert.False(t, r.Passed)
	assert.Equal(t, "none of 1 assertions passed", r.Message)
}

func TestCompositeEvaluators(t *testing.T) {
	e := NewEngine()
	o := observe(t, e)

	require.NoError(t, e.Register("usedOnceWithPath", CompositeAllPass(e, []Definition{
		{Type: "calledOnce"},
		{Type: "calledWith", Values: []any{"/a"}},
	})))
	require.NoError(t, e.Register("touched", CompositeAnyPass(e, []Definition{
		{Type: "called"},
		{Type: "threw"},
	})))

	fetch := named("fetch")
	assert.False(t, e.Assert("touched", fetch).Passed)

	fetch.Invoke("/a")
	assert.True(t, e.Assert("usedOnceWithPath", fetch).Passed)
	assert.True(t, e.Assert("touched", fetch).Passed)

	fetch.Invoke("/a")
	r := e.Assert("usedOnceWithPath", fetch)
	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "expected fetch to be called once but was called twice")

	assert.Equal(t, []string{"usedOnceWithPath", "touched"}, o.passes)
}
