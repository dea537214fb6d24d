package report

import (
	"digital.vasic.doubles/pkg/format"
	"digital.vasic.doubles/pkg/spy"
)

// SpyEntry is the recorded history of one spy.
type SpyEntry struct {
	Name  string      `json:"name"`
	Calls []CallEntry `json:"calls"`
}

// CallEntry is one rendered invocation.
type CallEntry struct {
	ID          int64  `json:"id"`
	Index       int    `json:"index"`
	Call        string `json:"call"`
	Returns     string `json:"returns,omitempty"`
	Panic       string `json:"panic,omitempty"`
	Panicked    bool   `json:"panicked,omitempty"`
	Constructed bool   `json:"constructed,omitempty"`
	Pending     bool   `json:"pending,omitempty"`
}

// BuildSpyEntries renders the history of each recorder.
func BuildSpyEntries(recorders ...spy.Recorder) []SpyEntry {
	entries := make([]SpyEntry, 0, len(recorders))
	for _, r := range recorders {
		calls := r.Calls()
		entry := SpyEntry{Name: r.Name(), Calls: make([]CallEntry, 0, len(calls))}
		for _, c := range calls {
			entry.Calls = append(entry.Calls, callEntry(c))
		}
		entries = append(entries, entry)
	}
	return entries
}

func callEntry(c *spy.Call) CallEntry {
	e := CallEntry{
		ID:          c.ID,
		Index:       c.Index,
		Call:        c.String(),
		Constructed: c.Constructed,
		Pending:     !c.Done(),
	}
	if v, panicked := c.Panic(); panicked {
		e.Panicked = true
		e.Panic = format.Value(v)
	} else if returns := c.Returns(); len(returns) > 0 {
		e.Returns = format.Values(returns)
	}
	return e
}
