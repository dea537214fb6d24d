package spy

// Recorder is implemented by anything exposing an invocation
// history: spies, stubs and single calls.
type Recorder interface {
	// Name returns the display name used in diagnostics.
	Name() string

	// Calls returns the recorded calls in invocation order.
	Calls() []*Call
}

// History is an ordered list of calls with the queries shared
// by spies, stubs and the assertion engine. The always-queries
// are false for an empty history; the never-queries are true.
type History []*Call

// Count returns the number of calls.
func (h History) Count() int {
	return len(h)
}

// Called reports at least one call.
func (h History) Called() bool {
	return len(h) > 0
}

// CalledWith reports whether any call received args.
func (h History) CalledWith(args ...any) bool {
	return h.some(func(c *Call) bool { return c.CalledWith(args...) })
}

// AlwaysCalledWith reports whether every call received args.
func (h History) AlwaysCalledWith(args ...any) bool {
	return h.every(func(c *Call) bool { return c.CalledWith(args...) })
}

// NeverCalledWith reports whether no call received args.
func (h History) NeverCalledWith(args ...any) bool {
	return !h.CalledWith(args...)
}

// CalledWithExactly reports whether any call received exactly
// args.
func (h History) CalledWithExactly(args ...any) bool {
	return h.some(func(c *Call) bool { return c.CalledWithExactly(args...) })
}

// AlwaysCalledWithExactly reports whether every call received
// exactly args.
func (h History) AlwaysCalledWithExactly(args ...any) bool {
	return h.every(func(c *Call) bool { return c.CalledWithExactly(args...) })
}

// CalledWithMatch reports whether any call matched args.
func (h History) CalledWithMatch(args ...any) bool {
	return h.some(func(c *Call) bool { return c.CalledWithMatch(args...) })
}

// AlwaysCalledWithMatch reports whether every call matched
// args.
func (h History) AlwaysCalledWithMatch(args ...any) bool {
	return h.every(func(c *Call) bool { return c.CalledWithMatch(args...) })
}

// NeverCalledWithMatch reports whether no call matched args.
func (h History) NeverCalledWithMatch(args ...any) bool {
	return !h.CalledWithMatch(args...)
}

// CalledOn reports whether any call had the given receiver.
func (h History) CalledOn(receiver any) bool {
	return h.some(func(c *Call) bool { return c.CalledOn(receiver) })
}

// AlwaysCalledOn reports whether every call had the given
// receiver.
func (h History) AlwaysCalledOn(receiver any) bool {
	return h.every(func(c *Call) bool { return c.CalledOn(receiver) })
}

// CalledWithNew reports whether any call went through
// Construct.
func (h History) CalledWithNew() bool {
	return h.some((*Call).CalledWithNew)
}

// AlwaysCalledWithNew reports whether every call went through
// Construct.
func (h History) AlwaysCalledWithNew() bool {
	return h.every((*Call).CalledWithNew)
}

// Threw reports whether any call panicked, optionally matching
// expected as described on Call.Threw.
func (h History) Threw(expected ...any) bool {
	return h.some(func(c *Call) bool { return c.Threw(expected...) })
}

// AlwaysThrew reports whether every call panicked.
func (h History) AlwaysThrew(expected ...any) bool {
	return h.every(func(c *Call) bool { return c.Threw(expected...) })
}

// Receivers returns the receiver of every call.
func (h History) Receivers() []any {
	out := make([]any, len(h))
	for i, c := range h {
		out[i] = c.Receiver
	}
	return out
}

// Args returns the arguments of every call.
func (h History) Args() [][]any {
	out := make([][]any, len(h))
	for i, c := range h {
		out[i] = c.Args
	}
	return out
}

func (h History) some(pred func(*Call) bool) bool {
	for _, c := range h {
		if pred(c) {
			return true
		}
	}
	return false
}

func (h History) every(pred func(*Call) bool) bool {
	if len(h) == 0 {
		return false
	}
	for _, c := range h {
		if !pred(c) {
			return false
		}
	}
	return true
}
