// Package sandbox groups named fakes so that a test can create,
// verify, reset and restore them together.
package sandbox

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"digital.vasic.doubles/pkg/assertion"
	"digital.vasic.doubles/pkg/spy"
)

// Fake is a spy or stub managed by a Sandbox.
type Fake interface {
	spy.Recorder

	// Restore puts back whatever the fake replaced.
	Restore()

	// Reset clears the recorded history (and, for stubs, the
	// configured behavior).
	Reset()
}

// Sandbox is a registry of fakes keyed by name. It is safe for
// concurrent use.
type Sandbox struct {
	mu    sync.RWMutex
	fakes map[string]Fake
	opts  []spy.Option
}

// New creates an empty Sandbox. opts are applied to every fake
// the sandbox creates, before the fake's own options.
func New(opts ...spy.Option) *Sandbox {
	return &Sandbox{
		fakes: make(map[string]Fake),
		opts:  opts,
	}
}

// Use creates a Sandbox whose fakes are restored when t
// finishes.
func Use(t testing.TB, opts ...spy.Option) *Sandbox {
	t.Helper()
	sb := New(opts...)
	t.Cleanup(sb.RestoreAll)
	return sb
}

func (sb *Sandbox) options(extra []spy.Option) []spy.Option {
	out := make([]spy.Option, 0, len(sb.opts)+len(extra))
	out = append(out, sb.opts...)
	return append(out, extra...)
}

// Register adds a fake. Returns an error if a fake with the
// same name is already registered.
func (sb *Sandbox) Register(f Fake) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	name := f.Name()
	if _, exists := sb.fakes[name]; exists {
		return fmt.Errorf("fake already registered: %s", name)
	}

	sb.fakes[name] = f
	return nil
}

// Spy creates and registers an anonymous spy.
func (sb *Sandbox) Spy(name string, opts ...spy.Option) (*spy.Spy, error) {
	s := spy.New(sb.options(append(opts, spy.WithName(name)))...)
	if err := sb.Register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Stub creates and registers an anonymous stub.
func (sb *Sandbox) Stub(name string, opts ...spy.Option) (*spy.Stub, error) {
	st := spy.NewStub(sb.options(append(opts, spy.WithName(name)))...)
	if err := sb.Register(st); err != nil {
		return nil, err
	}
	return st, nil
}

// On spies on a func field of obj. A registration failure
// restores the field.
func (sb *Sandbox) On(obj any, field string, opts ...spy.Option) (*spy.Spy, error) {
	s, err := spy.On(obj, field, sb.options(opts)...)
	if err != nil {
		return nil, err
	}
	if err := sb.registerOrRestore(s); err != nil {
		return nil, err
	}
	return s, nil
}

// StubOn stubs a func field of obj.
func (sb *Sandbox) StubOn(obj any, field string, opts ...spy.Option) (*spy.Stub, error) {
	st, err := spy.StubOn(obj, field, sb.options(opts)...)
	if err != nil {
		return nil, err
	}
	if err := sb.registerOrRestore(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Replace spies on the function variable ptr points to.
func (sb *Sandbox) Replace(ptr any, opts ...spy.Option) (*spy.Spy, error) {
	s, err := spy.Replace(ptr, sb.options(opts)...)
	if err != nil {
		return nil, err
	}
	if err := sb.registerOrRestore(s); err != nil {
		return nil, err
	}
	return s, nil
}

// StubReplace stubs the function variable ptr points to.
func (sb *Sandbox) StubReplace(ptr any, opts ...spy.Option) (*spy.Stub, error) {
	st, err := spy.StubReplace(ptr, sb.options(opts)...)
	if err != nil {
		return nil, err
	}
	if err := sb.registerOrRestore(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (sb *Sandbox) registerOrRestore(f Fake) error {
	if err := sb.Register(f); err != nil {
		f.Restore()
		return err
	}
	return nil
}

// Get retrieves a fake by name.
func (sb *Sandbox) Get(name string) (Fake, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	f, exists := sb.fakes[name]
	if !exists {
		return nil, fmt.Errorf("fake not found: %s", name)
	}
	return f, nil
}

// List returns all registered fakes sorted by name.
func (sb *Sandbox) List() []Fake {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	out := make([]Fake, 0, len(sb.fakes))
	for _, f := range sb.fakes {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Recorders returns the registered fakes as recorders, sorted by
// name, for reporting.
func (sb *Sandbox) Recorders() []spy.Recorder {
	fakes := sb.List()
	out := make([]spy.Recorder, len(fakes))
	for i, f := range fakes {
		out[i] = f
	}
	return out
}

// Targets returns the fakes keyed by name, for use with
// assertion.Engine.EvaluateAll.
func (sb *Sandbox) Targets() map[string]any {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	out := make(map[string]any, len(sb.fakes))
	for name, f := range sb.fakes {
		out[name] = f
	}
	return out
}

// Verify evaluates defs against the registered fakes.
func (sb *Sandbox) Verify(e assertion.Engine, defs []assertion.Definition) []assertion.Result {
	return e.EvaluateAll(defs, sb.Targets())
}

// RestoreAll restores every fake. Fakes stay registered.
func (sb *Sandbox) RestoreAll() {
	for _, f := range sb.List() {
		f.Restore()
	}
}

// ResetAll clears the history of every fake.
func (sb *Sandbox) ResetAll() {
	for _, f := range sb.List() {
		f.Reset()
	}
}

// Clear restores and removes all fakes.
func (sb *Sandbox) Clear() {
	sb.RestoreAll()

	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.fakes = make(map[string]Fake)
}

// Count returns the number of registered fakes.
func (sb *Sandbox) Count() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return len(sb.fakes)
}
