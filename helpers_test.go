package bindnorm

// Test helpers shared across this package's test files: small marker
// types and fakes declared directly rather than pulling in a mocking
// library.

import "sync/atomic"

// recordingAllocator implements FixedSizeAllocatorDescriptor and records
// every call it receives, so tests can assert the allocator was told
// about exactly the right set of types.
type recordingAllocator struct {
	allocated         []TypeId
	externallyAllocated []TypeId
}

func (a *recordingAllocator) AddType(t TypeId) {
	a.allocated = append(a.allocated, t)
}

func (a *recordingAllocator) AddExternallyAllocatedType(t TypeId) {
	a.externallyAllocated = append(a.externallyAllocated, t)
}

// namedComponent is a minimal LazyArgsComponent for tests: its identity
// (hash/equality) is entirely determined by name, standing in for an
// owned component object whose hash and equality incorporate its
// argument values.
type namedComponent struct {
	name    string
	funID   TypeId
	entries []BindingEntry
}

var namedComponentFunIDCounter int32

func newNamedComponent(name string, entries ...BindingEntry) *namedComponent {
	// Every call mints a fresh FunTypeId, even for a name used before;
	// it only labels the cycle diagnostic and plays no part in HashCode
	// or Equal.
	id := atomic.AddInt32(&namedComponentFunIDCounter, 1)
	return &namedComponent{
		name:    name,
		funID:   TypeId(1_000_000 + int(id)),
		entries: entries,
	}
}

func (c *namedComponent) HashCode() uint64 {
	var h uint64 = 14695981039346656037 // FNV offset basis
	for _, r := range c.name {
		h ^= uint64(r)
		h *= 1099511628211 // FNV prime
	}
	return h
}

func (c *namedComponent) Equal(other LazyArgsComponent) bool {
	o, ok := other.(*namedComponent)
	return ok && o.name == c.name
}

func (c *namedComponent) FunTypeId() TypeId { return c.funID }

func (c *namedComponent) AddBindings(stack *Stack) {
	for _, e := range c.entries {
		stack.Push(e)
	}
}

func lazyWithArgsEntry(c LazyArgsComponent) BindingEntry {
	return BindingEntry{Kind: LazyComponentWithArgs, Component: c}
}

func lazyNoArgsEntry(fn func(), addBindings func(*Stack)) BindingEntry {
	return BindingEntry{
		Kind:              LazyComponentNoArgs,
		ErasedFunc:        NewErasedFunc(fn),
		AddBindingsNoArgs: addBindings,
	}
}
