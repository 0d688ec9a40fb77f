package bindnorm

import "reflect"

// ErasedFunc is an opaque, comparable identity for a plain function value,
// used as the dedup/cycle-detection key for LazyComponentNoArgs entries.
// A bare interface{} holding a func panics on ==, so this wraps the
// function's entry-point pointer in a struct that can be used directly
// as a map key.
type ErasedFunc struct {
	ptr uintptr
	typ reflect.Type
}

// NewErasedFunc captures the identity of a function value. fn must be a
// non-nil function.
func NewErasedFunc(fn interface{}) ErasedFunc {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic("bindnorm: internal error: NewErasedFunc requires a non-nil function")
	}
	return ErasedFunc{ptr: v.Pointer(), typ: v.Type()}
}

func (e ErasedFunc) String() string {
	if e.typ == nil {
		return "<erased func>"
	}
	return e.typ.String()
}

// LazyArgsComponent is the collaborator interface for a deferred
// sub-component parameterized by arguments. Implementations own their
// argument values and must incorporate them into HashCode and Equal.
type LazyArgsComponent interface {
	// HashCode returns a hash incorporating the component's function
	// identity and its captured arguments.
	HashCode() uint64

	// Equal reports structural equality with another LazyArgsComponent:
	// same underlying function and same argument values.
	Equal(other LazyArgsComponent) bool

	// FunTypeId identifies the component's underlying function,
	// independent of the arguments bound to it. Used only to label the
	// cycle diagnostic.
	FunTypeId() TypeId

	// AddBindings pushes this component's own BindingEntries onto the
	// supplied work stack. Called exactly once, when the component is
	// first expanded.
	AddBindings(stack *Stack)
}

// withArgsSet buckets LazyArgsComponent values by hash so the
// dedup/in-progress sets don't need to do an O(n) Equal scan against
// every previously seen component; within a bucket, Equal breaks ties.
type withArgsSet struct {
	buckets map[uint64][]LazyArgsComponent
}

func newWithArgsSet() *withArgsSet {
	return &withArgsSet{buckets: make(map[uint64][]LazyArgsComponent)}
}

func (s *withArgsSet) contains(c LazyArgsComponent) bool {
	for _, existing := range s.buckets[c.HashCode()] {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}

// insert adds c if not already present, returning whether it was newly
// inserted (false means it was already a member).
func (s *withArgsSet) insert(c LazyArgsComponent) bool {
	h := c.HashCode()
	for _, existing := range s.buckets[h] {
		if existing.Equal(c) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], c)
	return true
}

func (s *withArgsSet) remove(c LazyArgsComponent) {
	h := c.HashCode()
	bucket := s.buckets[h]
	for i, existing := range bucket {
		if existing.Equal(c) {
			s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}
