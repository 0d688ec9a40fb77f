package bindnorm

import "reflect"

// BindingKind tags the variant carried by a BindingEntry. The zero value
// is intentionally not a valid kind so that a zero-valued BindingEntry is
// recognizable as "not yet set".
//
//go:generate stringer -type=BindingKind -linecomment -output bindingkind_string.go
type BindingKind int

const (
	unsetBindingKind BindingKind = iota // unset

	// ConstructedObject is a direct binding to a pre-built instance.
	ConstructedObject // constructed-object

	// NeedsAllocation is an object that must be allocated and constructed
	// on first use.
	NeedsAllocation // needs-allocation

	// NeedsNoAllocation is an object that will be placed into storage the
	// caller already owns.
	NeedsNoAllocation // needs-no-allocation

	// Compressed is a candidate binding I -> C, proposed for the
	// binding-compression optimization.
	Compressed // compressed

	// MultibindingConstructed contributes a pre-built instance to a
	// multibinding set.
	MultibindingConstructed // multibinding-constructed-object

	// MultibindingNeedsAllocation contributes an object to a multibinding
	// set that must be allocated.
	MultibindingNeedsAllocation // multibinding-needs-allocation

	// MultibindingNeedsNoAllocation contributes an object to a
	// multibinding set that will be placed in externally provided
	// storage.
	MultibindingNeedsNoAllocation // multibinding-needs-no-allocation

	// MultibindingVectorCreator describes how to materialize the
	// aggregated vector for a multibinding type.
	MultibindingVectorCreator // multibinding-vector-creator

	// LazyComponentNoArgs is a deferred sub-component identified only by
	// a function identity.
	LazyComponentNoArgs // lazy-component-no-args

	// LazyComponentWithArgs is a deferred sub-component parameterized by
	// arguments captured in an owned component object.
	LazyComponentWithArgs // lazy-component-with-args

	// EndMarkerNoArgs is the sentinel pushed in place of a
	// LazyComponentNoArgs entry once its expansion has begun.
	EndMarkerNoArgs // end-marker-no-args

	// EndMarkerWithArgs is the sentinel pushed in place of a
	// LazyComponentWithArgs entry once its expansion has begun.
	EndMarkerWithArgs // end-marker-with-args
)

// DependencyList is an ordered sequence of TypeIds a binding depends on
// (its constructor arguments / injection points).
type DependencyList []TypeId

// CreateFunc is an opaque function-identity wrapper. Two CreateFuncs are
// considered the same create function iff their underlying func values
// share an entry point; Go func values are not comparable with ==, so
// identity is compared via reflect instead of by deep equality of the
// function value.
type CreateFunc struct {
	fn interface{}
}

// NewCreateFunc wraps a function value as a CreateFunc. fn must be a
// non-nil function.
func NewCreateFunc(fn interface{}) CreateFunc {
	if fn == nil {
		panic("bindnorm: internal error: CreateFunc created from a nil function")
	}
	return CreateFunc{fn: fn}
}

// Func returns the wrapped function value.
func (c CreateFunc) Func() interface{} { return c.fn }

// SameAs reports whether two CreateFuncs refer to the same underlying
// function.
func (c CreateFunc) SameAs(other CreateFunc) bool {
	if c.fn == nil || other.fn == nil {
		return c.fn == nil && other.fn == nil
	}
	cv := reflect.ValueOf(c.fn)
	ov := reflect.ValueOf(other.fn)
	if cv.Kind() != reflect.Func || ov.Kind() != reflect.Func {
		return c.fn == other.fn
	}
	return cv.Pointer() == ov.Pointer()
}

// BindingEntry is the tagged variant that flows through the
// normalization pipeline. Only the fields relevant to Kind are
// meaningful for any given entry.
type BindingEntry struct {
	TypeId TypeId
	Kind   BindingKind

	// ConstructedObject payload.
	Object interface{}

	// NeedsAllocation / NeedsNoAllocation / MultibindingNeedsAllocation /
	// MultibindingNeedsNoAllocation payload.
	Create CreateFunc
	Deps   DependencyList

	// Compressed payload: binding I -> C where I = TypeId, C = CType.
	CType              TypeId
	CreateWithCompress CreateFunc

	// MultibindingVectorCreator payload.
	GetVector CreateFunc

	// LazyComponentNoArgs payload.
	ErasedFunc ErasedFunc
	AddBindingsNoArgs func(*Stack)

	// LazyComponentWithArgs / EndMarkerWithArgs payload.
	Component LazyArgsComponent
}

// sameAs reports whether two entries for the same TypeId are
// semantically identical: they are permitted to coexist only if they
// agree on kind and, per kind, on the identifying payload.
func (e BindingEntry) sameAs(other BindingEntry) bool {
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case ConstructedObject:
		return e.Object == other.Object
	case NeedsAllocation, NeedsNoAllocation:
		return e.Create.SameAs(other.Create)
	default:
		// Only the three direct binding kinds are ever compared this
		// way; anything else reaching here is an internal misuse.
		panic("bindnorm: internal error: sameAs called on non-direct-binding kind " + e.Kind.String())
	}
}

// isDirectBinding reports whether the entry is one of the three kinds
// that may occupy a slot in a BindingMap.
func (k BindingKind) isDirectBinding() bool {
	switch k {
	case ConstructedObject, NeedsAllocation, NeedsNoAllocation:
		return true
	default:
		return false
	}
}

func (k BindingKind) isMultibindingContribution() bool {
	switch k {
	case MultibindingConstructed, MultibindingNeedsAllocation, MultibindingNeedsNoAllocation:
		return true
	default:
		return false
	}
}

// BindingMap maps a TypeId to its unique binding.
type BindingMap map[TypeId]BindingEntry

// compressionCandidate is the payload of CompressedCandidateMap: the I
// side of a candidate compression, plus the create function to use for
// the rewritten I binding.
type compressionCandidate struct {
	iTypeId               TypeId
	createIWithCompression CreateFunc
}

// CompressedCandidateMap maps C's TypeId to the information needed to
// (maybe) collapse I -> C into a single binding for I.
type CompressedCandidateMap map[TypeId]compressionCandidate

// MultibindingPair is a (contribution, vector-creator) pair as produced
// by the Expander's handleMultibinding callback.
type MultibindingPair struct {
	Contribution   BindingEntry
	VectorCreator  BindingEntry
}

// MultibindingList is an ordered sequence of multibinding pairs.
type MultibindingList []MultibindingPair

// MultibindingElement is one contribution to a multibinding set, already
// classified as constructed-or-not.
type MultibindingElement struct {
	IsConstructed bool
	Object        interface{} // valid iff IsConstructed
	Create        CreateFunc  // valid iff !IsConstructed
}

// NormalizedMultibindingSet is the fully merged representation of all
// contributions to a single multibinding type.
type NormalizedMultibindingSet struct {
	VectorCreator CreateFunc
	Elements      []MultibindingElement
}

// CompressionUndoInfo carries what's needed to reverse a single
// compression of I -> C.
type CompressionUndoInfo struct {
	ITypeId  TypeId
	IBinding BindingEntry // original I payload, before compression
	CBinding BindingEntry // original C payload
}

// CompressionUndoMap maps a compressed C's TypeId to its undo
// information.
type CompressionUndoMap map[TypeId]CompressionUndoInfo
