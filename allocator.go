package bindnorm

// FixedSizeAllocatorDescriptor is the external collaborator that reserves
// storage for objects the injector will construct later. Its
// implementation (a fixed-size bump allocator sized once up front) lives
// outside this package; this package only ever calls the two methods
// below: once per directly bound type that needs allocation, and once per
// to-construct multibinding contribution.
type FixedSizeAllocatorDescriptor interface {
	// AddType reserves storage for a TypeId that the injector will
	// allocate and construct on first use.
	AddType(TypeId)

	// AddExternallyAllocatedType reserves bookkeeping for a TypeId whose
	// storage is supplied by the caller rather than allocated here.
	AddExternallyAllocatedType(TypeId)
}

// noopAllocator satisfies FixedSizeAllocatorDescriptor without recording
// anything; it exists so tests that don't care about allocator
// accounting don't need to hand-roll a fake for every case.
type noopAllocator struct{}

func (noopAllocator) AddType(TypeId)                     {}
func (noopAllocator) AddExternallyAllocatedType(TypeId) {}

// NoopAllocator returns a FixedSizeAllocatorDescriptor that discards all
// calls. Useful in tests and in callers that only want the bindings
// vector.
func NoopAllocator() FixedSizeAllocatorDescriptor { return noopAllocator{} }
