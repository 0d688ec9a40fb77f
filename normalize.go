package bindnorm

import "os"

// Normalize is the full binding-normalization pipeline: expansion,
// compression, and multibinding aggregation. It returns the flat
// bindings vector, the merged multibinding sets, and the undo
// information needed to reverse any applied compression.
//
// entries itself is not modified: the Expander works on a copy of it.
func Normalize(
	entries []BindingEntry,
	alloc FixedSizeAllocatorDescriptor,
	topFunID TypeId,
	exposedTypes []TypeId,
) (bindingsVector []BindingEntry, multibindings map[TypeId]*NormalizedMultibindingSet, undo CompressionUndoMap, err error) {
	candidates := make(CompressedCandidateMap)
	var pairs MultibindingList

	var expander Expander
	bindingMap, err := expander.Expand(
		entries,
		alloc,
		topFunID,
		func(entry BindingEntry) {
			candidates[entry.CType] = compressionCandidate{
				iTypeId:                entry.TypeId,
				createIWithCompression: entry.CreateWithCompress,
			}
		},
		func(contribution, vectorCreator BindingEntry) {
			pairs = append(pairs, MultibindingPair{Contribution: contribution, VectorCreator: vectorCreator})
		},
	)
	if err != nil {
		return nil, nil, nil, err
	}

	var compressor Compressor
	undo, err = compressor.Compress(bindingMap, candidates, pairs, exposedTypes)
	if err != nil {
		return nil, nil, nil, err
	}

	sets := make(map[TypeId]*NormalizedMultibindingSet)
	var aggregator MultibindingAggregator
	aggregator.Aggregate(sets, alloc, pairs)

	result := FlattenBindingMap(bindingMap)
	assertOnlyDirectBindings(result)
	return result, sets, undo, nil
}

// NormalizeWithoutCompression runs the same Expander but skips the
// Compressor entirely, for callers that already have a normalized
// parent component and only need a delta.
func NormalizeWithoutCompression(
	entries []BindingEntry,
	alloc FixedSizeAllocatorDescriptor,
	topFunID TypeId,
) (bindingsVector []BindingEntry, multibindings map[TypeId]*NormalizedMultibindingSet, err error) {
	var pairs MultibindingList

	var expander Expander
	bindingMap, err := expander.Expand(
		entries,
		alloc,
		topFunID,
		func(BindingEntry) {}, // no-op: compression is not performed at all
		func(contribution, vectorCreator BindingEntry) {
			pairs = append(pairs, MultibindingPair{Contribution: contribution, VectorCreator: vectorCreator})
		},
	)
	if err != nil {
		return nil, nil, err
	}

	sets := make(map[TypeId]*NormalizedMultibindingSet)
	var aggregator MultibindingAggregator
	aggregator.Aggregate(sets, alloc, pairs)

	result := FlattenBindingMap(bindingMap)
	assertOnlyDirectBindings(result)
	return result, sets, nil
}

// assertOnlyDirectBindings enforces that every key in the final
// BindingMap identifies a type with exactly one binding whose kind is
// one of the three direct Binding* kinds. A violation here means the
// Expander or Compressor let something else leak into the binding map,
// which is a bug in this package, not caller-triggerable input, hence a
// panic rather than a *FatalError.
func assertOnlyDirectBindings(bindings []BindingEntry) {
	for _, e := range bindings {
		if !e.Kind.isDirectBinding() {
			panic("bindnorm: internal error: non-direct binding kind " + e.Kind.String() + " leaked into the final binding map")
		}
	}
}

// MustNormalize calls Normalize and, on a fatal condition, writes the
// diagnostic to os.Stderr and terminates the process: normalization is
// either fully successful or terminates, there are no recoverable
// errors for a caller to act on. It panics on any other error, since
// none should be reachable from well-formed input.
func MustNormalize(
	entries []BindingEntry,
	alloc FixedSizeAllocatorDescriptor,
	topFunID TypeId,
	exposedTypes []TypeId,
) ([]BindingEntry, map[TypeId]*NormalizedMultibindingSet, CompressionUndoMap) {
	bindingsVector, multibindings, undo, err := Normalize(entries, alloc, topFunID, exposedTypes)
	if err != nil {
		fatal, ok := err.(*FatalError)
		if !ok {
			panic(err)
		}
		terminate(os.Stderr, fatal)
	}
	return bindingsVector, multibindings, undo
}

// MustNormalizeWithoutCompression is the Must* wrapper for
// NormalizeWithoutCompression; see MustNormalize.
func MustNormalizeWithoutCompression(
	entries []BindingEntry,
	alloc FixedSizeAllocatorDescriptor,
	topFunID TypeId,
) ([]BindingEntry, map[TypeId]*NormalizedMultibindingSet) {
	bindingsVector, multibindings, err := NormalizeWithoutCompression(entries, alloc, topFunID)
	if err != nil {
		fatal, ok := err.(*FatalError)
		if !ok {
			panic(err)
		}
		terminate(os.Stderr, fatal)
	}
	return bindingsVector, multibindings
}
