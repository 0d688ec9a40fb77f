package bindnorm

// Compressor decides which candidate I -> C compressions are safe given
// the Expander's outputs plus the list of exposed types, applies them in
// place, and records undo information for each collapse.
//
// The work is kept as three separate veto passes plus a rewrite pass so
// each veto's rationale stays a single, independently readable function.
type Compressor struct{}

// Compress mutates bindingMap in place, removing every C that survives
// compression and rewriting the corresponding I in place to construct C
// directly. It returns the undo information needed to reverse each
// collapse.
func (Compressor) Compress(
	bindingMap BindingMap,
	candidates CompressedCandidateMap,
	multibindings MultibindingList,
	exposedTypes []TypeId,
) (CompressionUndoMap, error) {
	pruneMultibindingDeps(candidates, multibindings)
	pruneExposed(candidates, exposedTypes)
	pruneForeignConsumers(candidates, bindingMap)

	// Chains of compressible bindings (I->C->X) cannot exist: the C side
	// of any candidate is always bound via constructor or provider (never
	// ConstructedObject), so no further pruning for transitive
	// compression is needed here. rewrite below checks that assumption
	// and panics with an internal error if it is violated.
	return rewrite(bindingMap, candidates)
}

// pruneMultibindingDeps removes every candidate C that is a dependency of
// a to-construct multibinding contribution: such a C cannot be collapsed
// into its I because the multibinding needs to allocate/construct C on
// its own account.
func pruneMultibindingDeps(candidates CompressedCandidateMap, multibindings MultibindingList) {
	for _, pair := range multibindings {
		if pair.Contribution.Kind == MultibindingConstructed {
			continue
		}
		for _, dep := range pair.Contribution.Deps {
			delete(candidates, dep)
		}
	}
}

// pruneExposed removes every candidate C that is itself an exposed type:
// exposed types must remain first-class bindings so external code can
// observe them.
func pruneExposed(candidates CompressedCandidateMap, exposedTypes []TypeId) {
	for _, t := range exposedTypes {
		delete(candidates, t)
	}
}

// pruneForeignConsumers removes every candidate C that some bound type X
// (other than the candidate's own I) depends on: if C has a consumer
// besides I, C cannot be inlined away, because that other consumer still
// needs to look it up as C.
func pruneForeignConsumers(candidates CompressedCandidateMap, bindingMap BindingMap) {
	for x, binding := range bindingMap {
		if binding.Kind == ConstructedObject {
			continue
		}
		for _, c := range binding.Deps {
			candidate, isCandidate := candidates[c]
			if isCandidate && candidate.iTypeId != x {
				delete(candidates, c)
			}
		}
	}
}

// rewrite performs the actual I -> C collapse for every candidate that
// survived pruning, mutating bindingMap in place.
func rewrite(bindingMap BindingMap, candidates CompressedCandidateMap) (CompressionUndoMap, error) {
	undo := make(CompressionUndoMap, len(candidates))

	for cID, candidate := range candidates {
		iID := candidate.iTypeId

		iBinding, iFound := bindingMap[iID]
		cBinding, cFound := bindingMap[cID]
		if !iFound || !cFound {
			panic("bindnorm: internal error: compression candidate references a type absent from the binding map")
		}
		if iBinding.Kind != NeedsNoAllocation {
			return nil, &FatalError{
				Kind: MultipleInconsistentBindings,
				Type: iID,
				Message: "compression candidate for " + iID.String() +
					" -> " + cID.String() + " has an I binding that is not needs-no-allocation; " +
					"this violates the compile-time guarantee that a compressible I is always bound via " +
					"NeedsNoAllocation, so the candidate is rejected rather than applied",
			}
		}
		if cBinding.Kind != NeedsAllocation && cBinding.Kind != NeedsNoAllocation {
			panic("bindnorm: internal error: compression candidate's C binding has unexpected kind " + cBinding.Kind.String())
		}

		undo[cID] = CompressionUndoInfo{
			ITypeId:  iID,
			IBinding: iBinding,
			CBinding: cBinding,
		}

		rewritten := iBinding
		rewritten.Kind = cBinding.Kind
		rewritten.Create = candidate.createIWithCompression
		rewritten.Deps = cBinding.Deps
		bindingMap[iID] = rewritten

		delete(bindingMap, cID)
	}

	return undo, nil
}

// FlattenBindingMap emits the values of a BindingMap as a slice, in Go's
// map iteration order, which is unspecified and can differ between calls.
// Callers wanting a cross-run/cross-platform-comparable order should
// sort the result by TypeId themselves (see SortBindingEntries).
func FlattenBindingMap(bindingMap BindingMap) []BindingEntry {
	out := make([]BindingEntry, 0, len(bindingMap))
	for _, entry := range bindingMap {
		out = append(out, entry)
	}
	return out
}

// SortBindingEntries sorts a slice of BindingEntry by TypeId in place,
// for deterministic test comparisons; not used by the normalization
// pipeline itself.
func SortBindingEntries(entries []BindingEntry) {
	ids := make([]TypeId, len(entries))
	byID := make(map[TypeId]BindingEntry, len(entries))
	for i, e := range entries {
		ids[i] = e.TypeId
		byID[e.TypeId] = e
	}
	SortTypeIds(ids)
	for i, id := range ids {
		entries[i] = byID[id]
	}
}
