package bindnorm

// MultibindingAggregator merges the (contribution, vector-creator) pairs
// produced by the Expander into a TypeId -> NormalizedMultibindingSet
// map, reserving allocator space for each contribution that needs it.
type MultibindingAggregator struct{}

// Aggregate consumes pairs and merges them into sets, keyed by each
// contribution's TypeId. Contribution order within a type follows
// arrival order in pairs; duplicates are not removed, since multibinding
// sets are conceptually a multiset.
func (MultibindingAggregator) Aggregate(
	sets map[TypeId]*NormalizedMultibindingSet,
	alloc FixedSizeAllocatorDescriptor,
	pairs MultibindingList,
) {
	for _, pair := range pairs {
		contribution := pair.Contribution
		set, found := sets[contribution.TypeId]
		if !found {
			set = &NormalizedMultibindingSet{}
			sets[contribution.TypeId] = set
		}

		// Safe to overwrite unconditionally even if a previous pair
		// already set it: the contract is that every vector-creator
		// registered for the same type is semantically equal.
		set.VectorCreator = pair.VectorCreator.GetVector

		switch contribution.Kind {
		case MultibindingConstructed:
			set.Elements = append(set.Elements, MultibindingElement{
				IsConstructed: true,
				Object:        contribution.Object,
			})

		case MultibindingNeedsAllocation:
			alloc.AddType(contribution.TypeId)
			set.Elements = append(set.Elements, MultibindingElement{
				IsConstructed: false,
				Create:        contribution.Create,
			})

		case MultibindingNeedsNoAllocation:
			alloc.AddExternallyAllocatedType(contribution.TypeId)
			set.Elements = append(set.Elements, MultibindingElement{
				IsConstructed: false,
				Create:        contribution.Create,
			})

		default:
			panic("bindnorm: internal error: unexpected multibinding contribution kind " + contribution.Kind.String())
		}
	}
}
