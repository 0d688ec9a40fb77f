package bindnorm

// Expander drives the lazy component expansion, binding deduplication,
// and cycle detection over a single explicit work stack. It is stateless
// between calls; all of its working state lives in the local sets and
// stack created inside Expand.
type Expander struct{}

// HandleCompressedBinding is invoked once per Compressed entry popped
// from the work stack.
type HandleCompressedBinding func(entry BindingEntry)

// HandleMultibinding is invoked once per (contribution, vector-creator)
// pair popped from the work stack, regardless of which of the two was
// pushed first.
type HandleMultibinding func(contribution, vectorCreator BindingEntry)

// Expand consumes entries (and any lazy sub-components they transitively
// reference) and returns the populated BindingMap. alloc receives one
// AddType/AddExternallyAllocatedType call per type that needs
// allocation. topFunID identifies the top-level component this
// expansion was started from and is used only to head the trace if a
// lazy component installation loop is found.
func (Expander) Expand(
	entries []BindingEntry,
	alloc FixedSizeAllocatorDescriptor,
	topFunID TypeId,
	handleCompressed HandleCompressedBinding,
	handleMultibinding HandleMultibinding,
) (BindingMap, error) {
	bindingMap := make(BindingMap)
	stack := NewStack(entries)

	fullyExpandedNoArgs := make(map[ErasedFunc]struct{})
	fullyExpandedWithArgs := newWithArgsSet()
	inProgressNoArgs := make(map[ErasedFunc]struct{})
	inProgressWithArgs := newWithArgsSet()

	for !stack.Empty() {
		top := stack.Top()

		switch top.Kind {

		case ConstructedObject, NeedsAllocation, NeedsNoAllocation:
			stack.Pop()
			if err := insertDirectBinding(bindingMap, alloc, top); err != nil {
				return nil, err
			}

		case Compressed:
			stack.Pop()
			handleCompressed(top)

		case MultibindingConstructed, MultibindingNeedsAllocation, MultibindingNeedsNoAllocation:
			stack.Pop()
			vectorCreator := mustPop(stack, MultibindingVectorCreator)
			handleMultibinding(top, vectorCreator)

		case MultibindingVectorCreator:
			stack.Pop()
			contribution := mustPopContribution(stack)
			handleMultibinding(contribution, top)

		case LazyComponentNoArgs:
			if _, done := fullyExpandedNoArgs[top.ErasedFunc]; done {
				stack.Pop()
				continue
			}
			if _, inProgress := inProgressNoArgs[top.ErasedFunc]; inProgress {
				return nil, lazyComponentInstallationLoop(topFunID, stack.Snapshot(), top)
			}
			inProgressNoArgs[top.ErasedFunc] = struct{}{}
			stack.SetTopKind(EndMarkerNoArgs)
			top.AddBindingsNoArgs(stack)

		case LazyComponentWithArgs:
			if fullyExpandedWithArgs.contains(top.Component) {
				stack.Pop()
				continue
			}
			if inProgressWithArgs.contains(top.Component) {
				return nil, lazyComponentInstallationLoop(topFunID, stack.Snapshot(), top)
			}
			inProgressWithArgs.insert(top.Component)
			stack.SetTopKind(EndMarkerWithArgs)
			top.Component.AddBindings(stack)

		case EndMarkerNoArgs:
			stack.Pop()
			delete(inProgressNoArgs, top.ErasedFunc)
			fullyExpandedNoArgs[top.ErasedFunc] = struct{}{}

		case EndMarkerWithArgs:
			stack.Pop()
			inProgressWithArgs.remove(top.Component)
			fullyExpandedWithArgs.insert(top.Component)

		default:
			panic("bindnorm: internal error: unexpected binding kind on work stack: " + top.Kind.String())
		}
	}

	return bindingMap, nil
}

// insertDirectBinding implements the dedup rule for the three direct
// binding kinds: first writer wins, later writers must be semantically
// identical or normalization fails.
func insertDirectBinding(bindingMap BindingMap, alloc FixedSizeAllocatorDescriptor, entry BindingEntry) error {
	existing, found := bindingMap[entry.TypeId]
	if !found {
		bindingMap[entry.TypeId] = entry
		switch entry.Kind {
		case NeedsAllocation:
			alloc.AddType(entry.TypeId)
		case NeedsNoAllocation:
			alloc.AddExternallyAllocatedType(entry.TypeId)
		}
		return nil
	}
	if !existing.sameAs(entry) {
		return multipleBindingsError(entry.TypeId)
	}
	return nil
}

// mustPop pops the stack top and asserts it has the given kind. Failure
// indicates malformed input from an upstream stage that is supposed to
// guarantee contributions and vector-creators always appear in pairs.
func mustPop(stack *Stack, want BindingKind) BindingEntry {
	if stack.Empty() {
		panic("bindnorm: internal error: expected " + want.String() + " on work stack, found empty stack")
	}
	e := stack.Pop()
	if e.Kind != want {
		panic("bindnorm: internal error: expected " + want.String() + " on work stack, found " + e.Kind.String())
	}
	return e
}

// mustPopContribution pops the stack top and asserts it is one of the
// three multibinding contribution kinds.
func mustPopContribution(stack *Stack) BindingEntry {
	if stack.Empty() {
		panic("bindnorm: internal error: expected a multibinding contribution on work stack, found empty stack")
	}
	e := stack.Pop()
	if !e.Kind.isMultibindingContribution() {
		panic("bindnorm: internal error: expected a multibinding contribution on work stack, found " + e.Kind.String())
	}
	return e
}
