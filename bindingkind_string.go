package bindnorm

// Hand-written String method returning the -linecomment names declared
// on entry.go's BindingKind const block, as stringer -type=BindingKind
// -linecomment would. Keep it in sync when that const block changes.

import "strconv"

func (k BindingKind) String() string {
	switch k {
	case unsetBindingKind:
		return "unset"
	case ConstructedObject:
		return "constructed-object"
	case NeedsAllocation:
		return "needs-allocation"
	case NeedsNoAllocation:
		return "needs-no-allocation"
	case Compressed:
		return "compressed"
	case MultibindingConstructed:
		return "multibinding-constructed-object"
	case MultibindingNeedsAllocation:
		return "multibinding-needs-allocation"
	case MultibindingNeedsNoAllocation:
		return "multibinding-needs-no-allocation"
	case MultibindingVectorCreator:
		return "multibinding-vector-creator"
	case LazyComponentNoArgs:
		return "lazy-component-no-args"
	case LazyComponentWithArgs:
		return "lazy-component-with-args"
	case EndMarkerNoArgs:
		return "end-marker-no-args"
	case EndMarkerWithArgs:
		return "end-marker-with-args"
	default:
		return "BindingKind(" + strconv.Itoa(int(k)) + ")"
	}
}
