package bindnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// I is bound NeedsNoAllocation and depends only on C; C has no other
// consumer and is not exposed. Compression collapses I -> C into a
// single binding for I, removing C, and records undo info.
func TestCompressor_SimpleCompressionApplied(t *testing.T) {
	i1 := TypeIdForName("I")
	c1 := TypeIdForName("C")

	iCreate := NewCreateFunc(func() int { return 1 })
	cCreate := NewCreateFunc(func() int { return 2 })
	iWithCompress := NewCreateFunc(func() int { return 3 })

	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsNoAllocation, Create: iCreate, Deps: DependencyList{c1}},
		c1: {TypeId: c1, Kind: NeedsAllocation, Create: cCreate},
	}
	candidates := CompressedCandidateMap{
		c1: {iTypeId: i1, createIWithCompression: iWithCompress},
	}

	var compressor Compressor
	undo, err := compressor.Compress(bindingMap, candidates, nil, nil)
	require.NoError(t, err)

	require.Len(t, bindingMap, 1)
	rewritten, ok := bindingMap[i1]
	require.True(t, ok)
	assert.Equal(t, NeedsAllocation, rewritten.Kind)
	assert.True(t, rewritten.Create.SameAs(iWithCompress))
	_, cStillPresent := bindingMap[c1]
	assert.False(t, cStillPresent)

	require.Contains(t, undo, c1)
	assert.Equal(t, i1, undo[c1].ITypeId)
	assert.Equal(t, NeedsNoAllocation, undo[c1].IBinding.Kind)
	assert.Equal(t, NeedsAllocation, undo[c1].CBinding.Kind)
}

// Compression is vetoed when C is itself an exposed type.
func TestCompressor_VetoedByExposedType(t *testing.T) {
	i1 := TypeIdForName("I")
	c1 := TypeIdForName("C")

	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsNoAllocation, Create: NewCreateFunc(func() int { return 1 }), Deps: DependencyList{c1}},
		c1: {TypeId: c1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 2 })},
	}
	candidates := CompressedCandidateMap{
		c1: {iTypeId: i1, createIWithCompression: NewCreateFunc(func() int { return 3 })},
	}

	var compressor Compressor
	undo, err := compressor.Compress(bindingMap, candidates, nil, []TypeId{c1})
	require.NoError(t, err)
	assert.Empty(t, undo)
	require.Len(t, bindingMap, 2)
	assert.Equal(t, NeedsAllocation, bindingMap[c1].Kind)
}

// Compression is vetoed when some other bound type also depends on C.
func TestCompressor_VetoedByForeignConsumer(t *testing.T) {
	i1 := TypeIdForName("I")
	c1 := TypeIdForName("C")
	x1 := TypeIdForName("X")

	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsNoAllocation, Create: NewCreateFunc(func() int { return 1 }), Deps: DependencyList{c1}},
		c1: {TypeId: c1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 2 })},
		x1: {TypeId: x1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 4 }), Deps: DependencyList{c1}},
	}
	candidates := CompressedCandidateMap{
		c1: {iTypeId: i1, createIWithCompression: NewCreateFunc(func() int { return 3 })},
	}

	var compressor Compressor
	undo, err := compressor.Compress(bindingMap, candidates, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, undo)
	require.Len(t, bindingMap, 3)
}

// A candidate whose contribution dependency is used by a to-construct
// multibinding is vetoed, even with no exposed types or foreign
// consumers.
func TestCompressor_VetoedByMultibindingDependency(t *testing.T) {
	i1 := TypeIdForName("I")
	c1 := TypeIdForName("C")
	set1 := TypeIdForName("Set")

	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsNoAllocation, Create: NewCreateFunc(func() int { return 1 }), Deps: DependencyList{c1}},
		c1: {TypeId: c1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 2 })},
	}
	candidates := CompressedCandidateMap{
		c1: {iTypeId: i1, createIWithCompression: NewCreateFunc(func() int { return 3 })},
	}
	multibindings := MultibindingList{
		{
			Contribution: BindingEntry{TypeId: set1, Kind: MultibindingNeedsAllocation, Deps: DependencyList{c1}},
			VectorCreator: BindingEntry{TypeId: set1, Kind: MultibindingVectorCreator},
		},
	}

	var compressor Compressor
	undo, err := compressor.Compress(bindingMap, candidates, multibindings, nil)
	require.NoError(t, err)
	assert.Empty(t, undo)
}

// A multibinding contribution of kind MultibindingConstructed does not
// veto compression of its dependencies, since it never needs to
// construct anything itself.
func TestCompressor_ConstructedMultibindingDoesNotVeto(t *testing.T) {
	i1 := TypeIdForName("I")
	c1 := TypeIdForName("C")
	set1 := TypeIdForName("Set")

	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsNoAllocation, Create: NewCreateFunc(func() int { return 1 }), Deps: DependencyList{c1}},
		c1: {TypeId: c1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 2 })},
	}
	candidates := CompressedCandidateMap{
		c1: {iTypeId: i1, createIWithCompression: NewCreateFunc(func() int { return 3 })},
	}
	multibindings := MultibindingList{
		{
			Contribution: BindingEntry{TypeId: set1, Kind: MultibindingConstructed, Deps: DependencyList{c1}},
		},
	}

	var compressor Compressor
	undo, err := compressor.Compress(bindingMap, candidates, multibindings, nil)
	require.NoError(t, err)
	assert.Contains(t, undo, c1)
}

// If a candidate's I binding is not NeedsNoAllocation, rewrite reports a
// diagnosable error rather than panicking (see the Open Question
// decision in DESIGN.md): Go callers can construct BindingEntry values
// by hand without a compiler enforcing this invariant.
func TestCompressor_INotNeedsNoAllocationIsDiagnosable(t *testing.T) {
	i1 := TypeIdForName("I")
	c1 := TypeIdForName("C")

	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 1 })},
		c1: {TypeId: c1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 2 })},
	}
	candidates := CompressedCandidateMap{
		c1: {iTypeId: i1, createIWithCompression: NewCreateFunc(func() int { return 3 })},
	}

	var compressor Compressor
	_, err := compressor.Compress(bindingMap, candidates, nil, nil)
	require.Error(t, err)
	_, ok := err.(*FatalError)
	assert.True(t, ok)
}

// Boundary: no candidates means no rewriting and an empty (not nil)
// pattern of behavior for undo.
func TestCompressor_NoCandidates(t *testing.T) {
	i1 := TypeIdForName("I")
	bindingMap := BindingMap{
		i1: {TypeId: i1, Kind: NeedsAllocation, Create: NewCreateFunc(func() int { return 1 })},
	}
	var compressor Compressor
	undo, err := compressor.Compress(bindingMap, CompressedCandidateMap{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, undo)
	assert.Len(t, bindingMap, 1)
}

func TestFlattenBindingMap_AndSort(t *testing.T) {
	t1 := TypeIdForName("Z")
	t2 := TypeIdForName("A")
	bindingMap := BindingMap{
		t1: {TypeId: t1, Kind: NeedsAllocation},
		t2: {TypeId: t2, Kind: NeedsAllocation},
	}
	entries := FlattenBindingMap(bindingMap)
	require.Len(t, entries, 2)
	SortBindingEntries(entries)
	assert.True(t, entries[0].TypeId.Less(entries[1].TypeId) || entries[0].TypeId == entries[1].TypeId)
}
