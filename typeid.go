package bindnorm

// TypeId is an opaque handle uniquely identifying a type known to the
// binding normalizer. It is small, comparable, and hashable so it can be
// used directly as a map key everywhere in this package; the descriptive
// metadata needed to render a human-readable name lives in a package-level
// registry rather than on the handle itself.

import (
	"reflect"
	"sort"
	"sync"

	"github.com/muir/reflectutils"
)

// TypeId identifies a type. The zero value is not a valid TypeId; use
// TypeIdOf or TypeIdForName to obtain one.
type TypeId int

var (
	typeIdLock  sync.Mutex
	typeCounter int
	typeForward = make(map[reflect.Type]TypeId)
	typeReverse = make(map[TypeId]reflect.Type)
	// nameOnly holds display names for TypeIds minted without a backing
	// reflect.Type (TypeIdForName), such as identifiers used only in tests.
	nameOnly = make(map[TypeId]string)
)

// TypeIdOf returns the TypeId for a reflect.Type, minting a new one on
// first use. Calling it twice with the same reflect.Type always returns
// the same TypeId.
func TypeIdOf(t reflect.Type) TypeId {
	typeIdLock.Lock()
	defer typeIdLock.Unlock()
	if id, found := typeForward[t]; found {
		return id
	}
	typeCounter++
	id := TypeId(typeCounter)
	typeForward[t] = id
	typeReverse[id] = t
	return id
}

// TypeIdForName mints a fresh TypeId that has no backing reflect.Type,
// identified only by a display name. This is a convenience for tests and
// for callers (such as this package's own test suite) that need distinct
// type identities without declaring distinct Go types for each one.
func TypeIdForName(name string) TypeId {
	typeIdLock.Lock()
	defer typeIdLock.Unlock()
	typeCounter++
	id := TypeId(typeCounter)
	nameOnly[id] = name
	return id
}

// Type returns the reflect.Type backing this TypeId, or nil if it was
// minted with TypeIdForName.
func (id TypeId) Type() reflect.Type {
	typeIdLock.Lock()
	defer typeIdLock.Unlock()
	return typeReverse[id]
}

// String renders a human-readable name for the TypeId, sufficient for
// diagnostics. It never mutates the registry.
func (id TypeId) String() string {
	typeIdLock.Lock()
	t, hasType := typeReverse[id]
	n, hasName := nameOnly[id]
	typeIdLock.Unlock()
	switch {
	case hasType:
		return reflectutils.TypeName(t)
	case hasName:
		return n
	default:
		return "<unknown type>"
	}
}

// Less provides a total order over TypeId; it is used only to make test
// output and any place that needs a deterministic display order
// reproducible, never by the normalization algorithms themselves (their
// outputs are order-independent by construction).
func (id TypeId) Less(other TypeId) bool {
	return id < other
}

// SortTypeIds sorts a slice of TypeId in place using the total order
// above. Handy for producing deterministic test comparisons of maps
// whose natural iteration order is unspecified.
func SortTypeIds(ids []TypeId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
