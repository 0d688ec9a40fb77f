// Obligatory // comment

/*

Package bindnorm is the binding normalization core of a dependency
injection framework: it takes a raw, tree-shaped stream of BindingEntry
values (produced by a compile-time layer that this package does not
implement) and compiles it into a flat, deduplicated, optimized binding
table ready for object instantiation by an injector.

Pipeline

Normalization runs as three stages, in order:

	1. Expander    - drives a recursive expansion of deferred lazy
	                 sub-components using an explicit work stack,
	                 detects expansion cycles, and deduplicates direct
	                 bindings.
	2. Compressor  - collapses a safe binding pair I -> C into a single
	                 entry for I, when C has no other consumer.
	3. Aggregator  - merges multibinding contributions into ordered
	                 per-type sets.

Call Normalize for the full pipeline, or NormalizeWithoutCompression when
the caller already has a normalized parent component and only needs the
delta contributed by a child component.

	entries := []bindnorm.BindingEntry{
		{TypeId: configType, Kind: bindnorm.NeedsAllocation, Create: bindnorm.NewCreateFunc(newConfig)},
		{TypeId: serverType, Kind: bindnorm.NeedsAllocation, Create: bindnorm.NewCreateFunc(newServer), Deps: bindnorm.DependencyList{configType}},
	}
	bindings, multibindings, undo := bindnorm.MustNormalize(entries, alloc, topFunID, nil)

Fatal errors

Two conditions are programmer errors that the compile-time layer is
expected to have already ruled out: a type bound more than once with
inconsistent bindings, and a cycle among lazy components. Normalize and
NormalizeWithoutCompression report these as a *FatalError so callers who
want to inspect them can; MustNormalize and MustNormalizeWithoutCompression
print the diagnostic and terminate the process instead, which is what a
real injector-construction path is expected to do (see spec §7).

Concurrency

A single call into this package is single-threaded and non-suspending: it
runs to completion before its outputs are observed, and none of its
working state outlives the call. The only piece of long-lived shared
state is the TypeId registry, which is safe to use from multiple
goroutines normalizing independent injectors concurrently.

*/
package bindnorm
