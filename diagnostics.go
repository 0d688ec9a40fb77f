package bindnorm

import (
	"fmt"
	"os"
	"strings"
)

// FatalKind distinguishes the programmer-error conditions that
// normalization treats as unconditionally fatal rather than recoverable.
type FatalKind int

const (
	// MultipleInconsistentBindings fires when two BindingEntries for the
	// same TypeId disagree on kind or create/object identity. The
	// Compressor also reports this kind when a compression candidate's I
	// binding is not NeedsNoAllocation.
	MultipleInconsistentBindings FatalKind = iota

	// LazyComponentInstallationLoop fires when expanding a lazy
	// component that is already in progress.
	LazyComponentInstallationLoop
)

func (k FatalKind) String() string {
	switch k {
	case MultipleInconsistentBindings:
		return "multiple inconsistent bindings"
	case LazyComponentInstallationLoop:
		return "lazy component installation loop"
	default:
		return "unknown fatal condition"
	}
}

// FatalError is the error value produced by the conditions this package
// treats as programmer errors. It is a normal Go error so that
// Normalize/NormalizeWithoutCompression stay testable; MustNormalize and
// MustNormalizeWithoutCompression are what actually terminate the
// process, layering the Must* convention over an error-returning core.
type FatalError struct {
	Kind    FatalKind
	Type    TypeId
	Message string
}

func (e *FatalError) Error() string {
	return e.Message
}

// multipleBindingsError builds the diagnostic for a type bound more than
// once with inconsistent bindings.
func multipleBindingsError(t TypeId) *FatalError {
	msg := fmt.Sprintf(
		"the type %s was provided more than once, with different bindings.\n"+
			"This was not caught earlier because at least one of the involved components bound this type but didn't expose it in its signature.\n"+
			"If the source of the problem is unclear, try exposing this type in all the component signatures where it's bound; if no component hides it this can't happen.",
		t)
	return &FatalError{Kind: MultipleInconsistentBindings, Type: t, Message: msg}
}

// lazyComponentInstallationLoop builds the cycle diagnostic, walking the
// stack from bottom to top and annotating the position where the
// duplicate component was first pushed. The trace opens with the
// top-level component the expansion was started from, then lists every
// component identity encountered between and including the loop's
// start, marking the start with "the loop starts here".
func lazyComponentInstallationLoop(topFunID TypeId, stackSnapshot []BindingEntry, dup BindingEntry) *FatalError {
	var lines []string
	lines = append(lines, "found a loop while expanding lazy components:")
	lines = append(lines, "component installation trace (from top-level component "+topFunID.String()+"):")
	for _, e := range stackSnapshot {
		switch e.Kind {
		case EndMarkerWithArgs:
			line := e.Component.FunTypeId().String()
			if dup.Kind == LazyComponentWithArgs && dup.Component != nil && e.Component.Equal(dup.Component) {
				lines = append(lines, "<-- the loop starts here")
			}
			lines = append(lines, line)
		case EndMarkerNoArgs:
			if dup.Kind == LazyComponentNoArgs && e.ErasedFunc == dup.ErasedFunc {
				lines = append(lines, "<-- the loop starts here")
			}
			lines = append(lines, e.ErasedFunc.String())
		}
	}
	switch dup.Kind {
	case LazyComponentWithArgs:
		lines = append(lines, dup.Component.FunTypeId().String())
	case LazyComponentNoArgs:
		lines = append(lines, dup.ErasedFunc.String())
	}
	msg := strings.Join(lines, "\n")
	typeID := TypeId(0)
	if dup.Kind == LazyComponentWithArgs && dup.Component != nil {
		typeID = dup.Component.FunTypeId()
	}
	return &FatalError{Kind: LazyComponentInstallationLoop, Type: typeID, Message: msg}
}

// terminate writes a FatalError's diagnostic to the given stream and
// exits the process with status 1. This is the only place in the
// package that performs I/O or calls os.Exit.
func terminate(w *os.File, err *FatalError) {
	fmt.Fprintln(w, "bindnorm: fatal:", err.Kind)
	fmt.Fprintln(w, err.Message)
	os.Exit(1)
}
