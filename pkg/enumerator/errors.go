package enumerator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UsageError reports a precondition violated by the caller: accessing
// results before enumeration has run, running Enumerate or DryRun twice,
// a nil reaction generator, an invalid configuration, or a disconnected
// initial complex. Interning a duplicate complex is not a UsageError: the
// registries resolve it to the existing instance without any error.
// UsageError is never swallowed internally; it is always surfaced.
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func usageErrorf(op, format string, args ...any) error {
	return &UsageError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// AlreadyExistsError describes an attempt to intern a canonical form that
// already has an interned instance. Existing holds the interned instance
// the caller should use instead of the one it tried to create. The
// registries in this package do not return it: their Intern methods
// report a duplicate by returning the existing instance with fresh=false.
type AlreadyExistsError struct {
	Existing any
}

func (e *AlreadyExistsError) Error() string {
	return "registry: an equal canonical form is already interned"
}

// PolymerizationOverflow reports that the complex or reaction budget was
// exceeded during enumeration (§4.5.2). When Options.Interruptible is set,
// the driver catches this internally and finishes with a truncated but
// invariant-preserving network; otherwise it propagates to the caller.
type PolymerizationOverflow struct {
	Msg string
}

func (e *PolymerizationOverflow) Error() string {
	return fmt.Sprintf("polymerization overflow: %s", e.Msg)
}

// GeneratorFailure wraps an error returned by an external reaction
// generator. Enumeration is not resumable after a GeneratorFailure; it is
// always propagated to the caller. ReactantID is the reactant's registry
// arena id (see ComplexRegistry.ID), included so a log line or bug report
// can pin the failure to one specific interned complex even when two
// distinct complexes happen to share the same KernelString truncation.
type GeneratorFailure struct {
	Reactant   string
	ReactantID uuid.UUID
	Err        error
}

func (e *GeneratorFailure) Error() string {
	return fmt.Sprintf("reaction generator failed on %q (id %s): %v", e.Reactant, e.ReactantID, e.Err)
}

func (e *GeneratorFailure) Unwrap() error {
	return e.Err
}

// IsUsageError reports whether err (or something it wraps) is a UsageError.
func IsUsageError(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}

// IsPolymerizationOverflow reports whether err (or something it wraps) is
// a PolymerizationOverflow.
func IsPolymerizationOverflow(err error) bool {
	var p *PolymerizationOverflow
	return errors.As(err, &p)
}
