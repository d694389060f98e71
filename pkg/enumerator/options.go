package enumerator

// Options collects the settings accepted by an Enumerator before
// Enumerate() or DryRun() is called (§6). Options has documented
// zero-value defaults; callers construct it with DefaultOptions() and
// then override only the fields they care about, matching the teacher's
// DynamicConfig zero-value-defaults pattern rather than a functional-options
// API (this is a library, not a CLI — flag parsing and config-file
// loading remain out of scope per spec §1).
type Options struct {
	// MaxComplexSize caps product complex strand count (§6, default 6).
	// Zero means "use the default"; negative disables the cap.
	MaxComplexSize int
	// MaxComplexCount caps the total number of complexes (§6, default
	// max(200, len(initial))). Zero means "use the default computed from
	// the initial complex count"; a value <= 0 after that default
	// computation is treated as unbounded (§8 boundary case).
	MaxComplexCount int
	// MaxReactionCount caps the total number of reactions (§6, default
	// max(1000, len(initial_reactions))).
	MaxReactionCount int

	// MaxHelix, RejectRemote, ReleaseCutoff11/1N, DGBp configure the
	// reaction generators (§6); the enumerator passes them through
	// verbatim via GeneratorOptions.
	MaxHelix       bool
	RejectRemote   bool
	ReleaseCutoff11 int
	ReleaseCutoff1N int
	DGBp            float64

	// KSlow / KFast are the unimolecular rate classification thresholds
	// (§4.3). Defaults to 0/0 (every unimolecular reaction is fast).
	KSlow float64
	KFast float64

	// DFS selects the S-queue discipline: true pops from the end (LIFO),
	// false pops from the front (FIFO). Output sets are insensitive to
	// this choice; only macrostate naming order differs (§5).
	DFS bool

	// Interruptible controls whether a PolymerizationOverflow (or a
	// cancelled context) is caught internally and resolved via
	// finish(premature=true), or propagated to the caller (§4.5.2, §7).
	Interruptible bool

	// NamedComplexes are known complexes that did not necessarily appear
	// in the initial set, used only to prioritize macrostate
	// representative naming (§4.4 step 3, SUPPLEMENTED FEATURES #2).
	NamedComplexes []*Complex

	// PMin, if non-zero, is the stationary-probability floor applied
	// during segmentation (§4.4 step 4): members of a resting macrostate
	// with stationary probability below PMin are demoted to transient.
	PMin float64

	// MaxParallelGenerators, if greater than 1, fans Bimolecular generator
	// calls for independent partner complexes out across a bounded worker
	// pool (§5's concurrency expansion) instead of calling them one at a
	// time. Results are still collected and folded in over a fixed order,
	// so output is unaffected; only wall-clock time changes. Zero or one
	// means sequential, which is the default (§5: "single-threaded,
	// non-suspending" unless a caller opts in).
	MaxParallelGenerators int

	// OnReaction, if set, is invoked synchronously whenever a new
	// reaction is committed, right after it is added to the reaction set
	// (SUPPLEMENTED FEATURES #3, the Python source's pause-on-reaction
	// debugging hook). The phase argument is "fast" or "slow". Callers
	// that want to actually pause (e.g. wait on stdin) do so inside the
	// hook; the enumerator itself never blocks on I/O.
	OnReaction func(r *Reaction, phase string)
}

// DefaultOptions returns the Options values specified as defaults in §6.
func DefaultOptions() Options {
	return Options{
		MaxComplexSize:  6,
		MaxHelix:        true,
		ReleaseCutoff11: 7,
		ReleaseCutoff1N: 7,
		DGBp:            -1.7,
		DFS:             true,
	}
}

// resolvedMaxComplexCount computes the effective complex-count ceiling
// given the number of initial complexes, per §6's "max(200, |initial|)"
// default.
func (o Options) resolvedMaxComplexCount(numInitial int) int {
	if o.MaxComplexCount != 0 {
		return o.MaxComplexCount
	}
	if numInitial > 200 {
		return numInitial
	}
	return 200
}

// resolvedMaxReactionCount computes the effective reaction-count ceiling
// given the number of initial reactions, per §6's "max(1000,
// |initial_rxns|)" default.
func (o Options) resolvedMaxReactionCount(numInitialRxns int) int {
	if o.MaxReactionCount != 0 {
		return o.MaxReactionCount
	}
	if numInitialRxns > 1000 {
		return numInitialRxns
	}
	return 1000
}

// validate checks the cross-field invariants §6/§7 require to be usage
// errors: k_fast < k_slow, max_complex_size smaller than the largest
// initial complex, and initial complexes that aren't connected.
func (o Options) validate(initial []*Complex) error {
	// KFast == 0 means "use the default" everywhere else in this package,
	// but with KSlow > 0 that default is never actually >= KSlow (there is
	// no implicit default to fall back on here — KFast=0 is classifyUnimolecular's
	// own "raise the threshold to KSlow" salvage, not a caller-intended
	// config), so it is rejected alongside any explicitly-set KFast < KSlow.
	if o.KFast < o.KSlow {
		return usageErrorf("Options.Validate", "k_fast (%g) must not be smaller than k_slow (%g)", o.KFast, o.KSlow)
	}
	maxSize := o.MaxComplexSize
	if maxSize == 0 {
		maxSize = DefaultOptions().MaxComplexSize
	}
	for _, c := range initial {
		if !c.IsConnected() {
			return usageErrorf("Options.Validate", "initial complex is not connected: %s", c.KernelString())
		}
		if maxSize > 0 && c.Size() > maxSize {
			return usageErrorf("Options.Validate", "max_complex_size (%d) must include all initial complexes (found size %d)", maxSize, c.Size())
		}
	}
	return nil
}
