package enumerator

import (
	"context"
	"math"
)

// GeneratorOptions carries the knobs the elementary move functions accept,
// as listed in §4.2. The enumerator is the sole arbiter of whether a
// generated reaction's rate makes it fast, slow, or ignored (§4.3); the
// generator's job is only to enumerate candidates and their rates.
type GeneratorOptions struct {
	// MaxHelix coalesces consecutive base-pair moves that extend a helix
	// into a single reaction.
	MaxHelix bool
	// Remote, when false, means branch-migration reactions whose invading
	// toehold is not adjacent to the displacement site are rejected.
	Remote bool
	// Release11 / Release1N cap the helix length whose opening is
	// considered for 1->1 and 1->N reactions respectively; longer helices
	// are rejected (or rate-suppressed) by the generator.
	Release11 int
	Release1N int
	// DGBp is the per-base-pair free energy parameter feeding the
	// opening-rate model.
	DGBp float64
}

// ReactionGenerator is the uniform interface the enumeration driver uses
// to reach the external, black-boxed elementary move functions (bind11,
// bind21, open1N, branch-3way, branch-4way). Implementations return
// candidate reactions; the driver alone decides which of them to keep
// after applying the max-complex-size filter (§4.5.1) and the rate
// classification thresholds (§4.3).
//
// Implementations must be safe for concurrent use: when
// Options.MaxParallelGenerators > 1 the driver fans Bimolecular calls for
// independent partner complexes out across a bounded worker pool.
type ReactionGenerator interface {
	// Unimolecular returns every unimolecular (one-reactant) candidate
	// reaction with cplx as the sole reactant, covering bind11, open1N,
	// branch-3way, and branch-4way.
	Unimolecular(ctx context.Context, cplx *Complex, opts GeneratorOptions) ([]*Reaction, error)

	// Bimolecular returns every bind21 candidate reaction between cplx1
	// and cplx2. Implementations must accept cplx1 == cplx2 (by
	// canonical form) and return the self-reaction candidates: §9's
	// design note explicitly requires this to model homodimerization.
	Bimolecular(ctx context.Context, cplx1, cplx2 *Complex, opts GeneratorOptions) ([]*Reaction, error)
}

// OpeningRate estimates the unimolecular opening rate of a helix of
// length rc base pairs, under the per-base-pair free energy model dG_bp
// (§4.3, §6 "dG_bp"). This is the one piece of the otherwise-external rate
// model the enumerator itself depends on, since §4.3 requires it to derive
// release_cutoff from k_slow: "the smallest rc such that opening_rate(rc,
// dG_bp) < k_slow becomes the minimum release_cutoff."
//
// The model follows Peppercorn's own: a helix of rc base pairs opens at a
// rate that decays exponentially in the cumulative free energy of the
// helix, attempted at a fixed unimolecular attempt frequency.
func OpeningRate(rc int, dGBp float64) float64 {
	const (
		attemptFrequency = 7.41e7 // s^-1, the Peppercorn 'zipping rate' constant
		rt               = 0.5961962 // kcal/mol, RT near 27C (300 K)
	)
	if rc <= 0 {
		return attemptFrequency
	}
	dG := float64(rc) * dGBp
	return attemptFrequency * math.Exp(dG/rt)
}
