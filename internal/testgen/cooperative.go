package testgen

import "github.com/gitrdm/peppercore/pkg/enumerator"

// CooperativeBinding is the fixture named S2: David Yu Zhang's
// cooperative hybridization circuit (Zhang, "Cooperative hybridization
// of oligonucleotides," JACS 2012, Figure 1), reproduced from the
// detailed reaction list of the original enumerator's own regression
// test for this system. Two toeholds (T1, T2) and a catalytic strand
// (C1) act on a three-domain substrate so that a product only forms
// once both toeholds have bound: T1 first opens C1 into L1, which
// isomerizes into L2 by branch migration; only then does T2's
// bind21 exposing R1/R2 reach the cooperative product. The two binding
// orders (T1 then T2, or T2 then C1 then T1) both fall through three
// transient intermediates — L1R1, L1R2, L2R1 — that isomerize among
// themselves by branch-3way before finally releasing Waste and Out.
// That three-member web is a genuine cycle among transient complexes
// (L1R1 <-> L1R2, L1R1 <-> L2R1), which is what exercises
// condensation.go's linear-system fate resolution rather than its
// plain acyclic recursion.
type CooperativeBinding struct {
	Gen                                                    *Literal
	T1, T2, C1, L1, L2, R1, R2, L1R1, L1R2, L2R1, Waste, Out *enumerator.Complex
}

// NewCooperativeBinding builds the S2 fixture. Options{KFast: 0.01}
// reproduces the original's k_fast=0.01 threshold: every branch-3way
// reaction here runs at 18.5185/s, comfortably above it, so all of them
// are fast exploration edges and every bind21 is a slow/exit reaction,
// exactly as the source test classifies them.
func NewCooperativeBinding() CooperativeBinding {
	named := func(name string) *enumerator.Complex {
		return mustComplex([][]enumerator.Domain{{enumerator.NewDomain(name, 8)}}, nil)
	}

	t1 := named("T1")
	t2 := named("T2")
	c1 := named("C1")
	l1 := named("L1")
	l2 := named("L2")
	r1 := named("R1")
	r2 := named("R2")
	l1r1 := named("L1R1")
	l1r2 := named("L1R2")
	l2r1 := named("L2R1")
	waste := named("Waste")
	out := named("Out")

	bind21 := enumerator.RateConstant{Value: 2.4e6, Units: enumerator.UnitsPerMolarPerSecond}
	branch3way := enumerator.RateConstant{Value: 18.5185, Units: enumerator.UnitsPerSecond}

	gen := NewLiteral()

	gen.AddBimolecular(c1, t2, enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{c1, t2}, []*enumerator.Complex{r1}, bind21))
	gen.AddBimolecular(l1, t2, enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{l1, t2}, []*enumerator.Complex{l1r1}, bind21))
	gen.AddBimolecular(l2, t2, enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{l2, t2}, []*enumerator.Complex{l2r1}, bind21))
	gen.AddBimolecular(t1, c1, enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{t1, c1}, []*enumerator.Complex{l1}, bind21))
	gen.AddBimolecular(t1, r1, enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{t1, r1}, []*enumerator.Complex{l1r1}, bind21))
	gen.AddBimolecular(t1, r2, enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{t1, r2}, []*enumerator.Complex{l1r2}, bind21))

	gen.AddUnimolecular(l1, enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l1}, []*enumerator.Complex{l2}, branch3way))
	gen.AddUnimolecular(l2, enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l2}, []*enumerator.Complex{l1}, branch3way))
	gen.AddUnimolecular(r1, enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{r1}, []*enumerator.Complex{r2}, branch3way))
	gen.AddUnimolecular(r2, enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{r2}, []*enumerator.Complex{r1}, branch3way))
	gen.AddUnimolecular(l1r1,
		enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l1r1}, []*enumerator.Complex{l1r2}, branch3way),
		enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l1r1}, []*enumerator.Complex{l2r1}, branch3way),
	)
	gen.AddUnimolecular(l1r2,
		enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l1r2}, []*enumerator.Complex{l1r1}, branch3way),
		enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l1r2}, []*enumerator.Complex{waste, out}, branch3way),
	)
	gen.AddUnimolecular(l2r1,
		enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l2r1}, []*enumerator.Complex{l1r1}, branch3way),
		enumerator.NewReaction(enumerator.ReactionBranch3Way, []*enumerator.Complex{l2r1}, []*enumerator.Complex{waste, out}, branch3way),
	)

	return CooperativeBinding{
		T1: t1, T2: t2, C1: c1, L1: l1, L2: l2, R1: r1, R2: r2,
		L1R1: l1r1, L1R2: l1r2, L2R1: l2r1, Waste: waste, Out: out,
		Gen: gen,
	}
}
