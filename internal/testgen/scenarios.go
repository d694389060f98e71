package testgen

import "github.com/gitrdm/peppercore/pkg/enumerator"

// mustComplex panics on a malformed fixture; fixtures are fixed at compile
// time, so a construction error here is a bug in this file, never in
// caller input.
func mustComplex(strands [][]enumerator.Domain, pairing map[enumerator.Location]enumerator.Location) *enumerator.Complex {
	c, err := enumerator.NewComplex(strands, pairing)
	if err != nil {
		panic(err)
	}
	return c
}

// SimpleBranch is the fixture named S1: a toehold-mediated 3-way strand
// displacement. c1 is a free invader ("t0 d1"), c2 is a duplex with a
// single-stranded t0* toehold ("d1( + ) t0*"); they bind (bind21) into the
// 3-way-junction intermediate c3, which can either fall back apart (open,
// reverse of the toehold binding) or complete branch migration
// (branch-3way) into the fully-paired duplex c4 ("t0( d1( + ) )") plus the
// displaced free strand c5 ("d1").
type SimpleBranch struct {
	Gen            *Literal
	C1, C2, C3, C4, C5 *enumerator.Complex
}

// NewSimpleBranch builds the S1 fixture.
func NewSimpleBranch() SimpleBranch {
	t0 := enumerator.NewDomain("t0", 5)
	d1 := enumerator.NewDomain("d1", 15)

	c1 := mustComplex([][]enumerator.Domain{{t0, d1}}, nil)

	c2 := mustComplex(
		[][]enumerator.Domain{{d1}, {d1.Complement(), t0.Complement()}},
		map[enumerator.Location]enumerator.Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 0},
		},
	)

	c3 := mustComplex(
		[][]enumerator.Domain{{t0, d1}, {d1}, {d1.Complement(), t0.Complement()}},
		map[enumerator.Location]enumerator.Location{
			{Strand: 0, Pos: 0}: {Strand: 2, Pos: 1},
			{Strand: 2, Pos: 1}: {Strand: 0, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 2, Pos: 0},
			{Strand: 2, Pos: 0}: {Strand: 1, Pos: 0},
		},
	)

	c4 := mustComplex(
		[][]enumerator.Domain{{t0, d1}, {d1.Complement(), t0.Complement()}},
		map[enumerator.Location]enumerator.Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 1},
			{Strand: 1, Pos: 1}: {Strand: 0, Pos: 0},
			{Strand: 0, Pos: 1}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 1},
		},
	)

	c5 := mustComplex([][]enumerator.Domain{{d1}}, nil)

	gen := NewLiteral()
	gen.AddBimolecular(c1, c2, enumerator.NewReaction(
		enumerator.ReactionBind21,
		[]*enumerator.Complex{c1, c2},
		[]*enumerator.Complex{c3},
		enumerator.RateConstant{Value: 1e5, Units: enumerator.UnitsPerMolarPerSecond},
	))
	gen.AddUnimolecular(c3,
		enumerator.NewReaction(
			enumerator.ReactionOpen1N,
			[]*enumerator.Complex{c3},
			[]*enumerator.Complex{c1, c2},
			enumerator.RateConstant{Value: 50, Units: enumerator.UnitsPerSecond},
		),
		enumerator.NewReaction(
			enumerator.ReactionBranch3Way,
			[]*enumerator.Complex{c3},
			[]*enumerator.Complex{c4, c5},
			enumerator.RateConstant{Value: 50, Units: enumerator.UnitsPerSecond},
		),
	)

	return SimpleBranch{Gen: gen, C1: c1, C2: c2, C3: c3, C4: c4, C5: c5}
}
