package enumerator

import "testing"

func TestSameComplexMultiset(t *testing.T) {
	a, _ := NewComplex([][]Domain{{NewDomain("a", 6)}}, nil)
	b, _ := NewComplex([][]Domain{{NewDomain("b", 6)}}, nil)

	if !sameComplexMultiset([]*Complex{a, b}, []*Complex{b, a}) {
		t.Error("multisets with the same members in different order should be equal")
	}
	if sameComplexMultiset([]*Complex{a, a}, []*Complex{a, b}) {
		t.Error("different multiplicities should not compare equal")
	}
	if sameComplexMultiset([]*Complex{a}, []*Complex{a, b}) {
		t.Error("different lengths should not compare equal")
	}
}

// TestCondenseNetworkSimpleBranch is scenario S1 condensed down to a
// single macrostate-level reaction, exercising both condensation fixes:
// the exit reaction is processed once (not once per touched macrostate)
// and the self-fate c1+c2->c1+c2 is dropped as unobservable.
func TestCondenseNetworkSimpleBranch(t *testing.T) {
	t0 := NewDomain("t0", 5)
	d1 := NewDomain("d1", 15)

	c1, _ := NewComplex([][]Domain{{t0, d1}}, nil)
	c2, _ := NewComplex(
		[][]Domain{{d1}, {d1.Complement(), t0.Complement()}},
		map[Location]Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 0},
		},
	)
	c3, _ := NewComplex(
		[][]Domain{{t0, d1}, {d1}, {d1.Complement(), t0.Complement()}},
		map[Location]Location{
			{Strand: 0, Pos: 0}: {Strand: 2, Pos: 1},
			{Strand: 2, Pos: 1}: {Strand: 0, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 2, Pos: 0},
			{Strand: 2, Pos: 0}: {Strand: 1, Pos: 0},
		},
	)
	c4, _ := NewComplex(
		[][]Domain{{t0, d1}, {d1.Complement(), t0.Complement()}},
		map[Location]Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 1},
			{Strand: 1, Pos: 1}: {Strand: 0, Pos: 0},
			{Strand: 0, Pos: 1}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 1},
		},
	)
	c5, _ := NewComplex([][]Domain{{d1}}, nil)

	registry := NewMacrostateRegistry()
	m1, _ := registry.Intern([]*Complex{c1}, func() *Macrostate { return newMacrostate([]*Complex{c1}, nil) })
	m2, _ := registry.Intern([]*Complex{c2}, func() *Macrostate { return newMacrostate([]*Complex{c2}, nil) })
	m4, _ := registry.Intern([]*Complex{c4}, func() *Macrostate { return newMacrostate([]*Complex{c4}, nil) })
	m5, _ := registry.Intern([]*Complex{c5}, func() *Macrostate { return newMacrostate([]*Complex{c5}, nil) })
	macrostates := []*Macrostate{m1, m2, m4, m5}

	bind := NewReaction(ReactionBind21, []*Complex{c1, c2}, []*Complex{c3}, RateConstant{Value: 1e5, Units: UnitsPerMolarPerSecond})
	open := NewReaction(ReactionOpen1N, []*Complex{c3}, []*Complex{c1, c2}, RateConstant{Value: 50, Units: UnitsPerSecond})
	branch := NewReaction(ReactionBranch3Way, []*Complex{c3}, []*Complex{c4, c5}, RateConstant{Value: 50, Units: UnitsPerSecond})

	reactions := map[string]*Reaction{
		bind.Key():   bind,
		open.Key():   open,
		branch.Key(): branch,
	}

	condensed, err := condenseNetwork(macrostates, reactions, 0, 0)
	if err != nil {
		t.Fatalf("condenseNetwork: %v", err)
	}
	if len(condensed) != 1 {
		t.Fatalf("expected exactly one condensed reaction, got %d: %v", len(condensed), condensed)
	}
	r := condensed[0]
	if !sameComplexMultiset(r.Reactants, []*Complex{c1, c2}) {
		t.Errorf("reactants = %v, want {c1,c2}", r.Reactants)
	}
	if !sameComplexMultiset(r.Products, []*Complex{c4, c5}) {
		t.Errorf("products = %v, want {c4,c5}", r.Products)
	}
	wantRate := 5e4
	if diff := r.Rate.Value - wantRate; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("rate = %g, want %g (half of k_bind via equal-rate branching, self-fate dropped)", r.Rate.Value, wantRate)
	}
}

func TestMergeCondensedByKeySumsRates(t *testing.T) {
	a, _ := NewComplex([][]Domain{{NewDomain("a", 6)}}, nil)
	b, _ := NewComplex([][]Domain{{NewDomain("b", 6)}}, nil)

	r1 := NewReaction(ReactionCondensed, []*Complex{a}, []*Complex{b}, RateConstant{Value: 3, Units: UnitsPerSecond})
	r2 := NewReaction(ReactionCondensed, []*Complex{a}, []*Complex{b}, RateConstant{Value: 7, Units: UnitsPerSecond})

	merged := mergeCondensedByKey([]*Reaction{r1, r2})
	if len(merged) != 1 {
		t.Fatalf("expected the two same-key reactions to merge into one, got %d", len(merged))
	}
	if merged[0].Rate.Value != 10 {
		t.Errorf("merged rate = %g, want 10 (sum of the two contributions)", merged[0].Rate.Value)
	}
	// The original reaction values must not be mutated by the merge.
	if r1.Rate.Value != 3 || r2.Rate.Value != 7 {
		t.Error("mergeCondensedByKey must not mutate its input reactions")
	}
}

func TestFatesOfRestingComplexIsCertain(t *testing.T) {
	a, _ := NewComplex([][]Domain{{NewDomain("a", 6)}}, nil)
	ms := newMacrostate([]*Complex{a}, nil)
	complexToMacrostate := map[*Complex]*Macrostate{a: ms}

	fates, err := fatesOf(a, complexToMacrostate, map[*Complex][]fate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fates) != 1 || fates[0].prob != 1.0 || len(fates[0].macrostates) != 1 || fates[0].macrostates[0] != ms {
		t.Errorf("a resting complex should have exactly one certain fate, got %v", fates)
	}
}
