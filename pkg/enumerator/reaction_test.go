package enumerator

import "testing"

func TestReactionArityAndShape(t *testing.T) {
	d1 := NewDomain("d1", 15)
	a, _ := NewComplex([][]Domain{{d1}}, nil)
	b, _ := NewComplex([][]Domain{{d1.Complement()}}, nil)
	c, _ := NewComplex([][]Domain{{d1}, {d1.Complement()}},
		map[Location]Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 0},
		})

	bind := NewReaction(ReactionBind21, []*Complex{a, b}, []*Complex{c}, RateConstant{Value: 1e5, Units: UnitsPerMolarPerSecond})
	if bind.Arity() != (Arity{Reactants: 2, Products: 1}) {
		t.Errorf("unexpected arity: %+v", bind.Arity())
	}
	if !bind.IsBimolecular() || bind.IsUnimolecular() {
		t.Error("bind21 should be bimolecular, not unimolecular")
	}

	open := NewReaction(ReactionOpen1N, []*Complex{c}, []*Complex{a, b}, RateConstant{Value: 50, Units: UnitsPerSecond})
	if !open.IsUnimolecular() || open.IsBimolecular() {
		t.Error("open1N should be unimolecular, not bimolecular")
	}
}

func TestReactionKeyCollapsesReactantOrder(t *testing.T) {
	d1 := NewDomain("d1", 15)
	a, _ := NewComplex([][]Domain{{d1}}, nil)
	b, _ := NewComplex([][]Domain{{d1.Complement()}}, nil)
	c, _ := NewComplex([][]Domain{{d1}, {d1.Complement()}},
		map[Location]Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 0},
		})

	r1 := NewReaction(ReactionBind21, []*Complex{a, b}, []*Complex{c}, RateConstant{Value: 1e5, Units: UnitsPerMolarPerSecond})
	r2 := NewReaction(ReactionBind21, []*Complex{b, a}, []*Complex{c}, RateConstant{Value: 1e5, Units: UnitsPerMolarPerSecond})
	if r1.Key() != r2.Key() {
		t.Error("Key() should be insensitive to reactant order")
	}

	r3 := NewReaction(ReactionOpen1N, []*Complex{c}, []*Complex{a, b}, RateConstant{Value: 50, Units: UnitsPerSecond})
	if r1.Key() == r3.Key() {
		t.Error("reactions of different type/direction must not collide")
	}
}

func TestReverseIndex(t *testing.T) {
	d1 := NewDomain("d1", 15)
	a, _ := NewComplex([][]Domain{{d1}}, nil)
	b, _ := NewComplex([][]Domain{{d1.Complement()}}, nil)
	c, _ := NewComplex([][]Domain{{d1}, {d1.Complement()}},
		map[Location]Location{
			{Strand: 0, Pos: 0}: {Strand: 1, Pos: 0},
			{Strand: 1, Pos: 0}: {Strand: 0, Pos: 0},
		})

	bind := NewReaction(ReactionBind21, []*Complex{a, b}, []*Complex{c}, RateConstant{Value: 1e5, Units: UnitsPerMolarPerSecond})
	open := NewReaction(ReactionOpen1N, []*Complex{c}, []*Complex{a, b}, RateConstant{Value: 50, Units: UnitsPerSecond})

	ri := NewReverseIndex()
	ri.Add(bind)
	ri.Add(open)

	rev, ok := ri.Reverse(bind)
	if !ok || rev.Key() != open.Key() {
		t.Error("Reverse(bind21) should find the recorded open1N")
	}
	rev2, ok := ri.Reverse(open)
	if !ok || rev2.Key() != bind.Key() {
		t.Error("Reverse(open1N) should find the recorded bind21")
	}
}

func TestRateUnitsString(t *testing.T) {
	if UnitsPerSecond.String() != "/s" {
		t.Errorf("got %q", UnitsPerSecond.String())
	}
	if UnitsPerMolarPerSecond.String() != "/M/s" {
		t.Errorf("got %q", UnitsPerMolarPerSecond.String())
	}
}
