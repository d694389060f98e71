package enumerator

import "testing"

func buildChain(n int) []*Complex {
	out := make([]*Complex, n)
	for i := range out {
		d := NewDomain("m", 6)
		c, _ := NewComplex([][]Domain{{d}}, nil)
		out[i] = c
	}
	return out
}

func TestMacrostateRepresentativePrefersGivenSet(t *testing.T) {
	members := buildChain(3)
	ms := newMacrostate(members, map[*Complex]bool{members[2]: true})
	if ms.Representative() != members[2] {
		t.Error("representative should prefer a complex from the supplied set")
	}
}

func TestMacrostateRepresentativeFallsBackToLexicographic(t *testing.T) {
	members := buildChain(3)
	ms := newMacrostate(members, nil)
	want := members[0]
	for _, m := range members[1:] {
		if m.CanonicalForm() < want.CanonicalForm() {
			want = m
		}
	}
	if ms.Representative() != want {
		t.Error("representative should fall back to lexicographically smallest canonical form")
	}
}

func TestMacrostateSingletonStationaryDistribution(t *testing.T) {
	members := buildChain(1)
	ms := newMacrostate(members, nil)
	dist, err := ms.StationaryDistribution()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dist[members[0]] != 1.0 {
		t.Errorf("singleton macrostate stationary probability should be 1.0, got %g", dist[members[0]])
	}
}

func TestMacrostateTwoStateStationaryDistribution(t *testing.T) {
	a, _ := NewComplex([][]Domain{{NewDomain("a", 6)}}, nil)
	b, _ := NewComplex([][]Domain{{NewDomain("b", 6)}}, nil)
	ms := newMacrostate([]*Complex{a, b}, nil)
	// a->b at rate 3, b->a at rate 1: stationary ratio pi_a/pi_b = 1/3 (detailed balance on a 2-state chain).
	ms.addReaction(NewReaction(ReactionBind11, []*Complex{a}, []*Complex{b}, RateConstant{Value: 3, Units: UnitsPerSecond}))
	ms.addReaction(NewReaction(ReactionBind11, []*Complex{b}, []*Complex{a}, RateConstant{Value: 1, Units: UnitsPerSecond}))

	dist, err := ms.StationaryDistribution()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := dist[a] + dist[b]
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stationary distribution should sum to 1, got %g", sum)
	}
	wantA, wantB := 0.25, 0.75
	if d := dist[a] - wantA; d > 1e-9 || d < -1e-9 {
		t.Errorf("pi_a = %g, want %g", dist[a], wantA)
	}
	if d := dist[b] - wantB; d > 1e-9 || d < -1e-9 {
		t.Errorf("pi_b = %g, want %g", dist[b], wantB)
	}
}
