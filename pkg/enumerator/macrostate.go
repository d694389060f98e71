package enumerator

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Macrostate is a non-empty set of complexes forming a strongly connected
// component under fast reactions, closed under fast reactions (no
// outgoing fast edge) — i.e. a *resting* macrostate (§3). It carries an
// identifying representative complex, the reactions discovered among its
// members, and (once computed) a stationary probability distribution.
//
// A Macrostate is uniquely identified by its member set; Enumerator
// creates Macrostate values only through its MacrostateRegistry.
type Macrostate struct {
	members        []*Complex
	memberIndex    map[*Complex]int
	representative *Complex
	reactions      []*Reaction // fast reactions whose reactant is a member

	stationary []float64 // memoized, indexed like members; nil until computed
}

// newMacrostate builds a Macrostate over members (in the order
// segmentation discovered them) choosing a representative from
// representatives if possible, else the lexicographically smallest
// member's canonical form (§4.4 step 3).
func newMacrostate(members []*Complex, representatives map[*Complex]bool) *Macrostate {
	ms := &Macrostate{
		members:     append([]*Complex(nil), members...),
		memberIndex: make(map[*Complex]int, len(members)),
	}
	for i, m := range members {
		ms.memberIndex[m] = i
	}
	ms.representative = pickRepresentative(members, representatives)
	return ms
}

func pickRepresentative(members []*Complex, representatives map[*Complex]bool) *Complex {
	for _, m := range members {
		if representatives[m] {
			return m
		}
	}
	best := members[0]
	for _, m := range members[1:] {
		if m.CanonicalForm() < best.CanonicalForm() {
			best = m
		}
	}
	return best
}

// Members returns the macrostate's complexes in canonical order.
func (m *Macrostate) Members() []*Complex {
	out := append([]*Complex(nil), m.members...)
	sort.Slice(out, func(i, j int) bool { return out[i].CanonicalForm() < out[j].CanonicalForm() })
	return out
}

// Contains reports whether cplx is a member of this macrostate.
func (m *Macrostate) Contains(cplx *Complex) bool {
	_, ok := m.memberIndex[cplx]
	return ok
}

// Representative is the complex chosen to identify this macrostate in
// output (§3).
func (m *Macrostate) Representative() *Complex {
	return m.representative
}

// addReaction records a fast reaction whose reactant is a member of this
// macrostate. For a resting macrostate every such reaction's single
// product is, by definition, also a member (otherwise segmentation would
// have classified the SCC as transient instead of wrapping it).
func (m *Macrostate) addReaction(r *Reaction) {
	m.reactions = append(m.reactions, r)
}

// Reactions returns the fast reactions discovered among this macrostate's
// members.
func (m *Macrostate) Reactions() []*Reaction {
	return append([]*Reaction(nil), m.reactions...)
}

// StationaryDistribution solves the fixed point of the fast-reaction
// Markov chain restricted to this macrostate's members, per §4.6 and the
// Open Question resolved in §9: "restrict to the fast-reaction Markov
// chain on the SCC, treat the SCC as closed (it is, by definition of
// resting), solve πQ = 0", normalized to sum to one.
//
// The distribution is memoized after the first call, since a Macrostate's
// member set and reaction list never change after segmentation commits it
// (§5, registries own mutation only during one neighborhood pass).
func (m *Macrostate) StationaryDistribution() (map[*Complex]float64, error) {
	if m.stationary == nil {
		dist, err := solveStationary(m.members, m.memberIndex, m.reactions)
		if err != nil {
			return nil, fmt.Errorf("Macrostate.StationaryDistribution: %w", err)
		}
		m.stationary = dist
	}
	out := make(map[*Complex]float64, len(m.members))
	for i, c := range m.members {
		out[c] = m.stationary[i]
	}
	return out, nil
}

// solveStationary builds the continuous-time generator matrix Q over
// members (Q[i][j] = total rate i->j for i != j, Q[i][i] = -sum_j Q[i][j])
// from the macrostate's intra-member reactions, then solves πQ = 0,
// sum(π) = 1 by replacing the generator's (redundant, since rows of Q sum
// to zero) last equation with the normalization constraint — the standard
// technique for solving a singular generator's stationary distribution
// with a single dense linear solve.
func solveStationary(members []*Complex, index map[*Complex]int, reactions []*Reaction) ([]float64, error) {
	n := len(members)
	if n == 1 {
		return []float64{1.0}, nil
	}
	q := mat.NewDense(n, n, nil)
	for _, r := range reactions {
		if !r.IsUnimolecular() || len(r.Products) != 1 {
			continue
		}
		from, ok := index[r.Reactants[0]]
		if !ok {
			continue
		}
		to, ok := index[r.Products[0]]
		if !ok || to == from {
			continue
		}
		q.Set(from, to, q.At(from, to)+r.Rate.Value)
	}
	for i := 0; i < n; i++ {
		rowSum := 0.0
		for j := 0; j < n; j++ {
			if j != i {
				rowSum += q.At(i, j)
			}
		}
		q.Set(i, i, -rowSum)
	}

	// A = Q^T with its last row replaced by all-ones; b = e_{n-1}.
	a := mat.NewDense(n, n, nil)
	a.CloneFrom(q.T())
	for j := 0; j < n; j++ {
		a.Set(n-1, j, 1.0)
	}
	b := mat.NewDense(n, 1, nil)
	b.Set(n-1, 0, 1.0)

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("solving stationary distribution: %w", err)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x.At(i, 0)
	}
	return out, nil
}
