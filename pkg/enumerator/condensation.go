package enumerator

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// fate is one possible outcome of a transient complex's fast-reaction
// decay: the multiset of resting macrostates it eventually lands in, and
// the probability of reaching exactly that outcome (§4.6 step 3).
type fate struct {
	macrostates []*Macrostate
	prob        float64
}

// condenseNetwork builds the macrostate-level condensed reaction network
// from a fully enumerated detailed network (§4.6). kSlow/kFast are needed
// again here (rather than trusting Reaction values alone) because a
// Reaction does not carry its own rate-class tag; reclassifying is cheap
// and keeps Reaction a plain immutable tuple (§3).
func condenseNetwork(macrostates []*Macrostate, reactions map[string]*Reaction, kSlow, kFast float64) ([]*Reaction, error) {
	complexToMacrostate := make(map[*Complex]*Macrostate)
	for _, m := range macrostates {
		for _, c := range m.Members() {
			complexToMacrostate[c] = m
		}
	}

	// Every slow/bimolecular reaction's reactants are, by construction,
	// always resting complexes: the driver only ever calls the generator
	// for slow/bimolecular candidates on a complex already popped from S,
	// and a complex is only pushed to S once segmentation has classified
	// it resting (§4.5). So each such reaction is an "exit" from whichever
	// macrostate(s) its reactants belong to, and is processed exactly
	// once here — never once per touched macrostate, which would multi-
	// count a reaction between two distinct macrostates (the cooperative-
	// binding case) instead of weighting it by the product of both
	// reactants' own stationary probabilities.
	fastOutEdges := make(map[*Complex][]*Reaction)
	var exits []*Reaction
	for _, r := range reactions {
		if r.IsUnimolecular() {
			class := classifyUnimolecular(r.Rate.Value, kSlow, kFast)
			if class == RateFast {
				fastOutEdges[r.Reactants[0]] = append(fastOutEdges[r.Reactants[0]], r)
				continue
			}
			if class == RateIgnored {
				continue
			}
		}
		exits = append(exits, r)
	}

	distCache := make(map[*Macrostate]map[*Complex]float64)
	getDist := func(m *Macrostate) (map[*Complex]float64, error) {
		if d, ok := distCache[m]; ok {
			return d, nil
		}
		d, err := m.StationaryDistribution()
		if err != nil {
			return nil, err
		}
		distCache[m] = d
		return d, nil
	}

	memo := make(map[*Complex][]fate)
	if err := precomputeFates(fastOutEdges, complexToMacrostate, memo); err != nil {
		return nil, err
	}

	var condensed []*Reaction
	for _, r := range exits {
		weight := 1.0
		for _, reactant := range r.Reactants {
			m, ok := complexToMacrostate[reactant]
			if !ok {
				return nil, fmt.Errorf("condensing exit reaction %s: reactant %s is not a resting complex", r, reactant.KernelString())
			}
			dist, err := getDist(m)
			if err != nil {
				return nil, fmt.Errorf("condensing exit reaction %s: %w", r, err)
			}
			weight *= dist[reactant]
		}
		combos, err := cartesianFates(r.Products, complexToMacrostate, memo)
		if err != nil {
			return nil, fmt.Errorf("condensing exit reaction %s: %w", r, err)
		}
		reactants := macrostateRepresentatives(r.Reactants, complexToMacrostate)
		for _, combo := range combos {
			rate := weight * r.Rate.Value * combo.prob
			if rate <= 0 {
				continue
			}
			products := make([]*Complex, len(combo.macrostates))
			for i, pm := range combo.macrostates {
				products[i] = pm.Representative()
			}
			if sameComplexMultiset(reactants, products) {
				// A fate that returns to exactly the starting macrostates is
				// not an observable transition; Peppercorn's condensation
				// drops these the same way a CTMC generator has no diagonal.
				continue
			}
			condensed = append(condensed, NewReaction(ReactionCondensed, reactants, products, RateConstant{Value: rate, Units: r.Rate.Units}))
		}
	}

	merged := mergeCondensedByKey(condensed)
	sortReactions(merged)
	return merged, nil
}

// sameComplexMultiset reports whether a and b name the same complexes with
// the same multiplicities, irrespective of order.
func sameComplexMultiset(a, b []*Complex) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[*Complex]int, len(a))
	for _, c := range a {
		counts[c]++
	}
	for _, c := range b {
		counts[c]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

func macrostateRepresentatives(cplxs []*Complex, complexToMacrostate map[*Complex]*Macrostate) []*Complex {
	out := make([]*Complex, len(cplxs))
	for i, c := range cplxs {
		if m, ok := complexToMacrostate[c]; ok {
			out[i] = m.Representative()
		} else {
			out[i] = c
		}
	}
	return out
}

// precomputeFates resolves the eventual-macrostate fate of every
// transient complex that has a fast exit reaction, memoizing each into
// memo. A transient complex's decay graph is generally acyclic (isomer A
// decays to isomer B which is already resting), but nothing in §4.4
// forbids a closed web of transient complexes whose fast reactions only
// ever lead back into the same web until one member finally exits to a
// resting product (the cooperative-binding scenario's L1R1/L1R2/L2R1
// triangle is exactly this). A plain top-down recursive expansion would
// loop forever on that web, so this groups fastOutEdges into strongly
// connected components first (the same Tarjan pass segmentation.go uses)
// and solves each nontrivial component's fate distribution as one dense
// linear system, the same technique macrostate.go uses for a stationary
// distribution.
func precomputeFates(fastOutEdges map[*Complex][]*Reaction, complexToMacrostate map[*Complex]*Macrostate, memo map[*Complex][]fate) error {
	nodes := make([]*Complex, 0, len(fastOutEdges))
	nodeSet := make(map[*Complex]bool, len(fastOutEdges))
	for c := range fastOutEdges {
		if _, resting := complexToMacrostate[c]; resting {
			continue
		}
		nodes = append(nodes, c)
		nodeSet[c] = true
	}
	sortComplexes(nodes)

	adj := make(map[*Complex][]*Complex, len(nodes))
	for _, c := range nodes {
		for _, r := range fastOutEdges[c] {
			if len(r.Products) == 1 && nodeSet[r.Products[0]] {
				adj[c] = append(adj[c], r.Products[0])
			}
		}
	}

	// tarjanSCCs emits components in reverse topological order: a
	// component's cross edges only ever point at components already
	// emitted, so processing the list in order guarantees every
	// dependency a component's terminal reactions need is already in
	// memo by the time that component is resolved.
	for _, scc := range tarjanSCCs(nodes, adj) {
		if len(scc) == 1 && !selfLoops(scc[0], adj) {
			f, err := decayFates(scc[0], fastOutEdges, complexToMacrostate, memo)
			if err != nil {
				return err
			}
			memo[scc[0]] = f
			continue
		}
		if err := resolveCyclicFates(scc, fastOutEdges, complexToMacrostate, memo); err != nil {
			return err
		}
	}
	return nil
}

func selfLoops(c *Complex, adj map[*Complex][]*Complex) bool {
	for _, n := range adj[c] {
		if n == c {
			return true
		}
	}
	return false
}

// decayFates computes c's fate distribution directly from its fast exit
// reactions, assuming every transient complex those reactions touch is
// already resolved in memo (true for an acyclic node processed in the
// topological order precomputeFates walks).
func decayFates(c *Complex, fastOutEdges map[*Complex][]*Reaction, complexToMacrostate map[*Complex]*Macrostate, memo map[*Complex][]fate) ([]fate, error) {
	edges := fastOutEdges[c]
	if len(edges) == 0 {
		return nil, fmt.Errorf("transient complex %s has no fast exit reaction and no macrostate", c.KernelString())
	}
	totalRate := 0.0
	for _, r := range edges {
		totalRate += r.Rate.Value
	}
	var result []fate
	for _, r := range edges {
		edgeProb := r.Rate.Value / totalRate
		combos, err := cartesianFates(r.Products, complexToMacrostate, memo)
		if err != nil {
			return nil, err
		}
		for _, combo := range combos {
			result = append(result, fate{macrostates: combo.macrostates, prob: edgeProb * combo.prob})
		}
	}
	return result, nil
}

// resolveCyclicFates solves the fate distribution of every complex in a
// strongly connected web of transient complexes at once. Each reaction
// either recurses directly to another member of the same web (tracked as
// a transition-probability matrix R) or exits the web to a resolved
// terminal outcome — a specific tuple of resting macrostates, whose
// probability is already fully known (tracked as a per-member constant
// vector B). The fate distribution X over terminal tuples therefore
// satisfies X = R X + B, solved as the single dense linear system
// (I - R) X = B: the same "replace the recurrence with one linear solve"
// technique macrostate.go uses for a stationary distribution, here
// applied to absorption probabilities instead of occupancy.
//
// Only a single-product reaction landing on another member counts as a
// recursive edge. A reaction that leads back into the web alongside an
// extra product in the same product list is not supported: it goes
// through cartesianFates, which finds no resolved fate for the web member
// and returns an error. None of this module's scenarios produce that
// shape; handling it would require tracking per-edge product-tuple
// wrapping rather than a flat transition matrix.
func resolveCyclicFates(scc []*Complex, fastOutEdges map[*Complex][]*Reaction, complexToMacrostate map[*Complex]*Macrostate, memo map[*Complex][]fate) error {
	inSCC := make(map[*Complex]int, len(scc))
	for i, c := range scc {
		inSCC[c] = i
	}
	n := len(scc)

	type terminalHit struct {
		macrostates []*Macrostate
		prob        float64
	}
	terminals := make([][]terminalHit, n)
	recurse := mat.NewDense(n, n, nil)

	for i, c := range scc {
		edges := fastOutEdges[c]
		if len(edges) == 0 {
			return fmt.Errorf("resolving cyclic fate for %s: no fast exit reaction", c.KernelString())
		}
		totalRate := 0.0
		for _, r := range edges {
			totalRate += r.Rate.Value
		}
		for _, r := range edges {
			edgeProb := r.Rate.Value / totalRate
			if len(r.Products) == 1 {
				if j, ok := inSCC[r.Products[0]]; ok {
					recurse.Set(i, j, recurse.At(i, j)+edgeProb)
					continue
				}
			}
			combos, err := cartesianFates(r.Products, complexToMacrostate, memo)
			if err != nil {
				return fmt.Errorf("resolving cyclic fate for %s: %w", c.KernelString(), err)
			}
			for _, combo := range combos {
				terminals[i] = append(terminals[i], terminalHit{macrostates: combo.macrostates, prob: edgeProb * combo.prob})
			}
		}
	}

	tupleIdx := make(map[string]int)
	var tuples [][]*Macrostate
	for i := 0; i < n; i++ {
		for _, t := range terminals[i] {
			key := macrostateTupleKey(t.macrostates)
			if _, seen := tupleIdx[key]; !seen {
				tupleIdx[key] = len(tuples)
				tuples = append(tuples, t.macrostates)
			}
		}
	}
	k := len(tuples)
	if k == 0 {
		return fmt.Errorf("resolving cyclic fate: strongly connected transient group has no reachable terminal macrostate")
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -recurse.At(i, j)
			if i == j {
				v += 1.0
			}
			a.Set(i, j, v)
		}
	}
	b := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for _, t := range terminals[i] {
			j := tupleIdx[macrostateTupleKey(t.macrostates)]
			b.Set(i, j, b.At(i, j)+t.prob)
		}
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return fmt.Errorf("resolving cyclic fate: %w", err)
	}
	for i, c := range scc {
		var fates []fate
		for j := 0; j < k; j++ {
			p := x.At(i, j)
			if p <= 0 {
				continue
			}
			fates = append(fates, fate{macrostates: tuples[j], prob: p})
		}
		memo[c] = fates
	}
	return nil
}

func macrostateTupleKey(ms []*Macrostate) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.Representative().CanonicalForm()
	}
	return strings.Join(parts, "\x00")
}

// mergeCondensedByKey sums the rates of condensed reactions that share
// the same reactant/product macrostates and type, implementing §8's
// property 7: the condensed rate is the sum, over every detailed exit
// reaction and fate that lands on the same condensed transition, of
// stationary(reactant) * k_detailed * P(fate).
func mergeCondensedByKey(rs []*Reaction) []*Reaction {
	byKey := make(map[string]*Reaction)
	var order []string
	for _, r := range rs {
		key := r.Key()
		if existing, ok := byKey[key]; ok {
			existing.Rate.Value += r.Rate.Value
			continue
		}
		merged := *r
		byKey[key] = &merged
		order = append(order, key)
	}
	out := make([]*Reaction, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

// cartesianFates computes the combined fate distribution of a list of
// products reacting independently: each product that is already resting
// contributes a certain (probability 1) single-macrostate fate, each
// transient product contributes its own precomputed fate distribution,
// and the combination is their cartesian product (§4.6 step 3).
func cartesianFates(products []*Complex, complexToMacrostate map[*Complex]*Macrostate, memo map[*Complex][]fate) ([]fate, error) {
	if len(products) == 0 {
		return []fate{{prob: 1.0}}, nil
	}
	head, err := fatesOf(products[0], complexToMacrostate, memo)
	if err != nil {
		return nil, err
	}
	tail, err := cartesianFates(products[1:], complexToMacrostate, memo)
	if err != nil {
		return nil, err
	}
	out := make([]fate, 0, len(head)*len(tail))
	for _, h := range head {
		for _, t := range tail {
			combined := make([]*Macrostate, 0, len(h.macrostates)+len(t.macrostates))
			combined = append(combined, h.macrostates...)
			combined = append(combined, t.macrostates...)
			out = append(out, fate{macrostates: combined, prob: h.prob * t.prob})
		}
	}
	return out, nil
}

// fatesOf returns c's fate distribution: a single certain fate if c is
// already resting, or its precomputed distribution (from
// precomputeFates) otherwise.
func fatesOf(c *Complex, complexToMacrostate map[*Complex]*Macrostate, memo map[*Complex][]fate) ([]fate, error) {
	if m, ok := complexToMacrostate[c]; ok {
		return []fate{{macrostates: []*Macrostate{m}, prob: 1.0}}, nil
	}
	if cached, ok := memo[c]; ok {
		return cached, nil
	}
	return nil, fmt.Errorf("transient complex %s has no resolved fate (missing fast exit reaction?)", c.KernelString())
}
