package enumerator

import "sort"

// SegmentResult is the output of segmenting a neighborhood (§4.4):
// resting macrostates, the resting complexes that belong to them, and the
// transient complexes, each sorted by canonical order for determinism.
type SegmentResult struct {
	RestingMacrostates []*Macrostate
	RestingComplexes   []*Complex
	TransientComplexes []*Complex
}

// segmentNeighborhood classifies a set of complexes as transient or
// resting, given the unimolecular reactions among them (§4.4).
//
// complexes is the set C; reactions is the list R of unimolecular
// reactions whose reactants lie in C (reactions with more than one
// reactant, or whose reactant is not in C, are ignored defensively — the
// driver never passes those in, but segmentation must stay correct if it
// is ever called on an incomplete slice).
//
// The directed graph G used for the Tarjan pass only has an edge
// reactant->product when product is also in C (§4.4 step 1); products
// outside C ("exit products") do not create a G edge, but they are still
// consulted — alongside products that land in C but in a different SCC —
// when deciding whether an SCC is resting (no fast edge leaves it) or
// transient.
func segmentNeighborhood(complexes []*Complex, reactions []*Reaction, representatives map[*Complex]bool, pMin float64, registry *MacrostateRegistry) (SegmentResult, error) {
	inSet := make(map[*Complex]bool, len(complexes))
	for _, c := range complexes {
		inSet[c] = true
	}

	within := make(map[*Complex][]*Complex, len(complexes))
	consuming := make(map[*Complex][]*Reaction, len(complexes))
	for _, r := range reactions {
		if len(r.Reactants) != 1 {
			continue
		}
		reactant := r.Reactants[0]
		if !inSet[reactant] {
			continue
		}
		consuming[reactant] = append(consuming[reactant], r)
		for _, p := range r.Products {
			if inSet[p] {
				within[reactant] = append(within[reactant], p)
			}
		}
	}

	sccs := tarjanSCCs(complexes, within)

	var result SegmentResult
	for _, scc := range sccs {
		members := make(map[*Complex]bool, len(scc))
		for _, c := range scc {
			members[c] = true
		}
		transient := false
		for _, c := range scc {
			for _, r := range consuming[c] {
				for _, p := range r.Products {
					if !members[p] {
						transient = true
					}
				}
			}
		}
		if transient {
			result.TransientComplexes = append(result.TransientComplexes, scc...)
			continue
		}

		ms, fresh := registry.Intern(scc, func() *Macrostate { return newMacrostate(scc, representatives) })
		if fresh {
			for _, c := range scc {
				for _, r := range consuming[c] {
					ms.addReaction(r)
				}
			}
		}
		result.RestingMacrostates = append(result.RestingMacrostates, ms)

		if pMin > 0 {
			dist, err := ms.StationaryDistribution()
			if err != nil {
				return SegmentResult{}, err
			}
			for _, c := range scc {
				if dist[c] < pMin {
					result.TransientComplexes = append(result.TransientComplexes, c)
				} else {
					result.RestingComplexes = append(result.RestingComplexes, c)
				}
			}
		} else {
			result.RestingComplexes = append(result.RestingComplexes, scc...)
		}
	}

	sortComplexes(result.RestingComplexes)
	sortComplexes(result.TransientComplexes)
	sort.Slice(result.RestingMacrostates, func(i, j int) bool {
		return result.RestingMacrostates[i].Representative().CanonicalForm() <
			result.RestingMacrostates[j].Representative().CanonicalForm()
	})
	return result, nil
}

func sortComplexes(cs []*Complex) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].CanonicalForm() < cs[j].CanonicalForm() })
}

// tarjanFrame is one level of the explicit DFS stack used by tarjanSCCs:
// the node being explored and how far its neighbor iteration has
// progressed. Keeping this on an explicit slice (rather than recursing)
// is required by §4.4 step 2 and §5/§9: a recursive Tarjan pass is "a
// known defect" on deep graphs because it exhausts the call stack.
type tarjanFrame struct {
	node        *Complex
	neighborIdx int
}

// tarjanSCCs runs Tarjan's strongly-connected-components algorithm over
// the graph (nodes, adj) using an explicit work stack instead of
// recursion. SCCs are returned in the order Tarjan discovers them
// (reverse topological order); within each SCC, members are listed in the
// order they were popped off the algorithm's node stack, which is what
// lets the caller honor "first element of K by iteration" when picking a
// representative (§4.4 step 3).
func tarjanSCCs(nodes []*Complex, adj map[*Complex][]*Complex) [][]*Complex {
	index := make(map[*Complex]int, len(nodes))
	lowlink := make(map[*Complex]int, len(nodes))
	onStack := make(map[*Complex]bool, len(nodes))
	var nodeStack []*Complex
	var sccs [][]*Complex
	counter := 0

	for _, start := range nodes {
		if _, seen := index[start]; seen {
			continue
		}

		callStack := []*tarjanFrame{{node: start}}
		index[start] = counter
		lowlink[start] = counter
		counter++
		nodeStack = append(nodeStack, start)
		onStack[start] = true

		for len(callStack) > 0 {
			frame := callStack[len(callStack)-1]
			v := frame.node
			neighbors := adj[v]

			if frame.neighborIdx < len(neighbors) {
				w := neighbors[frame.neighborIdx]
				frame.neighborIdx++
				if _, seen := index[w]; !seen {
					index[w] = counter
					lowlink[w] = counter
					counter++
					nodeStack = append(nodeStack, w)
					onStack[w] = true
					callStack = append(callStack, &tarjanFrame{node: w})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			// Exhausted v's neighbors: pop v's frame and propagate its
			// lowlink to its caller, exactly as the recursive version's
			// return value would.
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := callStack[len(callStack)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}
			if lowlink[v] == index[v] {
				var scc []*Complex
				for {
					n := nodeStack[len(nodeStack)-1]
					nodeStack = nodeStack[:len(nodeStack)-1]
					onStack[n] = false
					scc = append(scc, n)
					if n == v {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	}
	return sccs
}
