package enumerator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gitrdm/peppercore/internal/enumlog"
	"github.com/gitrdm/peppercore/internal/parallel"
)

// complexQueue is an insertion-ordered set of complexes supporting O(1)
// membership tests and removal from either end, used for the driver's B,
// F, and S pools (§3, §4.5). Using a slice-backed queue rather than a bare
// Go map keeps pop order reproducible across runs with identical input —
// Go deliberately randomizes map iteration, which would otherwise make
// macrostate naming order (though never the output sets themselves)
// nondeterministic between runs of the same enumeration.
type complexQueue struct {
	items []*Complex
	has   map[*Complex]bool
}

func newComplexQueue() *complexQueue {
	return &complexQueue{has: make(map[*Complex]bool)}
}

func (q *complexQueue) push(c *Complex) {
	if q.has[c] {
		return
	}
	q.has[c] = true
	q.items = append(q.items, c)
}

func (q *complexQueue) remove(c *Complex) {
	if !q.has[c] {
		return
	}
	delete(q.has, c)
	for i, x := range q.items {
		if x == c {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
}

func (q *complexQueue) contains(c *Complex) bool { return q.has[c] }
func (q *complexQueue) empty() bool              { return len(q.items) == 0 }
func (q *complexQueue) len() int                 { return len(q.items) }

func (q *complexQueue) popBack() *Complex {
	n := len(q.items) - 1
	c := q.items[n]
	q.items = q.items[:n]
	delete(q.has, c)
	return c
}

func (q *complexQueue) popFront() *Complex {
	c := q.items[0]
	q.items = q.items[1:]
	delete(q.has, c)
	return c
}

func (q *complexQueue) snapshot() []*Complex {
	return append([]*Complex(nil), q.items...)
}

// Enumerator holds the working state of one enumeration run: the six
// pools of §3, the accumulated reaction set, the resting macrostates
// discovered so far, and the registries and reaction generator it was
// built with. An Enumerator is used for exactly one enumeration; build a
// new one (with fresh registries) to enumerate again, per §5/§9's guidance
// that registries are scoped to one run rather than process-wide globals.
type Enumerator struct {
	opts Options
	gen  ReactionGenerator

	registry   *ComplexRegistry
	msRegistry *MacrostateRegistry
	reverseIdx *ReverseIndex

	releaseCutoff11 int
	releaseCutoff1N int
	maxComplexSize  int
	maxComplexCount int
	maxReactionCount int

	initial         []*Complex
	representatives map[*Complex]bool

	e map[*Complex]bool
	s *complexQueue
	t map[*Complex]bool
	n map[*Complex]bool
	f *complexQueue
	b *complexQueue

	reactions          map[string]*Reaction
	restingMacrostates []*Macrostate

	workers *parallel.WorkerPool

	enumerated bool
	premature  bool

	condensed       []*Reaction
	condensedCached bool
}

// NewEnumerator validates opts against the initial complex set, interns
// the initial complexes (and any NamedComplexes) into a fresh registry,
// and seeds the bimolecular-product pool B with them, ready for
// Enumerate() or DryRun().
func NewEnumerator(gen ReactionGenerator, initial []*Complex, opts Options) (*Enumerator, error) {
	if gen == nil {
		return nil, usageErrorf("NewEnumerator", "reaction generator must not be nil")
	}
	if err := opts.validate(initial); err != nil {
		return nil, err
	}

	maxSize := opts.MaxComplexSize
	if maxSize == 0 {
		maxSize = DefaultOptions().MaxComplexSize
	}
	implied := releaseCutoffFor(opts.KSlow, opts.DGBp)
	r11 := opts.ReleaseCutoff11
	if implied > r11 {
		r11 = implied
	}
	r1n := opts.ReleaseCutoff1N
	if implied > r1n {
		r1n = implied
	}

	en := &Enumerator{
		opts:             opts,
		gen:              gen,
		registry:         NewComplexRegistry(),
		msRegistry:       NewMacrostateRegistry(),
		reverseIdx:       NewReverseIndex(),
		releaseCutoff11:  r11,
		releaseCutoff1N:  r1n,
		maxComplexSize:   maxSize,
		maxComplexCount:  opts.resolvedMaxComplexCount(len(initial)),
		maxReactionCount: opts.resolvedMaxReactionCount(0),
		representatives:  make(map[*Complex]bool),
		e:                make(map[*Complex]bool),
		s:                newComplexQueue(),
		t:                make(map[*Complex]bool),
		n:                make(map[*Complex]bool),
		f:                newComplexQueue(),
		b:                newComplexQueue(),
		reactions:        make(map[string]*Reaction),
	}

	for _, c := range initial {
		interned, _ := en.registry.Intern(c)
		en.representatives[interned] = true
		en.initial = append(en.initial, interned)
		en.b.push(interned)
	}
	for _, c := range opts.NamedComplexes {
		interned, _ := en.registry.Intern(c)
		en.representatives[interned] = true
	}

	if opts.MaxParallelGenerators > 1 {
		en.workers = parallel.NewWorkerPool(opts.MaxParallelGenerators)
	}

	return en, nil
}

// closeWorkers shuts down the bounded generator-fanout pool, if one was
// configured. Safe to call even when no pool was created.
func (en *Enumerator) closeWorkers() {
	if en.workers != nil {
		en.workers.Shutdown()
	}
}

func (en *Enumerator) generatorOptions() GeneratorOptions {
	return GeneratorOptions{
		MaxHelix:  en.opts.MaxHelix,
		Remote:    !en.opts.RejectRemote,
		Release11: en.releaseCutoff11,
		Release1N: en.releaseCutoff1N,
		DGBp:      en.opts.DGBp,
	}
}

// Enumerate runs the two-level worklist algorithm of §4.5 to completion
// (or to a premature finish on overflow/cancellation, when Interruptible).
// It may be called at most once per Enumerator.
func (en *Enumerator) Enumerate(ctx context.Context) error {
	if en.enumerated {
		return usageErrorf("Enumerator.Enumerate", "enumerate or dry-run already called on this enumerator")
	}
	err := en.runToFixpoint(ctx)
	en.enumerated = true
	en.closeWorkers()
	return err
}

// DryRun seeds each initial complex as its own singleton resting
// macrostate without generating any reactions (§8 scenario S6), useful
// for sanity-checking a parsed system before committing to full
// enumeration.
func (en *Enumerator) DryRun() error {
	if en.enumerated {
		return usageErrorf("Enumerator.DryRun", "enumerate or dry-run already called on this enumerator")
	}
	for _, c := range en.initial {
		ms, fresh := en.msRegistry.Intern([]*Complex{c}, func() *Macrostate {
			return newMacrostate([]*Complex{c}, en.representatives)
		})
		if fresh {
			en.restingMacrostates = append(en.restingMacrostates, ms)
		}
		en.e[c] = true
		en.b.remove(c)
	}
	en.enumerated = true
	en.closeWorkers()
	return nil
}

// runToFixpoint implements §4.5's outer pseudocode: drain B through
// process_fast_neighborhood, then drain S through the slow cross-reaction
// step, re-feeding B from each batch of new products, until both are
// empty or an overflow/cancellation forces a premature finish.
func (en *Enumerator) runToFixpoint(ctx context.Context) error {
	err := en.drive(ctx)
	if err != nil {
		if en.opts.Interruptible && (IsPolymerizationOverflow(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			enumlog.Warnf("enumeration finishing prematurely: %v", err)
			en.finish(true)
			return nil
		}
		return err
	}
	en.finish(false)
	return nil
}

func (en *Enumerator) drive(ctx context.Context) error {
	for !en.b.empty() {
		if err := en.checkCancel(ctx); err != nil {
			return err
		}
		if err := en.processFastNeighborhood(ctx, en.b.popBack()); err != nil {
			return err
		}
	}

	for !en.s.empty() {
		if err := en.checkCancel(ctx); err != nil {
			return err
		}
		var c *Complex
		if en.opts.DFS {
			c = en.s.popBack()
		} else {
			c = en.s.popFront()
		}

		against := make([]*Complex, 0, len(en.e)+1)
		for m := range en.e {
			against = append(against, m)
		}
		against = append(against, c) // self-reaction, homodimerization (§9)

		slow, err := en.getSlowReactions(ctx, c, against)
		if err != nil {
			return err
		}
		kept, fresh := en.newProducts(slow)
		en.commitReactions(kept, "slow")
		en.e[c] = true
		if err := en.checkLimits(); err != nil {
			return err
		}
		for _, p := range fresh {
			en.b.push(p)
		}

		for !en.b.empty() {
			if err := en.checkCancel(ctx); err != nil {
				return err
			}
			if err := en.processFastNeighborhood(ctx, en.b.popBack()); err != nil {
				return err
			}
		}
	}
	return nil
}

// processFastNeighborhood implements §4.5's inner loop: grow the fast-
// reaction frontier F from source until it closes, segment the resulting
// neighborhood N, and commit the segmentation's resting/transient
// classification and reactions.
func (en *Enumerator) processFastNeighborhood(ctx context.Context, source *Complex) error {
	en.f.push(source)
	var neighborhoodRxns []*Reaction

	for !en.f.empty() {
		if err := en.checkCancel(ctx); err != nil {
			return err
		}
		e := en.f.popBack()
		fast, err := en.getFastReactions(ctx, e)
		if err != nil {
			return err
		}
		kept, fresh := en.newProducts(fast)
		neighborhoodRxns = append(neighborhoodRxns, kept...)
		for _, p := range fresh {
			en.f.push(p)
		}
		en.n[e] = true
	}

	members := make([]*Complex, 0, len(en.n))
	for c := range en.n {
		members = append(members, c)
	}
	sortComplexes(members)

	seg, err := segmentNeighborhood(members, neighborhoodRxns, en.representatives, en.opts.PMin, en.msRegistry)
	if err != nil {
		return err
	}
	for _, c := range seg.RestingComplexes {
		en.s.push(c)
	}
	for _, c := range seg.TransientComplexes {
		en.t[c] = true
	}
	en.restingMacrostates = append(en.restingMacrostates, seg.RestingMacrostates...)
	en.commitReactions(neighborhoodRxns, "fast")

	en.n = make(map[*Complex]bool)
	return en.checkLimits()
}

// newProducts applies §4.5.1's deduplication rules to a batch of
// candidate reactions: every product is interned (so structurally equal
// products from independent generator calls collapse to one instance),
// reactions whose product set includes an oversized complex are dropped
// entirely, and each surviving product is reported as "fresh" at most
// once per batch — and only if it was not already known in any pool.
// Fresh products already sitting in B are removed from it, since they are
// being promoted into the current neighborhood.
func (en *Enumerator) newProducts(candidates []*Reaction) (kept []*Reaction, fresh []*Complex) {
	seenThisBatch := make(map[*Complex]bool)
	for _, r := range candidates {
		resolved := make([]*Complex, len(r.Products))
		oversized := false
		for i, p := range r.Products {
			interned, _ := en.registry.Intern(p)
			resolved[i] = interned
			if en.maxComplexSize > 0 && interned.Size() > en.maxComplexSize {
				oversized = true
			}
		}
		if oversized {
			enumlog.Warnf("dropping %s reaction: a product exceeds max_complex_size", r.Type)
			continue
		}
		for _, interned := range resolved {
			if en.inKnownPool(interned) || seenThisBatch[interned] {
				continue
			}
			en.b.remove(interned)
			seenThisBatch[interned] = true
			fresh = append(fresh, interned)
		}
		kept = append(kept, NewReaction(r.Type, r.Reactants, resolved, r.Rate))
	}
	return kept, fresh
}

func (en *Enumerator) inKnownPool(c *Complex) bool {
	return en.e[c] || en.s.contains(c) || en.t[c] || en.n[c] || en.f.contains(c)
}

func (en *Enumerator) getFastReactions(ctx context.Context, c *Complex) ([]*Reaction, error) {
	candidates, err := en.gen.Unimolecular(ctx, c, en.generatorOptions())
	if err != nil {
		return nil, &GeneratorFailure{Reactant: c.KernelString(), ReactantID: en.registry.ID(c), Err: err}
	}
	var out []*Reaction
	for _, r := range candidates {
		if classifyUnimolecular(r.Rate.Value, en.opts.KSlow, en.opts.KFast) == RateFast {
			out = append(out, r)
		}
	}
	return out, nil
}

func (en *Enumerator) getSlowReactions(ctx context.Context, c *Complex, against []*Complex) ([]*Reaction, error) {
	uni, err := en.gen.Unimolecular(ctx, c, en.generatorOptions())
	if err != nil {
		return nil, &GeneratorFailure{Reactant: c.KernelString(), ReactantID: en.registry.ID(c), Err: err}
	}
	var out []*Reaction
	for _, r := range uni {
		if classifyUnimolecular(r.Rate.Value, en.opts.KSlow, en.opts.KFast) == RateSlow {
			out = append(out, r)
		}
	}
	// Every bimolecular reaction is slow by definition (§4.3); no rate
	// filtering applies to what either path below collects.
	if en.workers == nil || len(against) <= 1 {
		for _, other := range against {
			bi, err := en.gen.Bimolecular(ctx, c, other, en.generatorOptions())
			if err != nil {
				return nil, &GeneratorFailure{Reactant: c.KernelString(), ReactantID: en.registry.ID(c), Err: err}
			}
			out = append(out, bi...)
		}
		return out, nil
	}

	// Fan the per-partner generator calls out across the bounded pool
	// (§5's concurrency expansion): each call is independent, and results
	// are folded back in partner order so the accumulated reaction set is
	// identical to the sequential path regardless of completion order.
	results := make([][]*Reaction, len(against))
	errs := make([]error, len(against))
	var wg sync.WaitGroup
	for i, other := range against {
		i, other := i, other
		wg.Add(1)
		if submitErr := en.workers.Submit(ctx, func() {
			defer wg.Done()
			bi, err := en.gen.Bimolecular(ctx, c, other, en.generatorOptions())
			results[i], errs[i] = bi, err
		}); submitErr != nil {
			errs[i] = submitErr
			wg.Done()
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, &GeneratorFailure{Reactant: c.KernelString(), ReactantID: en.registry.ID(c), Err: err}
		}
	}
	for _, bi := range results {
		out = append(out, bi...)
	}
	return out, nil
}

// commitReactions folds newly discovered reactions into the accumulated
// set, keyed by Reaction.Key() so that the same transition discovered
// from two different directions collapses to one entry, records the
// reverse-reaction side index, and invokes the OnReaction hook.
func (en *Enumerator) commitReactions(rxns []*Reaction, phase string) {
	for _, r := range rxns {
		key := r.Key()
		if _, exists := en.reactions[key]; exists {
			continue
		}
		en.reactions[key] = r
		en.reverseIdx.Add(r)
		enumlog.Debugf("committed %s reaction %s (reactant ids %v) in phase %s", r.Type, r, en.reactantIDs(r), phase)
		if en.opts.OnReaction != nil {
			en.opts.OnReaction(r, phase)
		}
	}
}

// reactantIDs returns the registry arena id of each of r's reactants, for
// debug-log correlation with a GeneratorFailure's ReactantID.
func (en *Enumerator) reactantIDs(r *Reaction) []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Reactants))
	for i, reactant := range r.Reactants {
		ids[i] = en.registry.ID(reactant)
	}
	return ids
}

func (en *Enumerator) checkLimits() error {
	total := len(en.e) + len(en.t) + en.s.len()
	if en.maxComplexCount > 0 && total > en.maxComplexCount {
		return &PolymerizationOverflow{Msg: fmt.Sprintf("complex count %d exceeds max_complex_count %d", total, en.maxComplexCount)}
	}
	if en.maxReactionCount > 0 && len(en.reactions) > en.maxReactionCount {
		return &PolymerizationOverflow{Msg: fmt.Sprintf("reaction count %d exceeds max_reaction_count %d", len(en.reactions), en.maxReactionCount)}
	}
	return nil
}

func (en *Enumerator) checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// finish implements §4.5.2's invariant-preserving cleanup: on a premature
// finish, every complex still waiting in S is promoted straight to E
// (resting complexes already carry their macrostate from segmentation,
// they were merely waiting on cross-reactions against the rest of E), and
// every accumulated reaction whose reactants or products are not in the
// final complex set is discarded.
func (en *Enumerator) finish(premature bool) {
	en.premature = premature
	if !premature {
		return
	}
	for _, c := range en.s.snapshot() {
		en.e[c] = true
	}
	en.s = newComplexQueue()

	final := make(map[*Complex]bool, len(en.e)+len(en.t))
	for c := range en.e {
		final[c] = true
	}
	for c := range en.t {
		final[c] = true
	}
	for key, r := range en.reactions {
		ok := true
		for _, c := range r.Reactants {
			if !final[c] {
				ok = false
			}
		}
		if ok {
			for _, c := range r.Products {
				if !final[c] {
					ok = false
				}
			}
		}
		if !ok {
			delete(en.reactions, key)
		}
	}
}

func (en *Enumerator) requireEnumerated(op string) error {
	if !en.enumerated {
		return usageErrorf(op, "called before Enumerate or DryRun completed")
	}
	return nil
}

// Complexes returns every complex in the result (resting union transient),
// sorted by canonical order.
func (en *Enumerator) Complexes() ([]*Complex, error) {
	if err := en.requireEnumerated("Enumerator.Complexes"); err != nil {
		return nil, err
	}
	out := make([]*Complex, 0, len(en.e)+len(en.t))
	for c := range en.e {
		out = append(out, c)
	}
	for c := range en.t {
		out = append(out, c)
	}
	sortComplexes(out)
	return out, nil
}

// RestingComplexes returns the complexes classified resting, sorted by
// canonical order.
func (en *Enumerator) RestingComplexes() ([]*Complex, error) {
	if err := en.requireEnumerated("Enumerator.RestingComplexes"); err != nil {
		return nil, err
	}
	out := make([]*Complex, 0, len(en.e))
	for c := range en.e {
		out = append(out, c)
	}
	sortComplexes(out)
	return out, nil
}

// TransientComplexes returns the complexes classified transient, sorted by
// canonical order.
func (en *Enumerator) TransientComplexes() ([]*Complex, error) {
	if err := en.requireEnumerated("Enumerator.TransientComplexes"); err != nil {
		return nil, err
	}
	out := make([]*Complex, 0, len(en.t))
	for c := range en.t {
		out = append(out, c)
	}
	sortComplexes(out)
	return out, nil
}

// RestingMacrostates returns the resting macrostates discovered during
// enumeration, sorted by representative canonical form.
func (en *Enumerator) RestingMacrostates() ([]*Macrostate, error) {
	if err := en.requireEnumerated("Enumerator.RestingMacrostates"); err != nil {
		return nil, err
	}
	out := append([]*Macrostate(nil), en.restingMacrostates...)
	sortMacrostates(out)
	return out, nil
}

// Reactions returns the detailed reaction set, sorted by Key for
// determinism.
func (en *Enumerator) Reactions() ([]*Reaction, error) {
	if err := en.requireEnumerated("Enumerator.Reactions"); err != nil {
		return nil, err
	}
	out := make([]*Reaction, 0, len(en.reactions))
	for _, r := range en.reactions {
		out = append(out, r)
	}
	sortReactions(out)
	return out, nil
}

// CondensedReactions lazily computes and returns the condensed
// (macrostate-level) reaction network (§4.6), memoizing the result.
func (en *Enumerator) CondensedReactions() ([]*Reaction, error) {
	if err := en.requireEnumerated("Enumerator.CondensedReactions"); err != nil {
		return nil, err
	}
	if !en.condensedCached {
		rxns, err := condenseNetwork(en.restingMacrostates, en.reactions, en.opts.KSlow, en.opts.KFast)
		if err != nil {
			return nil, fmt.Errorf("Enumerator.CondensedReactions: %w", err)
		}
		en.condensed = rxns
		en.condensedCached = true
	}
	return append([]*Reaction(nil), en.condensed...), nil
}

// WasPremature reports whether the run ended via finish(premature=true).
func (en *Enumerator) WasPremature() bool {
	return en.premature
}

func sortMacrostates(ms []*Macrostate) {
	sort.Slice(ms, func(i, j int) bool {
		return ms[i].Representative().CanonicalForm() < ms[j].Representative().CanonicalForm()
	})
}

func sortReactions(rs []*Reaction) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Key() < rs[j].Key() })
}
