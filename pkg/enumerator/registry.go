package enumerator

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ComplexRegistry is a canonicalizing table mapping a complex's canonical
// form to a unique *Complex instance. It guarantees that equal complexes
// (same canonical structure) share identity throughout one enumeration:
// reaction generators that produce a "new" product which happens to
// canonicalize to an already-known complex collapse onto the interned
// instance, which is essential for the driver's pool-membership tests
// (§4.1, §9 "arena-allocated nodes referenced by stable ids").
//
// A ComplexRegistry is owned by one Enumerator for the lifetime of one
// enumeration run; it is not a process-wide singleton (§9's design note:
// "Prefer an enumerator-owned interning table passed into generators").
// Its methods lock, so concurrent interning is safe; the driver itself
// interns products on one goroutine (newProducts), after any parallel
// generator calls have returned.
type ComplexRegistry struct {
	mu      sync.Mutex
	byForm  map[string]*Complex
	ids     map[*Complex]uuid.UUID
	stats   RegistryStats
}

// RegistryStats tracks interning activity for diagnostics.
type RegistryStats struct {
	Interned int64 // number of genuinely new complexes interned
	Hits     int64 // number of Intern calls that resolved to an existing complex
}

// NewComplexRegistry creates an empty registry.
func NewComplexRegistry() *ComplexRegistry {
	return &ComplexRegistry{
		byForm: make(map[string]*Complex),
		ids:    make(map[*Complex]uuid.UUID),
	}
}

// Intern returns the unique *Complex for cplx's canonical form. If an
// equal complex was already interned, Intern returns that existing
// instance and fresh is false (mirroring §4.1's "AlreadyExists(existing)"
// contract, expressed here as a return value rather than a Go error,
// since resolving to the existing instance is the expected, non-exceptional
// outcome for every reaction generator product). If cplx is genuinely new,
// Intern stores it and returns (cplx, true).
func (r *ComplexRegistry) Intern(cplx *Complex) (unique *Complex, fresh bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form := cplx.CanonicalForm()
	if existing, ok := r.byForm[form]; ok {
		r.stats.Hits++
		return existing, false
	}
	r.byForm[form] = cplx
	r.ids[cplx] = uuid.New()
	r.stats.Interned++
	return cplx, true
}

// Lookup returns the interned complex for a canonical form, if any.
func (r *ComplexRegistry) Lookup(canonicalForm string) (*Complex, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byForm[canonicalForm]
	return c, ok
}

// ID returns the stable arena id assigned to cplx when it was interned.
// Two interned complexes are identical (in the Go == sense) iff their IDs
// are equal; the ID exists only to give log lines and generator-failure
// messages a short stable tag, never for equality (equality is always by
// canonical form).
func (r *ComplexRegistry) ID(cplx *Complex) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[cplx]
}

// Stats returns a snapshot of interning activity.
func (r *ComplexRegistry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Len reports how many distinct complexes are interned.
func (r *ComplexRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byForm)
}

// MacrostateRegistry is the analogous singleton for resting macrostates: a
// macrostate is uniquely identified by its member set (§3), so two
// segmentation passes that discover the same SCC must yield the same
// *Macrostate object.
type MacrostateRegistry struct {
	mu      sync.Mutex
	byKey   map[string]*Macrostate
	ids     map[*Macrostate]uuid.UUID
}

// NewMacrostateRegistry creates an empty registry.
func NewMacrostateRegistry() *MacrostateRegistry {
	return &MacrostateRegistry{
		byKey: make(map[string]*Macrostate),
		ids:   make(map[*Macrostate]uuid.UUID),
	}
}

// Intern returns the unique *Macrostate for a member set, creating one via
// build if none exists yet.
func (r *MacrostateRegistry) Intern(members []*Complex, build func() *Macrostate) (*Macrostate, bool) {
	key := macrostateKey(members)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byKey[key]; ok {
		return existing, false
	}
	ms := build()
	r.byKey[key] = ms
	r.ids[ms] = uuid.New()
	return ms, true
}

func macrostateKey(members []*Complex) string {
	forms := make([]string, len(members))
	for i, m := range members {
		forms[i] = m.CanonicalForm()
	}
	// Member sets are compared regardless of order, but segmentation
	// always hands us the same SCC in the same internal order for a given
	// input, so a stable sort keeps this cheap and correct.
	sort.Strings(forms)
	out := ""
	for _, f := range forms {
		out += f + "\x00"
	}
	return out
}
