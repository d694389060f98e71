package enumerator

import (
	"fmt"
	"sort"
	"strings"
)

// ReactionType names the elementary move (or the condensation step) that
// produced a Reaction.
type ReactionType string

const (
	ReactionBind11    ReactionType = "bind11"
	ReactionBind21    ReactionType = "bind21"
	ReactionOpen1N    ReactionType = "open1N"
	ReactionBranch3Way ReactionType = "branch-3way"
	ReactionBranch4Way ReactionType = "branch-4way"
	ReactionCondensed ReactionType = "condensed"
)

// RateUnits encodes the order of a rate constant, which in turn determines
// how it combines dimensionally: unimolecular rates are per-second,
// bimolecular rates are per-molar-per-second.
type RateUnits int

const (
	UnitsPerSecond RateUnits = iota + 1
	UnitsPerMolarPerSecond
)

func (u RateUnits) String() string {
	switch u {
	case UnitsPerSecond:
		return "/s"
	case UnitsPerMolarPerSecond:
		return "/M/s"
	default:
		return "?"
	}
}

// RateConstant is a reaction rate together with the units that disambiguate
// its reaction order.
type RateConstant struct {
	Value float64
	Units RateUnits
}

// Arity is the (reactant count, product count) shape of a reaction.
type Arity struct {
	Reactants int
	Products  int
}

// Reaction is an immutable tuple (reactants, products, type, rate, arity).
// The reverse-reaction link, when known, is tracked out of band by the
// Enumerator's reverseIdx (a ReverseIndex) rather than by mutating this struct (§9 design
// note: "prefer building the reverse-reaction map as a side index rather
// than mutating reaction objects").
type Reaction struct {
	Reactants []*Complex
	Products  []*Complex
	Type      ReactionType
	Rate      RateConstant
}

// NewReaction builds a Reaction and derives its Arity from the reactant
// and product counts.
func NewReaction(rtype ReactionType, reactants, products []*Complex, rate RateConstant) *Reaction {
	return &Reaction{
		Reactants: append([]*Complex(nil), reactants...),
		Products:  append([]*Complex(nil), products...),
		Type:      rtype,
		Rate:      rate,
	}
}

// Arity returns the (|reactants|, |products|) shape of the reaction.
func (r *Reaction) Arity() Arity {
	return Arity{Reactants: len(r.Reactants), Products: len(r.Products)}
}

// IsUnimolecular reports whether this is a one-reactant reaction.
func (r *Reaction) IsUnimolecular() bool {
	return len(r.Reactants) == 1
}

// IsBimolecular reports whether this is a two-reactant reaction.
func (r *Reaction) IsBimolecular() bool {
	return len(r.Reactants) == 2
}

// Key is a canonical identity string for a reaction, insensitive to the
// order of both reactants and products: two Reaction values that name the same
// reactants, products, and type collapse to the same Key, which is how the
// driver's reaction set deduplicates (Go map keyed on Key, since
// *Reaction pointers from two different generator calls for an
// already-seen transition are otherwise distinct objects).
func (r *Reaction) Key() string {
	var sb strings.Builder
	sb.WriteString(string(r.Type))
	sb.WriteString("|")
	writeComplexes(&sb, r.Reactants)
	sb.WriteString("=>")
	writeComplexes(&sb, r.Products)
	return sb.String()
}

func writeComplexes(sb *strings.Builder, cplxs []*Complex) {
	forms := make([]string, len(cplxs))
	for i, c := range cplxs {
		forms[i] = c.CanonicalForm()
	}
	// Reactant/product order is significant for bind21 (cplx1, cplx2) vs
	// (cplx2, cplx1) only insofar as the generator distinguishes them;
	// Peppercorn's own bind21 is symmetric in effect, so sorting here
	// collapses (A,B) and (B,A) onto one key, matching the set semantics
	// the spec requires of the accumulated reaction set.
	sort.Strings(forms)
	for i, f := range forms {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(f)
	}
}

func (r *Reaction) String() string {
	reactantNames := make([]string, len(r.Reactants))
	for i, c := range r.Reactants {
		reactantNames[i] = c.KernelString()
	}
	productNames := make([]string, len(r.Products))
	for i, c := range r.Products {
		productNames[i] = c.KernelString()
	}
	return fmt.Sprintf("%s -> %s (%s, %.3g%s)",
		strings.Join(reactantNames, " + "),
		strings.Join(productNames, " + "),
		r.Type, r.Rate.Value, r.Rate.Units)
}

// ReverseIndex tracks, lazily and without mutating Reaction values, the
// reverse-reaction relationship between reactions discovered during
// enumeration (§9 design note).
type ReverseIndex struct {
	byForward map[string]*Reaction
}

// NewReverseIndex creates an empty index.
func NewReverseIndex() *ReverseIndex {
	return &ReverseIndex{byForward: make(map[string]*Reaction)}
}

// Add records r for later reverse lookup.
func (ri *ReverseIndex) Add(r *Reaction) {
	ri.byForward[r.Key()] = r
}

// Reverse returns r's reverse reaction, if one has been recorded: the
// reaction whose reactants are r's products and vice versa, of the
// structurally inverse type (bind11<->open1N with arity (1,1),
// bind21<->open1N with arity (1,2)).
func (ri *ReverseIndex) Reverse(r *Reaction) (*Reaction, bool) {
	candidate := &Reaction{
		Reactants: r.Products,
		Products:  r.Reactants,
		Type:      reverseType(r.Type, r.Arity()),
	}
	if candidate.Type == "" {
		return nil, false
	}
	rev, ok := ri.byForward[candidate.Key()]
	return rev, ok
}

func reverseType(rtype ReactionType, arity Arity) ReactionType {
	oneToOne := arity.Reactants == 1 && arity.Products == 1
	oneToTwo := arity.Reactants == 1 && arity.Products == 2
	switch {
	case rtype == ReactionOpen1N && oneToOne:
		return ReactionBind11
	case rtype == ReactionOpen1N && oneToTwo:
		return ReactionBind21
	case rtype == ReactionBind11 || rtype == ReactionBind21:
		return ReactionOpen1N
	default:
		return ""
	}
}
