// Package testgen provides deterministic ReactionGenerator test doubles
// driven by literal reaction tables, for exercising the enumeration driver
// and condensation engine without a real strand-displacement kinetics
// model. Each fixture constructs a small, hand-checked complex/reaction
// set and is good for exactly the scenario it names.
package testgen

import (
	"context"
	"sort"
	"strings"

	"github.com/gitrdm/peppercore/pkg/enumerator"
)

// Literal is a ReactionGenerator backed by fixed per-complex and
// per-complex-pair reaction tables. Unimolecular(c) returns Uni[c's
// canonical form] verbatim; Bimolecular(c1, c2) returns Bi[pairKey(c1, c2)]
// verbatim (the key is order-independent, so c1==c2 self-reactions and
// either argument order both resolve to the same entry).
type Literal struct {
	Uni map[string][]*enumerator.Reaction
	Bi  map[string][]*enumerator.Reaction
}

// NewLiteral builds an empty literal generator ready to have entries added.
func NewLiteral() *Literal {
	return &Literal{Uni: make(map[string][]*enumerator.Reaction), Bi: make(map[string][]*enumerator.Reaction)}
}

// AddUnimolecular registers rxns as the candidate unimolecular reactions
// for cplx.
func (l *Literal) AddUnimolecular(cplx *enumerator.Complex, rxns ...*enumerator.Reaction) {
	l.Uni[cplx.CanonicalForm()] = append(l.Uni[cplx.CanonicalForm()], rxns...)
}

// AddBimolecular registers rxns as the candidate bind21 reactions between
// a and b (order-independent).
func (l *Literal) AddBimolecular(a, b *enumerator.Complex, rxns ...*enumerator.Reaction) {
	key := pairKey(a.CanonicalForm(), b.CanonicalForm())
	l.Bi[key] = append(l.Bi[key], rxns...)
}

func pairKey(a, b string) string {
	forms := []string{a, b}
	sort.Strings(forms)
	return strings.Join(forms, "\x00")
}

func (l *Literal) Unimolecular(ctx context.Context, cplx *enumerator.Complex, opts enumerator.GeneratorOptions) ([]*enumerator.Reaction, error) {
	return l.Uni[cplx.CanonicalForm()], nil
}

func (l *Literal) Bimolecular(ctx context.Context, cplx1, cplx2 *enumerator.Complex, opts enumerator.GeneratorOptions) ([]*enumerator.Reaction, error) {
	return l.Bi[pairKey(cplx1.CanonicalForm(), cplx2.CanonicalForm())], nil
}
