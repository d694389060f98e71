// Package enumerator implements the core of a domain-level reaction network
// enumerator for nucleic-acid strand-displacement systems: given a set of
// initial complexes it computes the closure of complexes reachable via a
// family of elementary reactions, partitions them into transient and
// resting states on the basis of a fast/slow rate timescale separation, and
// emits the resulting reaction graph together with its strongly connected
// macrostates.
//
// The elementary reaction generators themselves (bind11, bind21, open1N,
// branch-3way, branch-4way) are external collaborators: this package
// consumes them through the ReactionGenerator interface (see generator.go)
// and never constructs candidate products on its own.
package enumerator

import "fmt"

// Domain is a named, typed sequence placeholder with a complement relation.
// Domains are immutable for the lifetime of an enumeration run.
//
// Invariant: Complement(Complement(d)) == d. A Domain value and its
// complement share Name and Length; Complement is a pure bit flip, so the
// invariant holds for any Domain value without requiring a registry.
type Domain struct {
	// Name identifies the domain (and its complement shares the same Name).
	Name string
	// Length is the domain's nucleotide length, used only to distinguish
	// "short" (toehold) domains from "long" domains for the opening-rate
	// model; the enumerator never interprets sequence content.
	Length int
	// complementary is true if this value denotes the Watson-Crick
	// complement of the named domain (conventionally written d*).
	complementary bool
}

// NewDomain constructs a top-strand (non-complementary) domain.
func NewDomain(name string, length int) Domain {
	return Domain{Name: name, Length: length}
}

// IsShort reports whether this domain is conventionally treated as a
// toehold, i.e. short relative to branch-migration domains. Peppercorn
// treats domains of length <= 8 as short by convention; callers that need a
// different cutoff should compare Length directly.
func (d Domain) IsShort() bool {
	return d.Length <= 8
}

// Complement returns the Watson-Crick complement of d. Complement is an
// involution: d.Complement().Complement() == d.
func (d Domain) Complement() Domain {
	return Domain{Name: d.Name, Length: d.Length, complementary: !d.complementary}
}

// IsComplementary reports whether this value denotes the starred
// (complementary) sense of its named domain.
func (d Domain) IsComplementary() bool {
	return d.complementary
}

// String renders the domain the way kernel notation does: "name" for the
// top strand, "name*" for the complement.
func (d Domain) String() string {
	if d.complementary {
		return fmt.Sprintf("%s*", d.Name)
	}
	return d.Name
}

// CanPair reports whether two domain occurrences are complementary to one
// another, i.e. could participate in a base-paired helix.
func (d Domain) CanPair(other Domain) bool {
	return d.Name == other.Name && d.complementary != other.complementary
}
