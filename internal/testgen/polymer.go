package testgen

import (
	"context"

	"github.com/gitrdm/peppercore/pkg/enumerator"
)

// Polymer is a ReactionGenerator test double with no unimolecular
// reactions at all and a single bimolecular rule: any two single-strand
// complexes (each made of one repeated unpaired domain) concatenate into
// one longer single-strand complex of the same kind. It has no natural
// fixed point — every bimolecular pair produces a new, larger candidate —
// which makes it a convenient driver for exercising max_complex_count
// overflow (S3) without needing max_complex_size to ever trip first,
// since every product stays a single strand.
type Polymer struct {
	Domain enumerator.Domain
	Rate   enumerator.RateConstant
}

// NewPolymer builds a Polymer generator over a single repeated domain.
func NewPolymer(domain enumerator.Domain, rate enumerator.RateConstant) Polymer {
	return Polymer{Domain: domain, Rate: rate}
}

// Chain builds the length-n single-strand complex (n copies of p.Domain,
// unpaired) this generator grows.
func (p Polymer) Chain(n int) *enumerator.Complex {
	strand := make([]enumerator.Domain, n)
	for i := range strand {
		strand[i] = p.Domain
	}
	return mustComplex([][]enumerator.Domain{strand}, nil)
}

func (p Polymer) Unimolecular(ctx context.Context, cplx *enumerator.Complex, opts enumerator.GeneratorOptions) ([]*enumerator.Reaction, error) {
	return nil, nil
}

func (p Polymer) Bimolecular(ctx context.Context, cplx1, cplx2 *enumerator.Complex, opts enumerator.GeneratorOptions) ([]*enumerator.Reaction, error) {
	n := len(cplx1.Domains()) + len(cplx2.Domains())
	product := p.Chain(n)
	return []*enumerator.Reaction{
		enumerator.NewReaction(enumerator.ReactionBind21, []*enumerator.Complex{cplx1, cplx2}, []*enumerator.Complex{product}, p.Rate),
	}, nil
}
