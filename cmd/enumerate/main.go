// Package main demonstrates basic peppercore usage patterns.
package main

import (
	"context"
	"fmt"

	"github.com/gitrdm/peppercore/internal/testgen"
	"github.com/gitrdm/peppercore/pkg/enumerator"
)

func main() {
	fmt.Println("=== peppercore Examples ===")
	fmt.Println()

	simpleBranchMigration()
	cooperativeBinding()
	dryRunSanityCheck()
}

// simpleBranchMigration runs scenario S1: a toehold-mediated 3-way strand
// displacement, ending in two resting pools joined by one condensed
// reaction.
func simpleBranchMigration() {
	fmt.Println("1. Simple Branch Migration:")

	fx := testgen.NewSimpleBranch()
	en, err := enumerator.NewEnumerator(fx.Gen, []*enumerator.Complex{fx.C1, fx.C2}, enumerator.Options{})
	if err != nil {
		fmt.Printf("   setup failed: %v\n", err)
		return
	}
	if err := en.Enumerate(context.Background()); err != nil {
		fmt.Printf("   enumerate failed: %v\n", err)
		return
	}

	printSummary(en)
	fmt.Println()
}

// cooperativeBinding runs scenario S2: Zhang 2012's cooperative
// hybridization circuit, where a product releases only once two
// independent toeholds have each bound.
func cooperativeBinding() {
	fmt.Println("2. Cooperative Binding:")

	fx := testgen.NewCooperativeBinding()
	en, err := enumerator.NewEnumerator(
		fx.Gen,
		[]*enumerator.Complex{fx.T1, fx.T2, fx.C1},
		enumerator.Options{KFast: 0.01},
	)
	if err != nil {
		fmt.Printf("   setup failed: %v\n", err)
		return
	}
	if err := en.Enumerate(context.Background()); err != nil {
		fmt.Printf("   enumerate failed: %v\n", err)
		return
	}

	printSummary(en)
	fmt.Println()
}

// dryRunSanityCheck runs scenario S6: seed every initial complex as its
// own resting macrostate without generating a single reaction.
func dryRunSanityCheck() {
	fmt.Println("3. Dry Run:")

	fx := testgen.NewSimpleBranch()
	en, err := enumerator.NewEnumerator(fx.Gen, []*enumerator.Complex{fx.C1, fx.C2}, enumerator.Options{})
	if err != nil {
		fmt.Printf("   setup failed: %v\n", err)
		return
	}
	if err := en.DryRun(); err != nil {
		fmt.Printf("   dry run failed: %v\n", err)
		return
	}

	printSummary(en)
	fmt.Println()
}

func printSummary(en *enumerator.Enumerator) {
	resting, _ := en.RestingComplexes()
	transient, _ := en.TransientComplexes()
	rxns, _ := en.Reactions()
	condensed, _ := en.CondensedReactions()

	fmt.Printf("   resting complexes:   %d\n", len(resting))
	fmt.Printf("   transient complexes: %d\n", len(transient))
	fmt.Printf("   detailed reactions:  %d\n", len(rxns))
	fmt.Printf("   condensed reactions: %d\n", len(condensed))
	for _, r := range condensed {
		fmt.Printf("     %s\n", r)
	}
}
