package enumerator

import "testing"

func TestOptionsValidate(t *testing.T) {
	d1 := NewDomain("d1", 15)
	small, _ := NewComplex([][]Domain{{d1}}, nil)

	t.Run("k_fast below k_slow is a usage error", func(t *testing.T) {
		opts := Options{KSlow: 1.0, KFast: 0.5}
		err := opts.validate([]*Complex{small})
		if !IsUsageError(err) {
			t.Fatalf("expected a UsageError, got %v", err)
		}
	})

	t.Run("k_slow set without raising k_fast is a usage error", func(t *testing.T) {
		// KFast left at its zero value is still "k_fast < k_slow" once
		// k_slow is positive; it must not be silently accepted just
		// because the caller never touched KFast.
		opts := Options{KSlow: 1.0}
		err := opts.validate([]*Complex{small})
		if !IsUsageError(err) {
			t.Fatalf("expected a UsageError, got %v", err)
		}
	})

	t.Run("oversized initial complex is a usage error", func(t *testing.T) {
		// A connected 4-strand nicked chain: each strand is "h h*", and
		// strand i's second domain (h*) pairs with strand i+1's first
		// domain (h), so Size()=4 (strand count) while IsConnected() still
		// holds.
		const n = 4
		strands := make([][]Domain, n)
		pairing := make(map[Location]Location)
		for i := 0; i < n; i++ {
			strands[i] = []Domain{NewDomain("h", 10), NewDomain("h", 10).Complement()}
		}
		for i := 0; i < n-1; i++ {
			pairing[Location{Strand: i, Pos: 1}] = Location{Strand: i + 1, Pos: 0}
			pairing[Location{Strand: i + 1, Pos: 0}] = Location{Strand: i, Pos: 1}
		}
		big, err := NewComplex(strands, pairing)
		if err != nil {
			t.Fatalf("fixture construction failed: %v", err)
		}
		if big.Size() <= 3 {
			t.Fatalf("fixture bug: expected Size() > 3, got %d", big.Size())
		}
		opts := Options{MaxComplexSize: 3}
		if verr := opts.validate([]*Complex{big}); !IsUsageError(verr) {
			t.Fatalf("expected a UsageError, got %v", verr)
		}
	})

	t.Run("disconnected initial complex is a usage error", func(t *testing.T) {
		disconnected, _ := NewComplex([][]Domain{{d1}, {d1.Complement()}}, nil)
		opts := Options{}
		err := opts.validate([]*Complex{disconnected})
		if !IsUsageError(err) {
			t.Fatalf("expected a UsageError, got %v", err)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		opts := DefaultOptions()
		if err := opts.validate([]*Complex{small}); err != nil {
			t.Errorf("unexpected error with default options: %v", err)
		}
	})
}

func TestOptionsResolvedDefaults(t *testing.T) {
	opts := Options{}
	if got := opts.resolvedMaxComplexCount(10); got != 200 {
		t.Errorf("resolvedMaxComplexCount(10) = %d, want 200", got)
	}
	if got := opts.resolvedMaxComplexCount(500); got != 500 {
		t.Errorf("resolvedMaxComplexCount(500) = %d, want 500", got)
	}
	if got := opts.resolvedMaxReactionCount(10); got != 1000 {
		t.Errorf("resolvedMaxReactionCount(10) = %d, want 1000", got)
	}

	custom := Options{MaxComplexCount: 5, MaxReactionCount: 7}
	if got := custom.resolvedMaxComplexCount(1000); got != 5 {
		t.Errorf("explicit MaxComplexCount should win, got %d", got)
	}
	if got := custom.resolvedMaxReactionCount(1000); got != 7 {
		t.Errorf("explicit MaxReactionCount should win, got %d", got)
	}
}
