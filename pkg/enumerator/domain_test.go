package enumerator

import "testing"

func TestDomainComplement(t *testing.T) {
	d := NewDomain("d1", 15)

	t.Run("complement flips the starred bit", func(t *testing.T) {
		if d.IsComplementary() {
			t.Fatal("fresh domain should not be complementary")
		}
		star := d.Complement()
		if !star.IsComplementary() {
			t.Error("Complement() should mark the complementary sense")
		}
		if star.Name != d.Name || star.Length != d.Length {
			t.Error("Complement() must preserve Name and Length")
		}
	})

	t.Run("complement is an involution", func(t *testing.T) {
		if d.Complement().Complement() != d {
			t.Error("Complement(Complement(d)) must equal d")
		}
	})

	t.Run("string rendering", func(t *testing.T) {
		if d.String() != "d1" {
			t.Errorf("got %q, want %q", d.String(), "d1")
		}
		if d.Complement().String() != "d1*" {
			t.Errorf("got %q, want %q", d.Complement().String(), "d1*")
		}
	})
}

func TestDomainCanPair(t *testing.T) {
	d1 := NewDomain("d1", 15)
	t0 := NewDomain("t0", 5)

	cases := []struct {
		name     string
		a, b     Domain
		wantPair bool
	}{
		{"same name, opposite sense", d1, d1.Complement(), true},
		{"same name, same sense", d1, d1, false},
		{"different name", d1, t0, false},
		{"different name, opposite sense", d1, t0.Complement(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.CanPair(tc.b); got != tc.wantPair {
				t.Errorf("CanPair() = %v, want %v", got, tc.wantPair)
			}
		})
	}
}

func TestDomainIsShort(t *testing.T) {
	if !NewDomain("t0", 5).IsShort() {
		t.Error("length-5 domain should be short")
	}
	if !NewDomain("edge", 8).IsShort() {
		t.Error("length-8 domain should be short (boundary)")
	}
	if NewDomain("d1", 15).IsShort() {
		t.Error("length-15 domain should not be short")
	}
}
