package domain

import (
	"math"
	"testing"
)

func TestDot_IdenticalUnitVectors(t *testing.T) {
	v := []float32{0.6, 0.8}
	if got := Dot(v, v); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("expected similarity 1.0, got %f", got)
	}
}

func TestDot_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := Dot(a, b); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestDot_MismatchedLength(t *testing.T) {
	if got := Dot([]float32{1, 0}, []float32{1}); got != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %f", got)
	}
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	Normalize(v)
	for i, x := range v {
		if x != 0 {
			t.Errorf("zero vector changed at %d: %f", i, x)
		}
	}
}

func TestScoreable(t *testing.T) {
	l := &Listing{Embedding: []float32{0.1, 0.2, 0.3}}
	if !l.Scoreable(3) {
		t.Error("expected scoreable with matching dim")
	}
	if l.Scoreable(4) {
		t.Error("expected not scoreable with mismatched dim")
	}
	empty := &Listing{}
	if empty.Scoreable(0) {
		t.Error("listing without embedding must not be scoreable")
	}
}
