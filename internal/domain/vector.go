package domain

import "math"

// Dot returns the dot product of two vectors. For unit-normalized inputs
// this equals cosine similarity. Mismatched lengths return 0; callers are
// expected to exclude incompatible vectors via Listing.Scoreable.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales a vector to unit L2 norm in place. A zero vector is
// left untouched.
func Normalize(v []float32) {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
