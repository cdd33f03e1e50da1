package domain

import "math"

// Normalize scales v to unit L2 norm in place and returns it.
// Zero vectors are returned untouched rather than producing NaN.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	inv := float32(1 / norm)
	for i := range v {
		v[i] *= inv
	}
	return v
}

// Dot returns the dot product of a and b. For unit-norm vectors this is the
// cosine similarity. Extra components of the longer vector are ignored.
func Dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
