package reembed

import "math"

// NormalizeVector returns a unit-length copy of v, so that the vector
// store's dot-product ranking behaves as cosine similarity. The input is
// never mutated. A zero vector has no direction and comes back as zeros.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return out
	}

	inv := float32(1 / norm)
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
