// Package similarity provides dense-vector math shared by the clustering
// and attachment stages.
package similarity

import "math"

// Dot returns the dot product of two equal-length vectors.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean (L2) norm of a vector.
func Norm(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// SquaredDistance returns the squared Euclidean distance between two
// equal-length vectors.
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Normalize returns a unit-length copy of v. Zero vectors are returned
// unchanged rather than divided by zero.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}

// NormalizeRows returns a copy of the matrix with every row normalized to
// unit length. The input is never mutated.
func NormalizeRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = Normalize(row)
	}
	return out
}

// Cosine returns the cosine similarity of two vectors, in [-1, 1].
// Zero vectors yield 0.
func Cosine(a, b []float64) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}
