package core

import "math"

// SimilarityFunc defines a function that calculates similarity between two vectors.
// Higher values mean more similar.
type SimilarityFunc func(a, b []float64) float64

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// A zero-magnitude vector on either side yields 0.0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	normA, normB := Magnitude(a), Magnitude(b)
	if normA == 0.0 || normB == 0.0 {
		return 0.0
	}

	return DotProduct(a, b) / (normA * normB)
}

// DotProduct calculates the dot product between two vectors.
func DotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var result float64
	for i := range a {
		result += a[i] * b[i]
	}
	return result
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
