package core

import (
	"math"
	"testing"
)

func TestSimilarityFunctions(t *testing.T) {
	tests := []struct {
		name     string
		vectorA  []float64
		vectorB  []float64
		expected map[string]float64
		epsilon  float64
	}{
		{
			name:    "identical vectors",
			vectorA: []float64{1.0, 0.0, 0.0},
			vectorB: []float64{1.0, 0.0, 0.0},
			expected: map[string]float64{
				"cosine": 1.0,
				"dot":    1.0,
			},
			epsilon: 1e-12,
		},
		{
			name:    "orthogonal vectors",
			vectorA: []float64{1.0, 0.0},
			vectorB: []float64{0.0, 1.0},
			expected: map[string]float64{
				"cosine": 0.0,
				"dot":    0.0,
			},
			epsilon: 1e-12,
		},
		{
			name:    "opposite vectors",
			vectorA: []float64{1.0, 0.0},
			vectorB: []float64{-1.0, 0.0},
			expected: map[string]float64{
				"cosine": -1.0,
				"dot":    -1.0,
			},
			epsilon: 1e-12,
		},
		{
			name:    "scaled vectors",
			vectorA: []float64{1.0, 2.0, 3.0},
			vectorB: []float64{2.0, 4.0, 6.0},
			expected: map[string]float64{
				"cosine": 1.0,
				"dot":    28.0,
			},
			epsilon: 1e-12,
		},
		{
			name:    "zero vector",
			vectorA: []float64{0.0, 0.0},
			vectorB: []float64{0.7, 0.7},
			expected: map[string]float64{
				"cosine": 0.0,
				"dot":    0.0,
			},
			epsilon: 0,
		},
		{
			name:    "length mismatch",
			vectorA: []float64{1.0},
			vectorB: []float64{1.0, 0.0},
			expected: map[string]float64{
				"cosine": 0.0,
				"dot":    0.0,
			},
			epsilon: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cosine := CosineSimilarity(tt.vectorA, tt.vectorB)
			if math.IsNaN(cosine) || math.Abs(cosine-tt.expected["cosine"]) > tt.epsilon {
				t.Errorf("CosineSimilarity() = %v, want %v", cosine, tt.expected["cosine"])
			}

			dot := DotProduct(tt.vectorA, tt.vectorB)
			if math.Abs(dot-tt.expected["dot"]) > tt.epsilon {
				t.Errorf("DotProduct() = %v, want %v", dot, tt.expected["dot"])
			}
		})
	}
}

func TestCosineSymmetric(t *testing.T) {
	a := []float64{0.3, 0.1, 0.9}
	b := []float64{0.5, 0.5, 0.2}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("cosine similarity is not symmetric")
	}
}

func TestMagnitude(t *testing.T) {
	if got := Magnitude([]float64{3, 4}); got != 5 {
		t.Errorf("Magnitude() = %v, want 5", got)
	}
	if got := Magnitude(nil); got != 0 {
		t.Errorf("Magnitude(nil) = %v, want 0", got)
	}
}

func TestCosineFromParts(t *testing.T) {
	a := []float64{3, 4}
	b := []float64{4, 3}
	want := DotProduct(a, b) / (Magnitude(a) * Magnitude(b))
	if got := CosineSimilarity(a, b); got != want || got != 0.96 {
		t.Errorf("CosineSimilarity() = %v, want %v", got, want)
	}
}
