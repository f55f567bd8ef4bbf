// Package similarity scores embedding vectors.
package similarity

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/regask/internal/domain"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// A zero-norm operand scores 0. Vectors of different lengths are a contract
// violation and return domain.ErrDimensionMismatch.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine %d vs %d: %w", len(a), len(b), domain.ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push |sim| slightly past 1
	return math.Max(-1, math.Min(1, sim)), nil
}
