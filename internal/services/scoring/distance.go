package scoring

import (
	"fmt"
	"math"

	"github.com/mcoot/semanticguess/internal/model"
)

// Euclidean returns the straight-line distance between two embeddings
func Euclidean(a, b model.Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", model.ErrVectorLengthMismatch, len(a), len(b))
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
