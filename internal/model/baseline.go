package model

import (
	"fmt"
	"math"
	"math/rand"

	"tourism-backend/internal/features"
)

const (
	baselineSamples = 100
	baselineEpochs  = 500
	baselineLR      = 0.01
	baselineSeed    = 42
)

// TrainBaseline fits a least-squares linear regressor on synthetic random
// data so the service stays minimally functional when no registry model can
// be loaded. The fit targets uniform ratings in [1, 5], so predictions land
// near the rating midpoint.
func TrainBaseline() (*LinearModel, error) {
	rng := rand.New(rand.NewSource(baselineSeed))

	xs := make([][]float64, baselineSamples)
	ys := make([]float64, baselineSamples)
	for i := range xs {
		row := make([]float64, features.Width)
		for j := range row {
			row[j] = rng.Float64()
		}
		xs[i] = row
		ys[i] = 1.0 + 4.0*rng.Float64()
	}

	weights := make([]float64, features.Width)
	bias := 0.0
	for epoch := 0; epoch < baselineEpochs; epoch++ {
		gradW := make([]float64, features.Width)
		gradB := 0.0
		for i, row := range xs {
			pred := bias
			for j, w := range weights {
				pred += w * row[j]
			}
			diff := pred - ys[i]
			gradB += diff
			for j := range gradW {
				gradW[j] += diff * row[j]
			}
		}
		scale := baselineLR / float64(baselineSamples)
		bias -= scale * gradB
		for j := range weights {
			weights[j] -= scale * gradW[j]
		}
	}

	if math.IsNaN(bias) || math.IsInf(bias, 0) {
		return nil, fmt.Errorf("baseline fit diverged")
	}
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("baseline fit diverged")
		}
	}

	return &LinearModel{Bias: bias, Weights: weights}, nil
}
