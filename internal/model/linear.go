package model

import (
	"encoding/json"
	"fmt"

	"tourism-backend/internal/features"
)

// LinearModel is a linear regressor over the fixed feature layout. Registry
// artifacts serialize it as JSON (bias + positional weights + training
// metrics).
type LinearModel struct {
	Bias    float64
	Weights []float64
}

// Predict returns the linear combination of the weights and the features.
func (m *LinearModel) Predict(feats []float64) (float64, error) {
	if len(feats) != len(m.Weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Weights), len(feats))
	}
	score := m.Bias
	for i, w := range m.Weights {
		score += w * feats[i]
	}
	return score, nil
}

// FeatureCount reports the trained vector width.
func (m *LinearModel) FeatureCount() int {
	return len(m.Weights)
}

type artifactPayload struct {
	Bias    float64            `json:"bias"`
	Weights []float64          `json:"weights"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// ParseArtifact decodes a model artifact and verifies the feature-count
// contract.
func ParseArtifact(data []byte) (*LinearModel, map[string]float64, error) {
	var payload artifactPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(payload.Weights) != features.Width {
		return nil, nil, fmt.Errorf("model artifact has %d weights, expected %d", len(payload.Weights), features.Width)
	}
	return &LinearModel{Bias: payload.Bias, Weights: payload.Weights}, payload.Metrics, nil
}
