package predictions

import (
	"context"
	"fmt"
	"math"
	"sort"

	"tourism-backend/internal/features"
	"tourism-backend/internal/model"
	"tourism-backend/internal/stats"
)

const (
	minRating = 1.0
	maxRating = 5.0

	// Confidence peaks at the rating midpoint and falls off toward the
	// extremes. The formula is part of the serving contract: it can drift
	// slightly outside [0.8, 1.0] for predictions outside [2.0, 5.0] and
	// callers depend on the exact values.
	confidenceBase     = 0.8
	confidenceSpan     = 0.2
	confidenceMidpoint = 3.5
	confidenceScale    = 1.5
)

// Service scores candidate places for a user with the currently loaded
// model.
type Service struct {
	Holder *model.Holder
	Stats  *stats.Service
}

// Predict scores every place, clamps to the valid rating range, and returns
// the predictions ranked by predicted rating descending with original
// submission order breaking ties. Any single failure fails the whole
// request; no partial results are returned.
func (s *Service) Predict(ctx context.Context, user UserPreferences, places []PlaceFeatures) ([]PlacePrediction, model.Metadata, error) {
	snap := s.Holder.Snapshot()
	if snap == nil {
		return nil, model.Metadata{}, ErrModelNotLoaded
	}

	predictions := make([]PlacePrediction, 0, len(places))
	for _, place := range places {
		fc := s.Stats.ContextFor(ctx, place.PlaceCategory, place.PlaceCity)
		vector, err := features.Build(
			features.UserInput{Age: user.UserAge},
			features.PlaceInput{
				Price:           place.PlacePrice,
				AverageRating:   place.PlaceAverageRating,
				DurationMinutes: place.PlaceVisitDurationMinutes,
			},
			fc,
		)
		if err != nil {
			return nil, model.Metadata{}, fmt.Errorf("build features for %s: %w", place.PlaceID, err)
		}

		raw, err := snap.Regressor.Predict(vector)
		if err != nil {
			return nil, model.Metadata{}, fmt.Errorf("predict %s: %w", place.PlaceID, err)
		}

		clamped := math.Max(minRating, math.Min(maxRating, raw))
		confidence := confidenceBase + confidenceSpan*(1-math.Abs(clamped-confidenceMidpoint)/confidenceScale)

		predictions = append(predictions, PlacePrediction{
			PlaceID:         place.PlaceID,
			PredictedRating: round(clamped, 2),
			ConfidenceScore: round(confidence, 3),
		})
	}

	// Stable: equal ratings keep original submission order.
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].PredictedRating > predictions[j].PredictedRating
	})
	for i := range predictions {
		predictions[i].RecommendationRank = i + 1
	}

	return predictions, snap.Meta, nil
}

// Recommend runs Predict and truncates to the top K entries with a summary
// over exactly the truncated set.
func (s *Service) Recommend(ctx context.Context, user UserPreferences, places []PlaceFeatures, topK int) ([]PlacePrediction, RecommendationSummary, model.Metadata, error) {
	predictions, meta, err := s.Predict(ctx, user, places)
	if err != nil {
		return nil, RecommendationSummary{}, model.Metadata{}, err
	}

	limit := topK
	if limit < 0 {
		limit = 0
	}
	if limit > len(predictions) {
		limit = len(predictions)
	}
	top := predictions[:limit]

	average := 0.0
	if len(top) > 0 {
		sum := 0.0
		for _, p := range top {
			sum += p.PredictedRating
		}
		average = round(sum/float64(len(top)), 2)
	}

	summary := RecommendationSummary{
		TotalPlacesEvaluated:   len(predictions),
		TopKRequested:          topK,
		AveragePredictedRating: average,
	}
	return top, summary, meta, nil
}

func round(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
