package predictions

import (
	"context"
	"errors"
	"testing"

	"tourism-backend/internal/features"
	"tourism-backend/internal/model"
)

type stubRegressor struct {
	fn func([]float64) (float64, error)
}

func (s stubRegressor) Predict(feats []float64) (float64, error) { return s.fn(feats) }
func (s stubRegressor) FeatureCount() int                        { return features.Width }

func loadedService(fn func([]float64) (float64, error)) *Service {
	holder := &model.Holder{}
	holder.Swap(&model.Snapshot{
		Regressor: stubRegressor{fn: fn},
		Meta:      model.Metadata{Name: "test-model", Version: "1"},
	})
	return &Service{Holder: holder}
}

func testUser() UserPreferences {
	return UserPreferences{UserAge: 30}
}

func place(id string, rating float64) PlaceFeatures {
	return PlaceFeatures{
		PlaceID:                   id,
		PlaceCategory:             "Budaya",
		PlaceCity:                 "Yogyakarta",
		PlacePrice:                15000,
		PlaceAverageRating:        rating,
		PlaceVisitDurationMinutes: 90,
	}
}

func TestPredictRequiresModel(t *testing.T) {
	svc := &Service{Holder: &model.Holder{}}
	_, _, err := svc.Predict(context.Background(), testUser(), []PlaceFeatures{place("a", 4.0)})
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestPredictClampsAndScoresConfidence(t *testing.T) {
	// Index 15 is the place rating; scale it so the extremes overflow the
	// valid range in both directions.
	svc := loadedService(func(feats []float64) (float64, error) {
		return feats[15]*3 - 8, nil
	})

	places := []PlaceFeatures{
		place("low", 1.0),  // raw -5.0, clamps to 1.0
		place("mid", 4.0),  // raw 4.0
		place("high", 5.0), // raw 7.0, clamps to 5.0
	}
	got, meta, err := svc.Predict(context.Background(), testUser(), places)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if meta.Name != "test-model" {
		t.Fatalf("metadata name: got %q", meta.Name)
	}
	if len(got) != len(places) {
		t.Fatalf("prediction count: got %d, want %d", len(got), len(places))
	}

	byID := map[string]PlacePrediction{}
	for _, p := range got {
		byID[p.PlaceID] = p
	}

	if r := byID["low"].PredictedRating; r != 1.0 {
		t.Fatalf("low rating: got %v, want clamp to 1.0", r)
	}
	if r := byID["high"].PredictedRating; r != 5.0 {
		t.Fatalf("high rating: got %v, want clamp to 5.0", r)
	}
	if r := byID["mid"].PredictedRating; r != 4.0 {
		t.Fatalf("mid rating: got %v, want 4.0", r)
	}

	// The confidence curve is allowed to leave [0.8, 1.0] at the extremes.
	if c := byID["high"].ConfidenceScore; c != 0.8 {
		t.Fatalf("confidence at 5.0: got %v, want 0.8", c)
	}
	if c := byID["low"].ConfidenceScore; c != 0.667 {
		t.Fatalf("confidence at 1.0: got %v, want 0.667", c)
	}
	if c := byID["mid"].ConfidenceScore; c != 0.933 {
		t.Fatalf("confidence at 4.0: got %v, want 0.933", c)
	}

	// Descending by rating with 1-based ranks.
	if got[0].PlaceID != "high" || got[0].RecommendationRank != 1 {
		t.Fatalf("rank 1: got %+v", got[0])
	}
	if got[1].PlaceID != "mid" || got[1].RecommendationRank != 2 {
		t.Fatalf("rank 2: got %+v", got[1])
	}
	if got[2].PlaceID != "low" || got[2].RecommendationRank != 3 {
		t.Fatalf("rank 3: got %+v", got[2])
	}
}

func TestPredictTiesKeepSubmissionOrder(t *testing.T) {
	svc := loadedService(func([]float64) (float64, error) {
		return 4.2, nil
	})

	places := []PlaceFeatures{place("first", 3.0), place("second", 3.0), place("third", 3.0)}
	got, _, err := svc.Predict(context.Background(), testUser(), places)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].PlaceID != want {
			t.Fatalf("position %d: got %q, want %q", i, got[i].PlaceID, want)
		}
		if got[i].RecommendationRank != i+1 {
			t.Fatalf("rank at %d: got %d", i, got[i].RecommendationRank)
		}
	}
}

func TestPredictFailsWholeRequest(t *testing.T) {
	calls := 0
	svc := loadedService(func([]float64) (float64, error) {
		calls++
		if calls == 2 {
			return 0, errors.New("inference exploded")
		}
		return 3.0, nil
	})

	_, _, err := svc.Predict(context.Background(), testUser(), []PlaceFeatures{
		place("a", 4.0), place("b", 4.0), place("c", 4.0),
	})
	if err == nil {
		t.Fatal("expected error when one place fails")
	}
}

func TestRecommendTruncation(t *testing.T) {
	svc := loadedService(func(feats []float64) (float64, error) {
		return feats[15], nil
	})
	places := []PlaceFeatures{
		place("a", 2.0), place("b", 5.0), place("c", 4.0), place("d", 3.0),
	}

	top, summary, _, err := svc.Recommend(context.Background(), testUser(), places, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("top length: got %d, want 3", len(top))
	}
	if top[0].PlaceID != "b" || top[1].PlaceID != "c" || top[2].PlaceID != "d" {
		t.Fatalf("top order: got %v, %v, %v", top[0].PlaceID, top[1].PlaceID, top[2].PlaceID)
	}
	if summary.TotalPlacesEvaluated != 4 {
		t.Fatalf("total evaluated: got %d, want 4", summary.TotalPlacesEvaluated)
	}
	if summary.TopKRequested != 3 {
		t.Fatalf("top k requested: got %d, want 3", summary.TopKRequested)
	}
	// Mean over exactly the truncated set: (5 + 4 + 3) / 3.
	if summary.AveragePredictedRating != 4.0 {
		t.Fatalf("average: got %v, want 4.0", summary.AveragePredictedRating)
	}
}

func TestRecommendTopKEdges(t *testing.T) {
	svc := loadedService(func(feats []float64) (float64, error) {
		return feats[15], nil
	})
	places := []PlaceFeatures{place("a", 4.0), place("b", 3.0)}

	top, summary, _, err := svc.Recommend(context.Background(), testUser(), places, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("top_k=0: got %d results", len(top))
	}
	if summary.AveragePredictedRating != 0.0 {
		t.Fatalf("empty average: got %v, want 0.0", summary.AveragePredictedRating)
	}

	top, summary, _, err = svc.Recommend(context.Background(), testUser(), places, -4)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("negative top_k: got %d results", len(top))
	}
	if summary.TopKRequested != -4 {
		t.Fatalf("summary must echo the requested value: got %d", summary.TopKRequested)
	}

	top, _, _, err = svc.Recommend(context.Background(), testUser(), places, 50)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(top) != len(places) {
		t.Fatalf("oversized top_k: got %d, want %d", len(top), len(places))
	}
}
