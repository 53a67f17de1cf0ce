package predictions

import "time"

// UserPreferences is the user profile submitted with every request.
type UserPreferences struct {
	UserAge           int    `json:"user_age" binding:"required,gte=18,lte=100"`
	PreferredCategory string `json:"preferred_category,omitempty"`
	PreferredCity     string `json:"preferred_city,omitempty"`
	BudgetRange       string `json:"budget_range,omitempty" binding:"omitempty,oneof=low medium high"`
}

// PlaceFeatures is one candidate place to rate. Place IDs are assumed unique
// within a request; duplicates silently collide in any id-keyed lookup the
// caller performs.
type PlaceFeatures struct {
	PlaceID                   string  `json:"place_id" binding:"required"`
	PlaceCategory             string  `json:"place_category" binding:"required"`
	PlaceCity                 string  `json:"place_city" binding:"required"`
	PlacePrice                float64 `json:"place_price" binding:"gte=0"`
	PlaceAverageRating        float64 `json:"place_average_rating" binding:"required,gte=1.0,lte=5.0"`
	PlaceVisitDurationMinutes int     `json:"place_visit_duration_minutes" binding:"required,gte=30"`
	PlaceDescription          string  `json:"place_description,omitempty"`
}

// PredictionRequest is the body of /predict and /recommend.
type PredictionRequest struct {
	User   UserPreferences `json:"user" binding:"required"`
	Places []PlaceFeatures `json:"places" binding:"required,min=1,max=50,dive"`
}

// PlacePrediction is one ranked rating prediction.
type PlacePrediction struct {
	PlaceID            string  `json:"place_id"`
	PredictedRating    float64 `json:"predicted_rating"`
	ConfidenceScore    float64 `json:"confidence_score"`
	RecommendationRank int     `json:"recommendation_rank"`
}

// PredictionResponse is the /predict response body.
type PredictionResponse struct {
	Predictions          []PlacePrediction `json:"predictions"`
	ModelUsed            string            `json:"model_used"`
	PredictionTimestamp  time.Time         `json:"prediction_timestamp"`
	TotalPlacesEvaluated int               `json:"total_places_evaluated"`
	TopRecommendation    *PlacePrediction  `json:"top_recommendation,omitempty"`
}

// RecommendationSummary aggregates the truncated recommendation set.
type RecommendationSummary struct {
	TotalPlacesEvaluated   int     `json:"total_places_evaluated"`
	TopKRequested          int     `json:"top_k_requested"`
	AveragePredictedRating float64 `json:"average_predicted_rating"`
}

// RecommendResponse is the /recommend response body.
type RecommendResponse struct {
	UserPreferences       UserPreferences       `json:"user_preferences"`
	TopRecommendations    []PlacePrediction     `json:"top_recommendations"`
	ModelUsed             string                `json:"model_used"`
	Timestamp             time.Time             `json:"timestamp"`
	RecommendationSummary RecommendationSummary `json:"recommendation_summary"`
}
