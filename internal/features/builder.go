// Package features assembles the fixed-width numeric vectors the rating
// models consume. The layout is positional and shared with the training
// pipeline; reordering entries breaks model compatibility.
package features

import (
	"fmt"
	"math"
)

// UserInput holds the user fields the builder consumes.
type UserInput struct {
	Age int
}

// PlaceInput holds the place fields the builder consumes.
type PlaceInput struct {
	Price           float64
	AverageRating   float64
	DurationMinutes int
}

// Build computes the feature vector for one (user, place) pair. It is pure
// and deterministic; it returns an error only when the place fields violate
// their declared bounds, which the validation layer normally rejects first.
func Build(user UserInput, place PlaceInput, fc Context) ([]float64, error) {
	if place.Price < 0 {
		return nil, fmt.Errorf("place price must be non-negative, got %v", place.Price)
	}
	if place.AverageRating < 1.0 || place.AverageRating > 5.0 {
		return nil, fmt.Errorf("place rating must be in [1.0, 5.0], got %v", place.AverageRating)
	}

	userMean := fc.UserMean
	userStd := fc.UserStd
	userCount := assumedUserRatingCount
	userRange := assumedUserRatingRange

	placeMean := place.AverageRating
	if fc.HasPlaceMean {
		placeMean = fc.PlaceMean
	}
	placeStd := fc.PlaceStd
	placeCount := assumedPlaceRatingCount
	placePopularity := math.Log1p(placeCount)

	categoryMean := fc.CategoryMean
	cityMean := fc.CityMean
	// Affinities mirror the segment means; there is no per-user history.
	userCategoryPref := categoryMean
	userCityPref := cityMean

	userAvgPrice := place.Price * assumedSpendMultiplier
	priceRatio := 1.0
	if userAvgPrice > 0 {
		priceRatio = place.Price / userAvgPrice
	}

	placeRating := place.AverageRating
	placeDuration := float64(place.DurationMinutes)
	userAge := float64(user.Age)

	userPlaceDeviation := math.Abs(userMean - placeMean)
	ratingPriceRatio := placeRating
	if place.Price > 0 {
		ratingPriceRatio = placeRating / math.Log1p(place.Price)
	}

	return []float64{
		userMean, userStd, userCount, userRange,
		placeMean, placeStd, placeCount, placePopularity,
		categoryMean, cityMean, userCategoryPref, userCityPref,
		place.Price, userAvgPrice, priceRatio,
		placeRating, placeDuration, userAge,
		userPlaceDeviation, ratingPriceRatio,
		fc.GlobalMean, fc.GlobalStd,
	}, nil
}
