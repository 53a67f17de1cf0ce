package features

// Width is the fixed length of every feature vector. Loaded models must
// accept exactly this many inputs.
const Width = 22

// Names lists the feature positions in model order.
var Names = []string{
	"user_mean", "user_std", "user_count", "user_range",
	"place_mean", "place_std", "place_count", "place_popularity",
	"category_mean", "city_mean", "user_category_pref", "user_city_pref",
	"place_price", "user_avg_price", "price_ratio",
	"place_rating", "place_duration", "user_age",
	"user_place_deviation", "rating_price_ratio",
	"global_mean", "global_std",
}

// Context carries the global placeholder statistics injected into the
// builder. The per-user and per-place aggregates the vector layout names are
// NOT real history: the serving path has no per-user rating store, so these
// stand-in values are part of the model contract and must not be "fixed" to
// real aggregates without retraining.
type Context struct {
	GlobalMean   float64
	GlobalStd    float64
	CategoryMean float64
	CityMean     float64
	UserMean     float64
	UserStd      float64
	PlaceStd     float64

	// PlaceMean overrides the place's own average rating when set.
	PlaceMean    float64
	HasPlaceMean bool
}

// Assumed interaction constants standing in for per-user history.
const (
	assumedUserRatingCount  = 10.0
	assumedUserRatingRange  = 4.0
	assumedPlaceRatingCount = 50.0
	assumedSpendMultiplier  = 1.1
)

// DefaultContext returns the placeholder statistics used when no aggregated
// place statistics are available.
func DefaultContext() Context {
	return Context{
		GlobalMean:   3.5,
		GlobalStd:    1.0,
		CategoryMean: 3.5,
		CityMean:     3.5,
		UserMean:     3.5,
		UserStd:      1.0,
		PlaceStd:     0.5,
	}
}
