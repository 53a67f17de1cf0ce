// Package stats serves aggregated place-rating statistics from the
// analytical database. The serving path only consumes segment means; when
// the database is absent the feature builder's placeholder defaults apply.
package stats

import (
	"context"
	"errors"
	"time"
)

// Aggregation scopes stored in place_stats.
const (
	ScopeGlobal   = "global"
	ScopeCategory = "category"
	ScopeCity     = "city"

	// GlobalKey is the single row key used under ScopeGlobal.
	GlobalKey = "all"
)

var ErrNotFound = errors.New("not found")

// Stat is one aggregated rating row.
type Stat struct {
	Scope       string    `json:"scope"`
	Key         string    `json:"key"`
	RatingMean  float64   `json:"ratingMean"`
	RatingStd   float64   `json:"ratingStd"`
	RatingCount int64     `json:"ratingCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Repo defines persistence operations for aggregated place statistics.
type Repo interface {
	Get(ctx context.Context, scope, key string) (Stat, error)
	ListByScope(ctx context.Context, scope string) ([]Stat, error)
	Upsert(ctx context.Context, stat Stat) error
}
