package stats

import (
	"context"
	"errors"

	"tourism-backend/internal/features"
	"tourism-backend/internal/shared/telemetry"
)

// Service resolves feature contexts from aggregated statistics. A nil Repo
// or any read failure leaves the builder defaults untouched, so prediction
// requests never depend on database availability.
type Service struct {
	Repo Repo
}

// NewService constructs a stats service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// ContextFor returns the feature context for one place, overriding the
// global, category, and city means when aggregated rows exist.
func (s *Service) ContextFor(ctx context.Context, category, city string) features.Context {
	fc := features.DefaultContext()
	if s == nil || s.Repo == nil {
		return fc
	}

	if stat, ok := s.lookup(ctx, ScopeGlobal, GlobalKey); ok {
		fc.GlobalMean = stat.RatingMean
		if stat.RatingStd > 0 {
			fc.GlobalStd = stat.RatingStd
		}
	}
	if category != "" {
		if stat, ok := s.lookup(ctx, ScopeCategory, category); ok {
			fc.CategoryMean = stat.RatingMean
		}
	}
	if city != "" {
		if stat, ok := s.lookup(ctx, ScopeCity, city); ok {
			fc.CityMean = stat.RatingMean
		}
	}
	return fc
}

func (s *Service) lookup(ctx context.Context, scope, key string) (Stat, bool) {
	stat, err := s.Repo.Get(ctx, scope, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			telemetry.Warn("stats.lookup_failed", map[string]any{
				"scope": scope,
				"key":   key,
				"error": err.Error(),
			})
		}
		return Stat{}, false
	}
	return stat, true
}
