package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo is the Postgres-backed Repo over the place_stats table.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, scope, key string) (Stat, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT scope, key, rating_mean, rating_std, rating_count, updated_at
		FROM place_stats
		WHERE scope = $1 AND key = $2`,
		scope, key,
	)

	var stat Stat
	err := row.Scan(&stat.Scope, &stat.Key, &stat.RatingMean, &stat.RatingStd, &stat.RatingCount, &stat.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Stat{}, ErrNotFound
	}
	if err != nil {
		return Stat{}, fmt.Errorf("get place stat: %w", err)
	}
	return stat, nil
}

func (r *PGRepo) ListByScope(ctx context.Context, scope string) ([]Stat, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT scope, key, rating_mean, rating_std, rating_count, updated_at
		FROM place_stats
		WHERE scope = $1
		ORDER BY key`,
		scope,
	)
	if err != nil {
		return nil, fmt.Errorf("list place stats: %w", err)
	}
	defer rows.Close()

	var out []Stat
	for rows.Next() {
		var stat Stat
		if err := rows.Scan(&stat.Scope, &stat.Key, &stat.RatingMean, &stat.RatingStd, &stat.RatingCount, &stat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan place stat: %w", err)
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

func (r *PGRepo) Upsert(ctx context.Context, stat Stat) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO place_stats (scope, key, rating_mean, rating_std, rating_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (scope, key) DO UPDATE
		SET rating_mean = EXCLUDED.rating_mean,
		    rating_std = EXCLUDED.rating_std,
		    rating_count = EXCLUDED.rating_count,
		    updated_at = now()`,
		stat.Scope, stat.Key, stat.RatingMean, stat.RatingStd, stat.RatingCount,
	)
	if err != nil {
		return fmt.Errorf("upsert place stat: %w", err)
	}
	return nil
}
