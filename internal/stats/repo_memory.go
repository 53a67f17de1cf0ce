package stats

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used when no DATABASE_URL is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Stat
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Stat)}
}

func memKey(scope, key string) string {
	return scope + "\x00" + key
}

func (r *MemoryRepo) Get(ctx context.Context, scope, key string) (Stat, error) {
	if err := ctx.Err(); err != nil {
		return Stat{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stat, ok := r.items[memKey(scope, key)]
	if !ok {
		return Stat{}, ErrNotFound
	}
	return stat, nil
}

func (r *MemoryRepo) ListByScope(ctx context.Context, scope string) ([]Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stat, 0, len(r.items))
	for _, stat := range r.items {
		if stat.Scope == scope {
			out = append(out, stat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, stat Stat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if stat.UpdatedAt.IsZero() {
		stat.UpdatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[memKey(stat.Scope, stat.Key)] = stat
	return nil
}
