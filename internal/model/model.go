// Package model holds the regressor contract, the process-wide model
// snapshot holder, and the prioritized registry loader.
package model

import (
	"sync/atomic"
	"time"
)

// Regressor is the scalar inference contract every loaded model satisfies.
type Regressor interface {
	// Predict scores a single feature vector.
	Predict(features []float64) (float64, error)
	// FeatureCount reports the vector width the model was trained on.
	FeatureCount() int
}

// Metadata describes where a loaded model came from.
type Metadata struct {
	Name     string
	Version  string
	Stage    string
	RunID    string
	LoadedAt time.Time
	Metrics  map[string]float64
}

// Snapshot bundles a regressor with its metadata. Snapshots are immutable
// once published; a reload publishes a new one.
type Snapshot struct {
	Regressor Regressor
	Meta      Metadata
}

// Holder is the single process-wide reference to the current model. Readers
// take one snapshot per request and keep using it even if a concurrent
// reload swaps the pointer underneath them.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// Snapshot returns the current model snapshot, or nil before the first load.
func (h *Holder) Snapshot() *Snapshot {
	return h.current.Load()
}

// Swap publishes a fully-constructed snapshot.
func (h *Holder) Swap(s *Snapshot) {
	h.current.Store(s)
}

// Loaded reports whether a model has been published.
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}
