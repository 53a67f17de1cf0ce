package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"tourism-backend/internal/registry"
	"tourism-backend/internal/shared/storage/object"
	"tourism-backend/internal/shared/telemetry"
)

// Registry model names in priority order: the hybrid gradient-boosted model
// first, then neural and ensemble variants, each under both naming aliases.
var modelPriority = []string{
	"tourism-advanced-hybrid-gb",
	"wdr-tourism-advanced-hybrid-gb",
	"tourism-neural-cf",
	"wdr-tourism-neural-cf",
	"tourism-ensemble-svd",
	"wdr-tourism-ensemble-svd",
}

var loadStages = []string{"None", "Production", "Staging"}

// Model artifacts live under the run's model directory.
const artifactPath = "model/model.json"

// Loader resolves a usable regressor, trying the artifact store, then the
// registry priority chain, then the in-process baseline.
type Loader struct {
	Registry    *registry.Client     // optional
	Artifacts   object.ArtifactStore // optional
	ArtifactKey string               // optional direct artifact-store key
	Holder      *Holder

	reloading atomic.Bool
}

// Load resolves a model and publishes it to the holder. It returns an error
// only when even the baseline fallback cannot be constructed, which should
// abort process startup.
func (l *Loader) Load(ctx context.Context) error {
	if snap := l.loadFromStore(ctx); snap != nil {
		l.Holder.Swap(snap)
		return nil
	}
	if snap := l.loadFromRegistry(ctx); snap != nil {
		l.Holder.Swap(snap)
		return nil
	}

	telemetry.Warn("model.load.fallback", map[string]any{
		"reason": "no registry model could be loaded, training baseline",
	})
	baseline, err := TrainBaseline()
	if err != nil {
		return fmt.Errorf("construct baseline model: %w", err)
	}
	l.Holder.Swap(&Snapshot{
		Regressor: baseline,
		Meta: Metadata{
			Name:     "baseline-fallback-model",
			Version:  "1.0",
			Stage:    "Production",
			RunID:    "fallback",
			LoadedAt: time.Now().UTC(),
		},
	})
	return nil
}

// TryReload runs Load unless another reload is already in flight. It reports
// whether this call performed the reload.
func (l *Loader) TryReload(ctx context.Context) (bool, error) {
	if !l.reloading.CompareAndSwap(false, true) {
		return false, nil
	}
	defer l.reloading.Store(false)
	return true, l.Load(ctx)
}

func (l *Loader) loadFromStore(ctx context.Context) *Snapshot {
	if l.Artifacts == nil || l.ArtifactKey == "" {
		return nil
	}
	rc, err := l.Artifacts.Open(ctx, l.ArtifactKey)
	if err != nil {
		telemetry.Warn("model.load.store_failed", map[string]any{
			"key":   l.ArtifactKey,
			"error": err.Error(),
		})
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, 16<<20))
	if err != nil {
		telemetry.Warn("model.load.store_failed", map[string]any{
			"key":   l.ArtifactKey,
			"error": err.Error(),
		})
		return nil
	}
	regressor, metrics, err := ParseArtifact(data)
	if err != nil {
		telemetry.Warn("model.load.store_failed", map[string]any{
			"key":   l.ArtifactKey,
			"error": err.Error(),
		})
		return nil
	}

	telemetry.Info("model.load.store", map[string]any{"key": l.ArtifactKey})
	return &Snapshot{
		Regressor: regressor,
		Meta: Metadata{
			Name:     l.ArtifactKey,
			Version:  "1",
			Stage:    "Production",
			RunID:    "artifact-store",
			LoadedAt: time.Now().UTC(),
			Metrics:  metrics,
		},
	}
}

func (l *Loader) loadFromRegistry(ctx context.Context) *Snapshot {
	if l.Registry == nil {
		return nil
	}
	for _, name := range modelPriority {
		snap, err := l.loadCandidate(ctx, name)
		if err != nil {
			// No retry within a candidate; move down the priority list.
			telemetry.Warn("model.load.candidate_failed", map[string]any{
				"model": name,
				"error": err.Error(),
			})
			continue
		}
		telemetry.Info("model.load.success", map[string]any{
			"model":   snap.Meta.Name,
			"version": snap.Meta.Version,
			"stage":   snap.Meta.Stage,
		})
		return snap
	}
	return nil
}

func (l *Loader) loadCandidate(ctx context.Context, name string) (*Snapshot, error) {
	versions, err := l.Registry.GetLatestVersions(ctx, name, loadStages)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no versions registered for %s", name)
	}
	latest := versions[0]

	data, err := l.Registry.DownloadArtifact(ctx, latest.RunID, artifactPath)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("artifact for %s is not valid JSON", name)
	}
	regressor, metrics, err := ParseArtifact(data)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Regressor: regressor,
		Meta: Metadata{
			Name:     latest.Name,
			Version:  latest.Version,
			Stage:    latest.CurrentStage,
			RunID:    latest.RunID,
			LoadedAt: time.Now().UTC(),
			Metrics:  metrics,
		},
	}, nil
}
