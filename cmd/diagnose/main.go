package main

// diagnose checks the tracking server and the artifact store end to end:
//   go run ./cmd/diagnose

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"tourism-backend/internal/registry"
	"tourism-backend/internal/shared/config"
	"tourism-backend/internal/shared/storage/object"
	localstore "tourism-backend/internal/shared/storage/object/local"
	s3store "tourism-backend/internal/shared/storage/object/s3"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	failed := false
	if !checkRegistry(ctx, cfg) {
		failed = true
	}
	if !checkArtifactStore(ctx, cfg) {
		failed = true
	}

	if failed {
		fmt.Println("DIAGNOSIS: FAILED")
		os.Exit(1)
	}
	fmt.Println("DIAGNOSIS: OK")
}

func checkRegistry(ctx context.Context, cfg config.Config) bool {
	if cfg.TrackingURI == "" {
		fmt.Println("registry: SKIPPED (MLFLOW_TRACKING_URI not set)")
		return true
	}

	client, err := registry.NewClient(cfg.TrackingURI)
	if err != nil {
		log.Printf("registry: client error: %v", err)
		return false
	}

	if err := client.Ping(ctx); err != nil {
		log.Printf("registry: unreachable at %s: %v", cfg.TrackingURI, err)
		return false
	}
	fmt.Printf("registry: reachable at %s\n", cfg.TrackingURI)

	models, err := client.SearchRegisteredModels(ctx, 100)
	if err != nil {
		log.Printf("registry: model search failed: %v", err)
		return false
	}
	fmt.Printf("registry: %d registered model(s)\n", len(models))
	for _, m := range models {
		for _, v := range m.LatestVersions {
			fmt.Printf("  %s v%s stage=%s run=%s\n", m.Name, v.Version, v.CurrentStage, v.RunID)
		}
	}
	return true
}

func checkArtifactStore(ctx context.Context, cfg config.Config) bool {
	var store object.ArtifactStore
	switch cfg.ArtifactStore {
	case "s3":
		s, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Endpoint)
		if err != nil {
			log.Printf("artifact store: s3 setup failed: %v", err)
			return false
		}
		store = s
	default:
		store = localstore.New(cfg.LocalArtifactDir)
	}

	// Round-trip probe: write, read back, delete.
	key := fmt.Sprintf("diagnostics/probe-%d.txt", time.Now().UnixNano())
	payload := []byte("artifact store probe")

	if _, err := store.Put(ctx, key, "text/plain", bytes.NewReader(payload)); err != nil {
		log.Printf("artifact store: put failed: %v", err)
		return false
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		log.Printf("artifact store: open failed: %v", err)
		return false
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || !bytes.Equal(got, payload) {
		log.Printf("artifact store: readback mismatch (err=%v)", err)
		return false
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Printf("artifact store: delete failed: %v", err)
		return false
	}

	fmt.Printf("artifact store: %s round-trip ok\n", cfg.ArtifactStore)
	return true
}
