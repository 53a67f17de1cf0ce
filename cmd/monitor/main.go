package main

// monitor prints a JSON report of recent tracking-server activity:
//   go run ./cmd/monitor

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"tourism-backend/internal/registry"
	"tourism-backend/internal/shared/config"
)

type runReport struct {
	RunID     string             `json:"run_id"`
	Status    string             `json:"status"`
	StartTime time.Time          `json:"start_time"`
	Metrics   map[string]float64 `json:"metrics"`
}

type experimentReport struct {
	ExperimentID string      `json:"experiment_id"`
	Name         string      `json:"name"`
	RecentRuns   []runReport `json:"recent_runs"`
}

type modelReport struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

type report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	TrackingURI string             `json:"tracking_uri"`
	Experiments []experimentReport `json:"experiments"`
	Models      []modelReport      `json:"models"`
}

func main() {
	cfg := config.Load()
	if cfg.TrackingURI == "" {
		log.Fatal("MLFLOW_TRACKING_URI is required")
	}

	client, err := registry.NewClient(cfg.TrackingURI)
	if err != nil {
		log.Fatalf("registry client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	out := report{
		GeneratedAt: time.Now().UTC(),
		TrackingURI: cfg.TrackingURI,
	}

	experiments, err := client.SearchExperiments(ctx, 100)
	if err != nil {
		log.Fatalf("search experiments: %v", err)
	}
	since := time.Now().Add(-24 * time.Hour)
	for _, exp := range experiments {
		runs, err := client.SearchRuns(ctx, []string{exp.ExperimentID}, since, 20)
		if err != nil {
			log.Printf("search runs for %s: %v", exp.Name, err)
			continue
		}
		expReport := experimentReport{
			ExperimentID: exp.ExperimentID,
			Name:         exp.Name,
			RecentRuns:   make([]runReport, 0, len(runs)),
		}
		for _, run := range runs {
			metrics := make(map[string]float64, len(run.Data.Metrics))
			for _, m := range run.Data.Metrics {
				metrics[m.Key] = m.Value
			}
			expReport.RecentRuns = append(expReport.RecentRuns, runReport{
				RunID:     run.Info.RunID,
				Status:    run.Info.Status,
				StartTime: time.UnixMilli(run.Info.StartTime).UTC(),
				Metrics:   metrics,
			})
		}
		out.Experiments = append(out.Experiments, expReport)
	}

	models, err := client.SearchRegisteredModels(ctx, 100)
	if err != nil {
		log.Fatalf("search registered models: %v", err)
	}
	for _, m := range models {
		versions := make([]string, 0, len(m.LatestVersions))
		for _, v := range m.LatestVersions {
			versions = append(versions, v.Version+" ("+v.CurrentStage+")")
		}
		out.Models = append(out.Models, modelReport{Name: m.Name, Versions: versions})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}
