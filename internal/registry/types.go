package registry

// ModelVersion describes one registered model version in the tracking server.
type ModelVersion struct {
	Name                 string `json:"name"`
	Version              string `json:"version"`
	CurrentStage         string `json:"current_stage"`
	RunID                string `json:"run_id"`
	Source               string `json:"source"`
	Status               string `json:"status"`
	LastUpdatedTimestamp int64  `json:"last_updated_timestamp"`
}

// RegisteredModel groups a model name with its latest versions.
type RegisteredModel struct {
	Name           string         `json:"name"`
	LatestVersions []ModelVersion `json:"latest_versions"`
}

// Experiment describes a tracking experiment.
type Experiment struct {
	ExperimentID   string `json:"experiment_id"`
	Name           string `json:"name"`
	LifecycleStage string `json:"lifecycle_stage"`
}

// RunInfo holds identity and lifecycle fields of a run.
type RunInfo struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

// RunMetric is a single logged metric value.
type RunMetric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// RunData holds logged metrics for a run.
type RunData struct {
	Metrics []RunMetric `json:"metrics"`
}

// Run combines run info and data.
type Run struct {
	Info RunInfo `json:"info"`
	Data RunData `json:"data"`
}

// FileInfo describes one artifact entry of a run.
type FileInfo struct {
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	FileSize int64  `json:"file_size"`
}
