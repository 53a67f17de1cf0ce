package health

import (
	"time"

	"tourism-backend/internal/model"
	"tourism-backend/internal/shared/config"
)

// Service encapsulates health-related checks.
type Service struct {
	Holder *model.Holder
}

// NewService constructs a new health service.
func NewService(holder *model.Holder) *Service {
	return &Service{Holder: holder}
}

// Status returns the health payload for /health.
func (s *Service) Status() map[string]any {
	modelName := "unknown"
	loaded := false
	if snap := s.Holder.Snapshot(); snap != nil {
		loaded = true
		modelName = snap.Meta.Name
	}

	status := "unhealthy"
	if loaded {
		status = "healthy"
	}

	return map[string]any{
		"status":       status,
		"model_loaded": loaded,
		"model_name":   modelName,
		"api_version":  config.APIVersion,
		"timestamp":    time.Now().UTC(),
	}
}
