package predictions

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/features"
	"tourism-backend/internal/model"
	"tourism-backend/internal/shared/metrics"
	"tourism-backend/internal/shared/server/respond"
	"tourism-backend/internal/shared/telemetry"
)

const defaultTopK = 5

// Handler wires the prediction and model-management HTTP endpoints.
type Handler struct {
	Svc    *Service
	Loader *model.Loader
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, loader *model.Loader) *Handler {
	return &Handler{Svc: svc, Loader: loader}
}

// RegisterRoutes attaches the prediction routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/predict", h.predict)
	r.POST("/recommend", h.recommend)
	r.GET("/model/info", h.modelInfo)
	r.GET("/model/reload", h.reloadModel)
}

func (h *Handler) predict(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, http.StatusUnprocessableEntity, ErrorCodeValidation, "Invalid prediction request", fieldErrors(err))
		return
	}
	c.Set("placeCount", len(req.Places))

	started := time.Now()
	metrics.IncPredictionRequest()

	predictions, meta, err := h.Svc.Predict(c.Request.Context(), req.User, req.Places)
	if err != nil {
		h.predictError(c, err)
		return
	}
	metrics.ObservePredictionDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)
	c.Set("modelName", meta.Name)

	resp := PredictionResponse{
		Predictions:          predictions,
		ModelUsed:            meta.Name,
		PredictionTimestamp:  time.Now().UTC(),
		TotalPlacesEvaluated: len(req.Places),
	}
	if len(predictions) > 0 {
		resp.TopRecommendation = &predictions[0]
	}

	respond.OK(c, resp)
}

func (h *Handler) recommend(c *gin.Context) {
	topK := defaultTopK
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.ValidationError(c, http.StatusUnprocessableEntity, ErrorCodeValidation, "Invalid recommendation request", []map[string]string{
				{"field": "top_k", "issue": "must be an integer"},
			})
			return
		}
		topK = parsed
	}

	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, http.StatusUnprocessableEntity, ErrorCodeValidation, "Invalid recommendation request", fieldErrors(err))
		return
	}
	c.Set("placeCount", len(req.Places))

	metrics.IncRecommendationRequest()

	top, summary, meta, err := h.Svc.Recommend(c.Request.Context(), req.User, req.Places, topK)
	if err != nil {
		h.predictError(c, err)
		return
	}
	c.Set("modelName", meta.Name)

	respond.OK(c, RecommendResponse{
		UserPreferences:       req.User,
		TopRecommendations:    top,
		ModelUsed:             meta.Name,
		Timestamp:             time.Now().UTC(),
		RecommendationSummary: summary,
	})
}

func (h *Handler) modelInfo(c *gin.Context) {
	snap := h.Svc.Holder.Snapshot()
	if snap == nil {
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeModelNotLoaded, "Model not loaded", nil)
		return
	}

	metricsMap := snap.Meta.Metrics
	if metricsMap == nil {
		metricsMap = map[string]float64{}
	}
	respond.OK(c, gin.H{
		"model_name":    snap.Meta.Name,
		"model_version": snap.Meta.Version,
		"model_stage":   snap.Meta.Stage,
		"model_metrics": metricsMap,
		"feature_count": features.Width,
		"last_updated":  snap.Meta.LoadedAt,
	})
}

// reloadModel acknowledges immediately and reloads in the background;
// in-flight requests keep the snapshot they already took.
func (h *Handler) reloadModel(c *gin.Context) {
	reqID := c.GetString("requestId")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		ran, err := h.Loader.TryReload(ctx)
		switch {
		case !ran:
			telemetry.Info("model.reload.coalesced", map[string]any{"request_id": reqID})
		case err != nil:
			metrics.IncModelReloadFailed()
			telemetry.Error("model.reload.failed", map[string]any{
				"request_id": reqID,
				"error":      err.Error(),
			})
		default:
			metrics.IncModelReload()
			telemetry.Info("model.reload.complete", map[string]any{"request_id": reqID})
		}
	}()

	respond.OK(c, gin.H{
		"message": "Model reload initiated",
		"status":  "processing",
	})
}

func (h *Handler) predictError(c *gin.Context, err error) {
	if errors.Is(err, ErrModelNotLoaded) {
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeModelNotLoaded, "Model not loaded", nil)
		return
	}
	metrics.IncPredictionFailed()
	telemetry.Error("prediction.failed", map[string]any{
		"request_id": c.GetString("requestId"),
		"error":      err.Error(),
	})
	respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Prediction failed", nil)
}
