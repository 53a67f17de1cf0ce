package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourism-backend/internal/model"
	"tourism-backend/internal/predictions"
	"tourism-backend/internal/registry"
	"tourism-backend/internal/services/health"
	"tourism-backend/internal/shared/config"
	"tourism-backend/internal/shared/metrics"
	"tourism-backend/internal/shared/server/middleware"
	"tourism-backend/internal/shared/server/respond"
	"tourism-backend/internal/shared/storage/db"
	"tourism-backend/internal/shared/storage/object"
	localstore "tourism-backend/internal/shared/storage/object/local"
	s3store "tourism-backend/internal/shared/storage/object/s3"
	"tourism-backend/internal/stats"
)

// NewRouter constructs the Gin engine with middleware and routes registered,
// and performs the initial model load. It returns an error only when even
// the baseline fallback cannot be constructed.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"PREDICT": {Rate: 20, Burst: 40},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost {
					return "PREDICT"
				}
				return ""
			},
		}),
	)

	ctx := context.Background()

	// Dependencies
	statsRepo := buildStatsRepo(ctx, cfg)
	statsSvc := stats.NewService(statsRepo)

	artifactStore := buildArtifactStore(ctx, cfg)

	var registryClient *registry.Client
	if cfg.TrackingURI != "" {
		client, err := registry.NewClient(cfg.TrackingURI)
		if err != nil {
			log.Printf("registry client unavailable, relying on fallback chain: %v", err)
		} else {
			registryClient = client
		}
	}

	holder := &model.Holder{}
	loader := &model.Loader{
		Registry:    registryClient,
		Artifacts:   artifactStore,
		ArtifactKey: cfg.ModelArtifactKey,
		Holder:      holder,
	}
	if err := loader.Load(ctx); err != nil {
		return nil, err
	}

	predictionSvc := &predictions.Service{Holder: holder, Stats: statsSvc}
	predictionHandler := predictions.NewHandler(predictionSvc, loader)
	healthSvc := health.NewService(holder)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"message": "Tourism Recommendation API",
			"version": config.APIVersion,
			"status":  "operational",
			"health":  "/health",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())
	predictionHandler.RegisterRoutes(r)

	return r, nil
}

func buildStatsRepo(ctx context.Context, cfg config.Config) stats.Repo {
	if cfg.DatabaseURL == "" {
		return stats.NewMemoryRepo()
	}

	var sqlDB *sql.DB
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		log.Printf("failed to connect database, falling back to memory stats: %v", err)
	} else {
		if err := db.RunMigrations(ctx, dbConn); err != nil {
			log.Printf("failed to run migrations, falling back to memory stats: %v", err)
			dbConn = nil
		}
		sqlDB = dbConn
	}
	if sqlDB == nil {
		return stats.NewMemoryRepo()
	}
	return &stats.PGRepo{DB: sqlDB}
}

func buildArtifactStore(ctx context.Context, cfg config.Config) object.ArtifactStore {
	switch cfg.ArtifactStore {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Endpoint)
		if err != nil {
			log.Printf("s3 artifact store unavailable: %v", err)
			return nil
		}
		return store
	default:
		if cfg.LocalArtifactDir == "" {
			return nil
		}
		return localstore.New(cfg.LocalArtifactDir)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
