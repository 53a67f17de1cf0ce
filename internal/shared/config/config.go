package config

import (
	"log"
	"os"
	"strings"
)

// APIVersion is reported by the health and root endpoints.
const APIVersion = "1.0.0"

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	CORSAllowOrigin  []string
	TrackingURI      string
	DatabaseURL      string
	ArtifactStore    string
	LocalArtifactDir string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	S3Endpoint       string
	ModelArtifactKey string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL empty; place statistics fall back to built-in defaults")
	}

	return Config{
		Port:             getEnv("PORT", "8000"),
		Env:              env,
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		TrackingURI:      strings.TrimRight(getEnv("MLFLOW_TRACKING_URI", ""), "/"),
		DatabaseURL:      dbURL,
		ArtifactStore:    normalizeStoreType(getEnv("ARTIFACT_STORE", "local")),
		LocalArtifactDir: getEnv("LOCAL_ARTIFACT_DIR", "./artifacts"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		S3Endpoint:       getEnv("MLFLOW_S3_ENDPOINT_URL", ""),
		ModelArtifactKey: getEnv("MODEL_ARTIFACT_KEY", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
