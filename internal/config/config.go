package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration values.
type Config struct {
	Port        string
	DatabaseURL string
	CacheTTL    time.Duration
	AI          AIConfig
	Media       MediaConfig
	Imagen      ImagenConfig
}

// AIConfig selects and configures the vision provider.
type AIConfig struct {
	Provider        string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	EditModel       string
	RequestTimeout  time.Duration
	RequestInterval time.Duration
}

// MediaConfig describes S3/media related configuration.
type MediaConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	PublicURL      string
	KeyPrefix      string
	ForcePathStyle bool
}

// ImagenConfig describes the Vertex Imagen edit backend.
type ImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	APIKey             string
	ServiceAccount     string
	ServiceAccountJSON string
}

// FromEnv loads configuration from environment variables and applies defaults.
func FromEnv() Config {
	cfg := Config{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CacheTTL:    time.Duration(getenvInt("ANALYSIS_CACHE_TTL_HOURS", 24*30)) * time.Hour,
		AI: AIConfig{
			Provider:        strings.ToLower(getenv("AI_PROVIDER", "gemini")),
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiModel:     os.Getenv("GEMINI_VISION_MODEL"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     os.Getenv("OPENAI_VISION_MODEL"),
			EditModel:       os.Getenv("IMAGE_EDIT_MODEL"),
			RequestTimeout:  time.Duration(getenvInt("AI_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
			RequestInterval: time.Duration(getenvInt("AI_REQUEST_INTERVAL_MS", 0)) * time.Millisecond,
		},
		Media: MediaConfig{
			Bucket:         os.Getenv("S3_BUCKET"),
			Region:         os.Getenv("S3_REGION"),
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicURL:      os.Getenv("S3_PUBLIC_URL"),
			KeyPrefix:      strings.Trim(os.Getenv("S3_KEY_PREFIX"), "/"),
			ForcePathStyle: getenvBool("S3_FORCE_PATH_STYLE", false),
		},
		Imagen: ImagenConfig{
			ProjectID:          os.Getenv("VERTEX_PROJECT_ID"),
			Location:           os.Getenv("VERTEX_LOCATION"),
			Model:              os.Getenv("VERTEX_IMAGEN_MODEL"),
			APIKey:             os.Getenv("VERTEX_API_KEY"),
			ServiceAccount:     os.Getenv("VERTEX_SERVICE_ACCOUNT"),
			ServiceAccountJSON: os.Getenv("VERTEX_SERVICE_ACCOUNT_JSON"),
		},
	}

	if cfg.Port == "" {
		log.Fatal("APP_PORT cannot be empty")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}

	return parsed
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}

	return parsed
}
