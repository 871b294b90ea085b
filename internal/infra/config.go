package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	PublicBaseURL string
	StoragePath   string
	GeoIPDBPath   string

	PerplexityAPIKey  string
	PerplexityBaseURL string
	PerplexityModels  []string
	AIAttemptTimeout  time.Duration
	AIMaxRetries      int

	DocRaptorAPIKey  string
	DocRaptorBaseURL string
	DocRaptorTest    bool

	WorkerCount        int
	WorkerPollInterval time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		StoragePath: getEnv("STORAGE_PATH", "./storage"),
		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		PerplexityAPIKey:  os.Getenv("PERPLEXITY_API_KEY"),
		PerplexityBaseURL: getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
		PerplexityModels:  getEnvList("PERPLEXITY_MODELS", []string{"sonar-pro", "sonar"}),
		AIAttemptTimeout:  time.Second * time.Duration(getEnvInt("AI_ATTEMPT_TIMEOUT_SECONDS", 20)),
		AIMaxRetries:      getEnvInt("AI_MAX_RETRIES", 2),

		DocRaptorAPIKey:  os.Getenv("DOCRAPTOR_API_KEY"),
		DocRaptorBaseURL: getEnv("DOCRAPTOR_BASE_URL", "https://api.docraptor.com"),
		DocRaptorTest:    getEnvBool("DOCRAPTOR_TEST_MODE", true),

		WorkerCount:        getEnvInt("WORKER_COUNT", 2),
		WorkerPollInterval: time.Second * time.Duration(getEnvInt("WORKER_POLL_INTERVAL_SECONDS", 2)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if len(cfg.PerplexityModels) == 0 {
		return nil, fmt.Errorf("PERPLEXITY_MODELS must name at least one model")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
