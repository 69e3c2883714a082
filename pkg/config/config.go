package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	CORSAllowedOrigins []string

	DatabaseHost     string
	DatabasePort     int
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string

	RedisURL    string
	JobCacheTTL int // seconds

	JWTSecret     string
	TokenTTLHours int

	IdentityAPIURL    string
	IdentitySecretKey string
	WebhookSecret     string

	StorageUploadURL string
	StorageAPIKey    string

	LoginRateLimit          int // requests per minute per IP on credential endpoints
	ProfileSyncIntervalMins int
	ProfileSyncBatchSize    int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jobCacheTTL, err := strconv.Atoi(getEnv("JOB_CACHE_TTL_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_CACHE_TTL_SECONDS: %w", err)
	}

	tokenTTL, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %w", err)
	}

	loginRate, err := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
	}

	syncInterval, err := strconv.Atoi(getEnv("PROFILE_SYNC_INTERVAL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROFILE_SYNC_INTERVAL_MINUTES: %w", err)
	}

	syncBatch, err := strconv.Atoi(getEnv("PROFILE_SYNC_BATCH_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROFILE_SYNC_BATCH_SIZE: %w", err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),

		DatabaseHost:     getEnv("DB_HOST", "localhost"),
		DatabasePort:     dbPort,
		DatabaseUser:     getEnv("DB_USER", "jobboard"),
		DatabasePassword: getEnv("DB_PASSWORD", "dev"),
		DatabaseName:     getEnv("DB_NAME", "jobboard"),
		DatabaseSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		JobCacheTTL: jobCacheTTL,

		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTLHours: tokenTTL,

		IdentityAPIURL:    getEnv("IDENTITY_API_URL", "https://api.identity.example.com"),
		IdentitySecretKey: os.Getenv("IDENTITY_SECRET_KEY"),
		WebhookSecret:     os.Getenv("IDENTITY_WEBHOOK_SECRET"),

		StorageUploadURL: getEnv("STORAGE_UPLOAD_URL", "https://api.storage.example.com/upload"),
		StorageAPIKey:    os.Getenv("STORAGE_API_KEY"),

		LoginRateLimit:          loginRate,
		ProfileSyncIntervalMins: syncInterval,
		ProfileSyncBatchSize:    syncBatch,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
