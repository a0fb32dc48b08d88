package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, read once at startup from the
// environment (with a best-effort .env load for local development).
type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	ArtifactsDir string
	JWTSecret    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CalendarBaseURL   string
	RescueTimeBaseURL string
	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string
}

// Load reads configuration from the environment with defaults.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	return Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		MongoURI:     getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnvOrDefault("MONGO_DB", "burnoutzero"),
		ArtifactsDir: getEnvOrDefault("ARTIFACTS_DIR", "./artifacts"),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", "change-me-in-production"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		CalendarBaseURL:   os.Getenv("CALENDAR_BASE_URL"),
		RescueTimeBaseURL: os.Getenv("RESCUETIME_BASE_URL"),
		OAuthTokenURL:     getEnvOrDefault("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
