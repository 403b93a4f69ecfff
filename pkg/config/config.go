package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// App holds runtime configuration derived from env vars.
type App struct {
	DatabaseURL string
	APIPort     string
	Environment string
	LogLevel    string
	LogEncoding string
	CORSOrigins []string

	Auth    Auth
	Trigger Trigger

	KafkaBrokers string
	KafkaTopic   string
}

// Auth configures token signing.
type Auth struct {
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration
}

// Trigger bounds outbound webhook calls.
type Trigger struct {
	Timeout          time.Duration
	MaxResponseBytes int64
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() App {
	return App{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIPort:     getEnv("API_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogEncoding: getEnv("LOG_ENCODING", "json"),
		CORSOrigins: getCORSOrigins(),
		Auth: Auth{
			SecretKey:      os.Getenv("SECRET_KEY"),
			Algorithm:      getEnv("ALGORITHM", "HS256"),
			AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		},
		Trigger: Trigger{
			Timeout:          time.Duration(getEnvInt("TRIGGER_TIMEOUT_SECONDS", 30)) * time.Second,
			MaxResponseBytes: int64(getEnvInt("TRIGGER_MAX_RESPONSE_BYTES", 1<<20)),
		},
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "event-trigger-logs"),
	}
}

// Brokers splits KAFKA_BROKERS into addresses. Empty means publishing is disabled.
func (a App) Brokers() []string {
	return splitList(a.KafkaBrokers)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt falls back on missing, malformed or non-positive values.
func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getCORSOrigins falls back to "*" when no origin is configured.
func getCORSOrigins() []string {
	origins := splitList(os.Getenv("CORS_ORIGINS"))
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
