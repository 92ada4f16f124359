package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN string
	LOG_MODE    string
	GIN_MODE    string

	// Shared secret presented by the negotiation service when it opens contracts.
	INTERNAL_API_TOKEN string

	OTEL_ENABLED                bool
	OTEL_EXPORTER_OTLP_ENDPOINT string
	OTEL_EXPORTER_OTLP_INSECURE bool
	OTEL_SAMPLER_RATIO          float64
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	INTERNAL_API_TOKEN = mustEnv("INTERNAL_API_TOKEN")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")
	LOG_MODE = getEnv("LOG_MODE", "development")
	GIN_MODE = getEnv("GIN_MODE", "debug")

	OTEL_ENABLED = getBool("OTEL_ENABLED")
	OTEL_EXPORTER_OTLP_ENDPOINT = strings.TrimSpace(getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""))
	OTEL_EXPORTER_OTLP_INSECURE = getBool("OTEL_EXPORTER_OTLP_INSECURE")
	OTEL_SAMPLER_RATIO = getRatio("OTEL_SAMPLER_RATIO", 0.1)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// getRatio reads a float clamped to [0, 1].
func getRatio(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q", key, v)
		return fallback
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
