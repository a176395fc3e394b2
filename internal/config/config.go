package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every environment-driven setting.
type Config struct {
	// Server
	Port        string
	Environment string

	// Backend catalog API
	CatalogAPIURL   string
	CatalogAPIToken string
	HTTPTimeout     time.Duration

	// Redis (optional; events are skipped when unreachable)
	RedisURL string

	// Import tuning
	RowDelay    time.Duration
	SKUPageSize int
	SKUPrefix   string

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	rowDelayMs, _ := strconv.Atoi(getEnv("ROW_DELAY_MS", "150"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	skuPageSize, _ := strconv.Atoi(getEnv("SKU_PAGE_SIZE", "10000"))

	return &Config{
		Port:        getEnv("PORT", "8089"),
		Environment: getEnv("ENVIRONMENT", "development"),

		CatalogAPIURL:   getEnv("CATALOG_API_URL", "http://localhost:5000"),
		CatalogAPIToken: getEnv("CATALOG_API_TOKEN", ""),
		HTTPTimeout:     time.Duration(httpTimeout) * time.Second,

		RedisURL: getEnv("REDIS_URL", ""),

		RowDelay:    time.Duration(rowDelayMs) * time.Millisecond,
		SKUPageSize: skuPageSize,
		SKUPrefix:   getEnv("SKU_PREFIX", "AC"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
