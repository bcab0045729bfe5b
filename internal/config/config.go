package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Database DatabaseConfig
	FDC      FDCConfig
	Logging  LoggingConfig
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// FDCConfig configures access to the FoodData Central API.
type FDCConfig struct {
	APIKey    string
	BaseURL   string
	CacheTTL  time.Duration
	CacheSize int
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string
}

const defaultFDCBaseURL = "https://api.nal.usda.gov/fdc/v1"

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"formulator.db",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 2),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 10),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), time.Hour),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 10*time.Minute),
	}

	cfg.FDC = FDCConfig{
		APIKey: firstNonEmpty(
			os.Getenv("FDC_API_KEY"),
			os.Getenv("USDA_API_KEY"),
			"",
		),
		BaseURL: firstNonEmpty(
			os.Getenv("FDC_BASE_URL"),
			defaultFDCBaseURL,
		),
		CacheTTL:  parseDurationWithDefault(os.Getenv("FDC_CACHE_TTL"), 24*time.Hour),
		CacheSize: parseIntWithDefault(os.Getenv("FDC_CACHE_SIZE"), 512),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
	}

	if strings.TrimSpace(cfg.Database.URL) == "" {
		return Config{}, fmt.Errorf("database URL must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def
	}
	parsed, err := time.ParseDuration(trimmed)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
