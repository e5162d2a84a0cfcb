package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional, transit event archive)
	Database DatabaseConfig

	// Redis (optional, score/position second-tier cache)
	Redis RedisConfig

	// Ephemeris provider
	Ephemeris EphemerisConfig

	// Engine
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// EphemerisConfig holds the ephemeris provider configuration
type EphemerisConfig struct {
	Mode      string // http, offline
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	CacheTTL  time.Duration
}

// EngineConfig holds scan/score tuning
type EngineConfig struct {
	ScanDefaultOrb          float64
	ForecastOrb             float64
	ScoringRulesFile        string
	ScoreRefreshSchedule    string
	ForecastArchiveSchedule string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Ephemeris
		Ephemeris: EphemerisConfig{
			Mode:      getEnv("EPHEMERIS_MODE", "offline"),
			BaseURL:   getEnv("EPHEMERIS_BASE_URL", "http://localhost:8090"),
			APIKey:    getEnv("EPHEMERIS_API_KEY", ""),
			Timeout:   getEnvAsDuration("EPHEMERIS_TIMEOUT", "10s"),
			RateLimit: getEnvAsFloat("EPHEMERIS_RATE_LIMIT", 20),
			CacheTTL:  getEnvAsDuration("EPHEMERIS_CACHE_TTL", "24h"),
		},

		// Engine
		Engine: EngineConfig{
			ScanDefaultOrb:          getEnvAsFloat("SCAN_DEFAULT_ORB", 2),
			ForecastOrb:             getEnvAsFloat("FORECAST_ORB", 3),
			ScoringRulesFile:        getEnv("SCORING_RULES_FILE", ""),
			ScoreRefreshSchedule:    getEnv("SCORE_REFRESH_SCHEDULE", "0 5 0 * * *"),
			ForecastArchiveSchedule: getEnv("FORECAST_ARCHIVE_SCHEDULE", "0 0 3 * * 1"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Ephemeris.Mode {
	case "offline":
	case "http":
		if c.Ephemeris.BaseURL == "" {
			return fmt.Errorf("EPHEMERIS_BASE_URL is required when EPHEMERIS_MODE=http")
		}
	default:
		return fmt.Errorf("EPHEMERIS_MODE must be one of: http, offline")
	}

	if c.Ephemeris.RateLimit < 0 {
		return fmt.Errorf("EPHEMERIS_RATE_LIMIT must be >= 0")
	}

	// orb 15° 이상이면 aspect 윈도우가 겹침
	if c.Engine.ScanDefaultOrb <= 0 || c.Engine.ScanDefaultOrb >= 15 {
		return fmt.Errorf("SCAN_DEFAULT_ORB must be in (0, 15)")
	}
	if c.Engine.ForecastOrb <= 0 || c.Engine.ForecastOrb >= 15 {
		return fmt.Errorf("FORECAST_ORB must be in (0, 15)")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
