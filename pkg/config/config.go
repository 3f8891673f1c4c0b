package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Market data
	IndexSymbol     string // equity index symbol, e.g. sh000300
	ValuationSymbol string // valuation series symbol, e.g. 000300
	FuturesSymbol   string // optional index futures symbol; empty disables the basis factor
	Provider        ProviderConfig

	// Persistence
	LedgerPath     string // CSV ledger file
	GroundTruthDir string // directory of per-date ground-truth files
	FactorsPath    string // optional YAML factor catalogue; empty = built-in defaults

	// Notification
	WebhookURL string // chat webhook endpoint; empty disables notification

	// Scheduling
	RunSchedule string // cron expression for the schedule command

	// Logging
	LogLevel  string
	LogFormat string
}

// ProviderConfig holds time-series provider configuration.
type ProviderConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	RatePerSecond float64 // request rate toward the provider
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		IndexSymbol:     getEnv("INDEX_SYMBOL", "sh000300"),
		ValuationSymbol: getEnv("VALUATION_SYMBOL", "000300"),
		FuturesSymbol:   getEnv("FUTURES_SYMBOL", ""),
		Provider: ProviderConfig{
			BaseURL:       getEnv("PROVIDER_BASE_URL", "https://push2his.eastmoney.com"),
			Timeout:       getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
			MaxRetries:    getEnvAsInt("PROVIDER_MAX_RETRIES", 3),
			RetryDelay:    getEnvAsDuration("PROVIDER_RETRY_DELAY", "1s"),
			RatePerSecond: getEnvAsFloat("PROVIDER_RATE_PER_SECOND", 2.0),
		},

		LedgerPath:     getEnv("LEDGER_PATH", "HISTORY_LOG.csv"),
		GroundTruthDir: getEnv("GROUND_TRUTH_DIR", "KTZS"),
		FactorsPath:    getEnv("FACTORS_PATH", ""),

		WebhookURL: getEnv("WEBHOOK_URL", ""),

		RunSchedule: getEnv("RUN_SCHEDULE", "0 0 16 * * MON-FRI"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.LedgerPath == "" {
		return fmt.Errorf("LEDGER_PATH must not be empty")
	}

	if c.GroundTruthDir == "" {
		return fmt.Errorf("GROUND_TRUTH_DIR must not be empty")
	}

	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
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
