package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.IndexSymbol != "sh000300" {
		t.Errorf("Expected IndexSymbol to be sh000300, got %s", cfg.IndexSymbol)
	}

	if cfg.LedgerPath != "HISTORY_LOG.csv" {
		t.Errorf("Expected LedgerPath to be HISTORY_LOG.csv, got %s", cfg.LedgerPath)
	}

	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("Expected Provider.MaxRetries to be 3, got %d", cfg.Provider.MaxRetries)
	}

	if cfg.Provider.Timeout != 30*time.Second {
		t.Errorf("Expected Provider.Timeout to be 30s, got %s", cfg.Provider.Timeout)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("ENV", "production")
	os.Setenv("INDEX_SYMBOL", "sh000905")
	os.Setenv("LEDGER_PATH", "/tmp/ledger.csv")
	os.Setenv("PROVIDER_MAX_RETRIES", "5")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("ENV")
		os.Unsetenv("INDEX_SYMBOL")
		os.Unsetenv("LEDGER_PATH")
		os.Unsetenv("PROVIDER_MAX_RETRIES")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.IndexSymbol != "sh000905" {
		t.Errorf("Expected IndexSymbol to be sh000905, got %s", cfg.IndexSymbol)
	}

	if cfg.LedgerPath != "/tmp/ledger.csv" {
		t.Errorf("Expected LedgerPath to be /tmp/ledger.csv, got %s", cfg.LedgerPath)
	}

	if cfg.Provider.MaxRetries != 5 {
		t.Errorf("Expected Provider.MaxRetries to be 5, got %d", cfg.Provider.MaxRetries)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "sandbox")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for unknown ENV")
	}
}
