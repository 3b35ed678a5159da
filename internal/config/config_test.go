package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.StartingCash.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("starting cash: %s", cfg.StartingCash)
	}
	if cfg.SymbolSuffix != ".NS" {
		t.Fatalf("symbol suffix: %s", cfg.SymbolSuffix)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADER_STARTING_CASH", "25000")
	t.Setenv("TRADER_QUOTE_PROVIDER", "Static")
	t.Setenv("TRADER_SYMBOL_SUFFIX", ".BO")
	t.Setenv("TRADER_OFFLINE", "true")

	cfg := DefaultConfig()

	if !cfg.StartingCash.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("starting cash: %s", cfg.StartingCash)
	}
	if cfg.QuoteProvider != "static" {
		t.Fatalf("quote provider: %s", cfg.QuoteProvider)
	}
	if cfg.SymbolSuffix != ".BO" {
		t.Fatalf("symbol suffix: %s", cfg.SymbolSuffix)
	}
	if !cfg.Offline {
		t.Fatal("offline not applied")
	}
}

func TestEnvOverridesIgnoreInvalidValues(t *testing.T) {
	t.Setenv("TRADER_STARTING_CASH", "-5")
	t.Setenv("TRADER_CACHE_ENABLED", "not-a-bool")

	cfg := DefaultConfig()

	if !cfg.StartingCash.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("invalid cash override applied: %s", cfg.StartingCash)
	}
	if !cfg.CacheEnabled {
		t.Fatal("invalid bool override applied")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	cfg.QuoteProvider = "bloomberg"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg.QuoteProvider = "finnhub"
	cfg.FinnhubAPIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for finnhub without a key")
	}
	cfg.FinnhubAPIKey = "token"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("finnhub with key: %v", err)
	}
}

func TestEnsureDirectoriesAndDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.DataCacheDir = filepath.Join(cfg.DataDir, "cache")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.DataDir, "trader.db") {
		t.Fatalf("database path: %s", cfg.DatabasePath())
	}
}
