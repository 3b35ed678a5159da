package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config carries the runtime settings for the trader.
type Config struct {
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	StartingCash   decimal.Decimal `json:"starting_cash"`
	CurrencySymbol string          `json:"currency_symbol"`
	SymbolSuffix   string          `json:"symbol_suffix"`

	QuoteProvider string `json:"quote_provider"` // yahoo, finnhub, static
	CacheEnabled  bool   `json:"cache_enabled"`
	Offline       bool   `json:"offline"`

	FinnhubAPIKey string `json:"finnhub_api_key"`

	Debug bool `json:"debug"`
}

// DefaultConfig builds the configuration from defaults, a .env file and
// environment variables, in that order of precedence.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		StartingCash:   decimal.NewFromInt(10000),
		CurrencySymbol: "₹",
		SymbolSuffix:   ".NS",

		QuoteProvider: "yahoo",
		CacheEnabled:  true,
		Offline:       false,

		Debug: false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("TRADER_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("TRADER_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("TRADER_STARTING_CASH"); val != "" {
		if cash, err := decimal.NewFromString(val); err == nil && cash.IsPositive() {
			c.StartingCash = cash
		}
	}
	if val := os.Getenv("TRADER_CURRENCY_SYMBOL"); val != "" {
		c.CurrencySymbol = val
	}
	if val := os.Getenv("TRADER_SYMBOL_SUFFIX"); val != "" {
		c.SymbolSuffix = val
	}

	if val := os.Getenv("TRADER_QUOTE_PROVIDER"); val != "" {
		c.QuoteProvider = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv("TRADER_CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("TRADER_OFFLINE"); val != "" {
		if offline, err := strconv.ParseBool(val); err == nil {
			c.Offline = offline
		}
	}

	if val := os.Getenv("TRADER_FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}

	if val := os.Getenv("TRADER_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// DatabasePath is the location of the sqlite snapshot file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "trader.db")
}

// EnsureDirectories creates the data directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if !c.StartingCash.IsPositive() {
		return fmt.Errorf("starting cash must be positive, got %s", c.StartingCash)
	}
	switch c.QuoteProvider {
	case "yahoo", "finnhub", "static":
	default:
		return fmt.Errorf("unknown quote provider %q (use yahoo, finnhub or static)", c.QuoteProvider)
	}
	if c.QuoteProvider == "finnhub" && c.FinnhubAPIKey == "" {
		return fmt.Errorf("finnhub provider selected but TRADER_FINNHUB_API_KEY is not set")
	}
	return nil
}
