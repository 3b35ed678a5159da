package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaustubhkharvi/stock-trader/internal/config"
	"github.com/kaustubhkharvi/stock-trader/internal/display"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "stock-trader",
		Short: "Stock Trader - paper trading with stop losses and limit orders",
		Long: `Stock Trader is a single-user paper-trading simulator. It tracks cash and
holdings against live market quotes and evaluates stop-loss, trailing-stop
and limit orders on every command-loop iteration.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create directories: %w", err)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTradingSession(cfg)
		},
	}

	rootCmd.AddCommand(newQuoteCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newQuoteCmd creates the one-shot quote command.
func newQuoteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "quote [SYMBOL]",
		Short: "Fetch a live quote for a symbol and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := buildQuoteSource(cfg)
			q, err := src.GetQuote(args[0])
			if err != nil {
				return fmt.Errorf("fetch quote: %w", err)
			}
			display.NewRenderer(cfg.CurrencySymbol).Quote(q)
			return nil
		},
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Stock Trader v1.0.0")
			fmt.Println("Paper trading simulator with advanced order management")
		},
	}
}

// newConfigCmd creates the config command.
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("📋 Current Configuration:")
			fmt.Printf("Data Directory:   %s\n", cfg.DataDir)
			fmt.Printf("Cache Directory:  %s\n", cfg.DataCacheDir)
			fmt.Printf("Database:         %s\n", cfg.DatabasePath())
			fmt.Printf("Starting Cash:    %s%s\n", cfg.CurrencySymbol, cfg.StartingCash.StringFixed(2))
			fmt.Printf("Quote Provider:   %s\n", cfg.QuoteProvider)
			fmt.Printf("Symbol Suffix:    %s\n", cfg.SymbolSuffix)
			fmt.Printf("Cache Enabled:    %t\n", cfg.CacheEnabled)
			fmt.Printf("Offline Mode:     %t\n", cfg.Offline)
			if cfg.FinnhubAPIKey != "" {
				fmt.Println("Finnhub API:      ✅ Configured")
			} else {
				fmt.Println("Finnhub API:      ❌ Not configured")
			}
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("✅ Configuration is valid")
			return nil
		},
	})

	return configCmd
}

// buildQuoteSource assembles the quote provider chain from configuration.
// Yahoo is primary with Finnhub as fallback when a key is configured;
// offline mode uses an empty static source so everything degrades to
// skip-and-retry.
func buildQuoteSource(cfg *config.Config) quotes.Source {
	if cfg.Offline || cfg.QuoteProvider == "static" {
		return quotes.NewStaticSource()
	}

	yahoo := quotes.NewYahooSource(cfg.DataCacheDir, cfg.SymbolSuffix, cfg.CacheEnabled)
	if cfg.QuoteProvider == "finnhub" {
		return quotes.NewFallback(quotes.NewFinnhubSource(cfg.FinnhubAPIKey), yahoo)
	}
	if cfg.FinnhubAPIKey != "" {
		return quotes.NewFallback(yahoo, quotes.NewFinnhubSource(cfg.FinnhubAPIKey))
	}
	return yahoo
}

// buildHistorySource returns the provider for daily bars, nil when running
// offline. Only Yahoo serves history.
func buildHistorySource(cfg *config.Config) *quotes.YahooSource {
	if cfg.Offline || cfg.QuoteProvider == "static" {
		return nil
	}
	return quotes.NewYahooSource(cfg.DataCacheDir, cfg.SymbolSuffix, cfg.CacheEnabled)
}
