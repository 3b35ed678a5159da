package quotes

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// Bar is one day of historical price data.
type Bar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// YahooSource fetches quotes from Yahoo Finance. Symbols without an exchange
// suffix get the configured one appended (e.g. ".NS" for NSE symbols), so
// traders can type RELIANCE and get RELIANCE.NS.
type YahooSource struct {
	cache  *CacheManager
	suffix string
}

// NewYahooSource creates a Yahoo Finance quote source. cacheDir may be empty
// to disable caching; suffix is the default exchange suffix.
func NewYahooSource(cacheDir, suffix string, cacheEnabled bool) *YahooSource {
	cache := NewCacheManager(filepath.Join(cacheDir, "yahoo"), 2*time.Minute, cacheEnabled && cacheDir != "")
	return &YahooSource{cache: cache, suffix: suffix}
}

// exchangeSymbol maps a trader-facing symbol to the Yahoo ticker.
func (y *YahooSource) exchangeSymbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if y.suffix != "" && !strings.Contains(symbol, ".") {
		symbol += y.suffix
	}
	return symbol
}

// GetQuote gets the current price and previous close for a symbol.
func (y *YahooSource) GetQuote(symbol string) (models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return models.Quote{}, err
	}

	symbol = NormalizeSymbol(symbol)
	ticker := y.exchangeSymbol(symbol)

	var cached models.Quote
	if y.cache.Get("yahoo", "quote", ticker, &cached) {
		return cached, nil
	}

	var result models.Quote
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(ticker)
		if err != nil {
			return fmt.Errorf("get quote for %s: %w", ticker, err)
		}
		if q == nil || q.RegularMarketPrice == 0 {
			return fmt.Errorf("empty quote for %s", ticker)
		}

		result = models.Quote{
			Symbol:    symbol,
			Price:     decimal.NewFromFloat(q.RegularMarketPrice),
			PrevClose: decimal.NewFromFloat(q.RegularMarketPreviousClose),
		}
		return nil
	})
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	y.cache.Set("yahoo", "quote", ticker, result)

	return result, nil
}

// History gets daily bars for the trailing window of days.
func (y *YahooSource) History(symbol string, days int) ([]Bar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	ticker := y.exchangeSymbol(symbol)
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	cacheKey := map[string]interface{}{
		"symbol": ticker,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []Bar
	if y.cache.Get("yahoo", "history", cacheKey, &cached) {
		return cached, nil
	}

	var result []Bar
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   ticker,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = result[:0]
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, Bar{
				Date:   time.Unix(int64(bar.Timestamp), 0),
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: int64(bar.Volume),
			})
		}

		if err := iter.Err(); err != nil {
			return fmt.Errorf("get history for %s: %w", ticker, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	y.cache.Set("yahoo", "history", cacheKey, result)

	return result, nil
}
