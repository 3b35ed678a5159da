package quotes

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// FinnhubSource fetches quotes from the Finnhub REST API. It serves as a
// fallback provider when Yahoo Finance is unreachable.
type FinnhubSource struct {
	client *resty.Client
	apiKey string
}

// finnhubQuote mirrors the Finnhub /quote response.
type finnhubQuote struct {
	Current   float64 `json:"c"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Open      float64 `json:"o"`
	PrevClose float64 `json:"pc"`
	Timestamp int64   `json:"t"`
}

// NewFinnhubSource creates a Finnhub quote source.
func NewFinnhubSource(apiKey string) *FinnhubSource {
	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(15 * time.Second)

	return &FinnhubSource{
		client: client,
		apiKey: apiKey,
	}
}

// GetQuote gets the current price and previous close for a symbol.
func (fc *FinnhubSource) GetQuote(symbol string) (models.Quote, error) {
	if fc.apiKey == "" {
		return models.Quote{}, fmt.Errorf("%w: finnhub API key not configured", ErrUnavailable)
	}
	if err := ValidateSymbol(symbol); err != nil {
		return models.Quote{}, err
	}

	symbol = NormalizeSymbol(symbol)

	var fq finnhubQuote
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"token":  fc.apiKey,
			}).
			SetResult(&fq).
			Get("/quote")
		if err != nil {
			return fmt.Errorf("finnhub quote request for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("finnhub quote for %s: status %d", symbol, resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Finnhub reports zeroes for unknown symbols instead of an error.
	if fq.Current == 0 {
		return models.Quote{}, fmt.Errorf("%w: no data for %s", ErrUnavailable, symbol)
	}

	return models.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(fq.Current),
		PrevClose: decimal.NewFromFloat(fq.PrevClose),
	}, nil
}
