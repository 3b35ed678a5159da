// Package quotes supplies current prices to the trading core. Providers are
// interchangeable behind the Source interface; a miss is reported with
// ErrUnavailable and treated as transient by callers.
package quotes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// ErrUnavailable signals that no quote could be obtained for a symbol right
// now. Scheduled evaluation skips the symbol and retries next tick.
var ErrUnavailable = errors.New("quote unavailable")

// Source provides current market quotes. GetQuote must be idempotent-readable
// within an evaluation tick: repeated calls for the same symbol in one tick
// return the same value.
type Source interface {
	GetQuote(symbol string) (models.Quote, error)
}

// ValidateSymbol checks if a stock symbol is valid format.
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format.
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// Fallback chains two sources: the secondary is consulted only when the
// primary cannot supply a quote.
type Fallback struct {
	Primary   Source
	Secondary Source
}

// NewFallback returns a source that tries primary first.
func NewFallback(primary, secondary Source) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) GetQuote(symbol string) (models.Quote, error) {
	q, err := f.Primary.GetQuote(symbol)
	if err == nil {
		return q, nil
	}
	if f.Secondary == nil {
		return models.Quote{}, err
	}
	return f.Secondary.GetQuote(symbol)
}
