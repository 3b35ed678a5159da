package quotes

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// StaticSource serves quotes from an in-memory table. Used for offline mode
// and tests; symbols without an entry report ErrUnavailable.
type StaticSource struct {
	mu     sync.RWMutex
	quotes map[string]models.Quote
}

// NewStaticSource creates an empty static quote source.
func NewStaticSource() *StaticSource {
	return &StaticSource{quotes: make(map[string]models.Quote)}
}

// Set installs or replaces the quote for a symbol.
func (s *StaticSource) Set(symbol string, price, prevClose decimal.Decimal) {
	symbol = NormalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = models.Quote{Symbol: symbol, Price: price, PrevClose: prevClose}
}

// SetPrice updates only the current price, keeping the previous close.
func (s *StaticSource) SetPrice(symbol string, price decimal.Decimal) {
	symbol = NormalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.quotes[symbol]
	q.Symbol = symbol
	q.Price = price
	s.quotes[symbol] = q
}

// Delete removes the quote for a symbol, making it unavailable.
func (s *StaticSource) Delete(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, NormalizeSymbol(symbol))
}

// GetQuote returns the stored quote for symbol.
func (s *StaticSource) GetQuote(symbol string) (models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return models.Quote{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[NormalizeSymbol(symbol)]
	if !ok {
		return models.Quote{}, fmt.Errorf("%w: no data for %s", ErrUnavailable, symbol)
	}
	return q, nil
}
