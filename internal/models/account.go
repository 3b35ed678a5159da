package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds one trader's cash balance, share holdings and active
// stop-loss orders. The ledger package is the only writer of Cash and
// Holdings; every symbol in StopOrders must also exist in Holdings.
type Account struct {
	Username   string                `json:"username"`
	Cash       decimal.Decimal       `json:"cash"`
	Holdings   map[string]*Holding   `json:"holdings"`
	StopOrders map[string]*StopOrder `json:"stop_orders"`
}

// Holding is a per-symbol position. Shares is always positive while the
// holding exists; a position reaching zero is deleted, never stored as zero.
type Holding struct {
	Shares  int64           `json:"shares"`
	AvgCost decimal.Decimal `json:"avg_cost"`
}

// StopOrder is a fixed or trailing stop-loss on a held symbol. At most one
// per symbol per account. HighestSeen is only meaningful when Trailing and
// never decreases.
type StopOrder struct {
	Shares          int64           `json:"shares"`
	StopPrice       decimal.Decimal `json:"stop_price"`
	Trailing        bool            `json:"trailing"`
	TrailingPercent decimal.Decimal `json:"trailing_percent,omitempty"`
	HighestSeen     decimal.Decimal `json:"highest_seen,omitempty"`
	SetAt           time.Time       `json:"set_at"`
}

// NewAccount creates an account with the given starting cash.
func NewAccount(username string, startingCash decimal.Decimal) *Account {
	return &Account{
		Username:   username,
		Cash:       startingCash,
		Holdings:   make(map[string]*Holding),
		StopOrders: make(map[string]*StopOrder),
	}
}

// HeldShares returns the share count for symbol, zero when not held.
func (a *Account) HeldShares(symbol string) int64 {
	if h, ok := a.Holdings[symbol]; ok {
		return h.Shares
	}
	return 0
}

// Symbols returns the held symbols in unspecified order.
func (a *Account) Symbols() []string {
	syms := make([]string, 0, len(a.Holdings))
	for sym := range a.Holdings {
		syms = append(syms, sym)
	}
	return syms
}
