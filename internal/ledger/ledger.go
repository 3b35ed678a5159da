// Package ledger is the sole writer of account cash and holdings. Stop-loss
// and limit-order evaluation request mutations through it, which keeps the
// weighted-average-cost and non-negative-cash invariants in one place.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

var (
	// ErrInsufficientFunds means cash does not cover shares*price.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares means the account holds fewer shares than requested.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrInvalidQuantity means a non-positive share count or price.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrUnknownSymbol means the account holds no position in the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Buy debits cash and folds the purchase into the holding's weighted
// average cost. State is unchanged on error.
func Buy(acct *models.Account, symbol string, shares int64, price decimal.Decimal) error {
	if shares <= 0 || !price.IsPositive() {
		return fmt.Errorf("buy %s: %w", symbol, ErrInvalidQuantity)
	}

	cost := price.Mul(decimal.NewFromInt(shares))
	if acct.Cash.LessThan(cost) {
		return fmt.Errorf("buy %d %s at %s needs %s, have %s: %w",
			shares, symbol, price.StringFixed(2), cost.StringFixed(2), acct.Cash.StringFixed(2), ErrInsufficientFunds)
	}

	acct.Cash = acct.Cash.Sub(cost)

	if h, ok := acct.Holdings[symbol]; ok {
		oldShares := decimal.NewFromInt(h.Shares)
		newShares := decimal.NewFromInt(h.Shares + shares)
		h.AvgCost = h.AvgCost.Mul(oldShares).Add(cost).Div(newShares)
		h.Shares += shares
	} else {
		acct.Holdings[symbol] = &models.Holding{Shares: shares, AvgCost: price}
	}
	return nil
}

// Sell credits cash for shares*price and decrements the holding. Selling
// the entire position deletes the holding and any stop order on the symbol.
// State is unchanged on error.
func Sell(acct *models.Account, symbol string, shares int64, price decimal.Decimal) error {
	if shares <= 0 || !price.IsPositive() {
		return fmt.Errorf("sell %s: %w", symbol, ErrInvalidQuantity)
	}

	h, ok := acct.Holdings[symbol]
	if !ok {
		return fmt.Errorf("sell %s: %w", symbol, ErrUnknownSymbol)
	}
	if shares > h.Shares {
		return fmt.Errorf("sell %d %s, hold %d: %w", shares, symbol, h.Shares, ErrInsufficientShares)
	}

	acct.Cash = acct.Cash.Add(price.Mul(decimal.NewFromInt(shares)))
	h.Shares -= shares
	if h.Shares == 0 {
		delete(acct.Holdings, symbol)
		delete(acct.StopOrders, symbol)
	}
	return nil
}

// SellPercent sells a whole-share fraction of the position: the share count
// is floor(held * percent / 100). Returns the shares sold.
func SellPercent(acct *models.Account, symbol string, percent, price decimal.Decimal) (int64, error) {
	hundred := decimal.NewFromInt(100)
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return 0, fmt.Errorf("sell percent must be in (0, 100]: %w", ErrInvalidQuantity)
	}

	h, ok := acct.Holdings[symbol]
	if !ok {
		return 0, fmt.Errorf("sell %s: %w", symbol, ErrUnknownSymbol)
	}

	shares := decimal.NewFromInt(h.Shares).Mul(percent).Div(hundred).IntPart()
	if shares == 0 {
		return 0, fmt.Errorf("%s of %d shares rounds to zero: %w", percent.StringFixed(1)+"%", h.Shares, ErrInvalidQuantity)
	}

	if err := Sell(acct, symbol, shares, price); err != nil {
		return 0, err
	}
	return shares, nil
}
