package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/ledger"
	"github.com/kaustubhkharvi/stock-trader/internal/models"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
)

var hundred = decimal.NewFromInt(100)

// SetStopLoss creates or replaces a fixed stop-loss on a held symbol.
// Shares must not exceed the current position.
func SetStopLoss(acct *models.Account, symbol string, shares int64, stopPrice decimal.Decimal) error {
	if shares <= 0 || !stopPrice.IsPositive() {
		return fmt.Errorf("stop loss on %s: %w", symbol, ledger.ErrInvalidQuantity)
	}
	held := acct.HeldShares(symbol)
	if held == 0 {
		return fmt.Errorf("stop loss on %s: %w", symbol, ledger.ErrUnknownSymbol)
	}
	if shares > held {
		return fmt.Errorf("stop loss for %d shares of %s, hold %d: %w", shares, symbol, held, ledger.ErrInsufficientShares)
	}

	acct.StopOrders[symbol] = &models.StopOrder{
		Shares:    shares,
		StopPrice: stopPrice,
		SetAt:     time.Now(),
	}
	return nil
}

// SetTrailingStop creates or replaces a trailing stop-loss. The reference
// price is the live quote at creation time: the initial stop is
// price*(1-percent/100) and the high-water mark starts at the live price.
func SetTrailingStop(acct *models.Account, symbol string, shares int64, percent decimal.Decimal, src quotes.Source) error {
	if shares <= 0 || !percent.IsPositive() || percent.GreaterThanOrEqual(hundred) {
		return fmt.Errorf("trailing stop on %s: %w", symbol, ledger.ErrInvalidQuantity)
	}
	held := acct.HeldShares(symbol)
	if held == 0 {
		return fmt.Errorf("trailing stop on %s: %w", symbol, ledger.ErrUnknownSymbol)
	}
	if shares > held {
		return fmt.Errorf("trailing stop for %d shares of %s, hold %d: %w", shares, symbol, held, ledger.ErrInsufficientShares)
	}

	q, err := src.GetQuote(symbol)
	if err != nil {
		return fmt.Errorf("trailing stop on %s needs a live price: %w", symbol, err)
	}

	acct.StopOrders[symbol] = &models.StopOrder{
		Shares:          shares,
		StopPrice:       trailingStopPrice(q.Price, percent),
		Trailing:        true,
		TrailingPercent: percent,
		HighestSeen:     q.Price,
		SetAt:           time.Now(),
	}
	return nil
}

// CancelStopLoss removes the stop order on symbol, or all stop orders when
// symbol is empty. Returns the number cancelled.
func CancelStopLoss(acct *models.Account, symbol string) int {
	if symbol == "" {
		n := len(acct.StopOrders)
		acct.StopOrders = make(map[string]*models.StopOrder)
		return n
	}
	if _, ok := acct.StopOrders[symbol]; !ok {
		return 0
	}
	delete(acct.StopOrders, symbol)
	return 1
}

func trailingStopPrice(high, percent decimal.Decimal) decimal.Decimal {
	return high.Mul(decimal.NewFromInt(1).Sub(percent.Div(hundred)))
}

// evaluateStopLosses walks the account's stop orders in symbol order.
// For each order: orphans are removed, trailing stops ratchet upward on a
// new high, and a price at or below the stop forces a sale through the
// ledger. The ratchet and the trigger check use the same tick's quote, so a
// pure new-high tick cannot self-trigger unless the trailing percent is zero.
func (e *Engine) evaluateStopLosses(acct *models.Account, memo *tickQuotes) []models.StopExecution {
	syms := make([]string, 0, len(acct.StopOrders))
	for sym := range acct.StopOrders {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	var executions []models.StopExecution
	for _, sym := range syms {
		order := acct.StopOrders[sym]

		// Orphan cleanup: the holding was sold out from under the order.
		held := acct.HeldShares(sym)
		if held == 0 {
			delete(acct.StopOrders, sym)
			continue
		}

		q, ok := memo.get(sym)
		if !ok {
			continue // transient, retried next tick
		}

		if order.Trailing && q.Price.GreaterThan(order.HighestSeen) {
			order.HighestSeen = q.Price
			order.StopPrice = trailingStopPrice(order.HighestSeen, order.TrailingPercent)
		}

		if q.Price.GreaterThan(order.StopPrice) {
			continue
		}

		shares := order.Shares
		if held < shares {
			shares = held
		}

		if err := ledger.Sell(acct, sym, shares, q.Price); err != nil {
			continue
		}
		// A full sale already removed the order via the ledger.
		delete(acct.StopOrders, sym)

		executions = append(executions, models.StopExecution{
			Symbol:    sym,
			Shares:    shares,
			ExecPrice: q.Price,
			StopPrice: order.StopPrice,
			Trailing:  order.Trailing,
			Revenue:   q.Price.Mul(decimal.NewFromInt(shares)),
		})
	}
	return executions
}
