package engine

import (
	"github.com/kaustubhkharvi/stock-trader/internal/ledger"
	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// evaluateLimitOrders walks all pending orders in FIFO order. Buys fill when
// the price is at or below the target, sells when at or above; execution is
// always at the quote price. An order whose account can no longer afford or
// cover it stays pending and is retried on a later tick.
func (e *Engine) evaluateLimitOrders(memo *tickQuotes) []models.LimitExecution {
	var executions []models.LimitExecution
	for _, order := range e.Orders.Pending() {
		acct := e.Accounts.Get(order.Account)
		if acct == nil {
			e.Orders.Remove(order.ID)
			continue
		}

		q, ok := memo.get(order.Symbol)
		if !ok {
			continue // transient, retried next tick
		}

		switch order.Side {
		case models.SideBuy:
			if q.Price.GreaterThan(order.TargetPrice) {
				continue
			}
			if err := ledger.Buy(acct, order.Symbol, order.Shares, q.Price); err != nil {
				continue // balance changed since placement, retry later
			}
		case models.SideSell:
			if q.Price.LessThan(order.TargetPrice) {
				continue
			}
			if err := ledger.Sell(acct, order.Symbol, order.Shares, q.Price); err != nil {
				continue // shares reduced since placement, retry later
			}
		default:
			e.Orders.Remove(order.ID)
			continue
		}

		e.Orders.Remove(order.ID)
		executions = append(executions, models.LimitExecution{
			Account:     order.Account,
			Side:        order.Side,
			Symbol:      order.Symbol,
			Shares:      order.Shares,
			TargetPrice: order.TargetPrice,
			ExecPrice:   q.Price,
		})
	}
	return executions
}
