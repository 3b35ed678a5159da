// Package engine evaluates conditional orders against market quotes. One
// evaluation tick runs the stop-loss pass and then the limit-order pass,
// synchronously, before the driver processes the next trader command.
package engine

import (
	"github.com/kaustubhkharvi/stock-trader/internal/models"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
	"github.com/kaustubhkharvi/stock-trader/internal/store"
)

// Engine wires the account and order stores to a quote source.
type Engine struct {
	Accounts *store.AccountStore
	Orders   *store.OrderStore
	Quotes   quotes.Source
}

// New creates an evaluation engine.
func New(accounts *store.AccountStore, orders *store.OrderStore, src quotes.Source) *Engine {
	return &Engine{Accounts: accounts, Orders: orders, Quotes: src}
}

// TickResult carries the executions of one evaluation tick.
type TickResult struct {
	StopExecutions  []models.StopExecution
	LimitExecutions []models.LimitExecution
}

// Tick runs one evaluation pass: the account's stop losses first, then all
// pending limit orders. Quotes are memoized so the source is consulted at
// most once per symbol per tick.
func (e *Engine) Tick(acct *models.Account) TickResult {
	memo := newTickQuotes(e.Quotes)
	var res TickResult
	if acct != nil {
		res.StopExecutions = e.evaluateStopLosses(acct, memo)
	}
	res.LimitExecutions = e.evaluateLimitOrders(memo)
	return res
}

// EvaluateStopLosses runs only the stop-loss pass for one account.
func (e *Engine) EvaluateStopLosses(acct *models.Account) []models.StopExecution {
	return e.evaluateStopLosses(acct, newTickQuotes(e.Quotes))
}

// EvaluateLimitOrders runs only the limit-order pass over all accounts.
func (e *Engine) EvaluateLimitOrders() []models.LimitExecution {
	return e.evaluateLimitOrders(newTickQuotes(e.Quotes))
}

// tickQuotes memoizes quote lookups within a single tick, including misses,
// so an unavailable symbol is skipped consistently until the next tick.
type tickQuotes struct {
	src  quotes.Source
	seen map[string]*models.Quote
}

func newTickQuotes(src quotes.Source) *tickQuotes {
	return &tickQuotes{src: src, seen: make(map[string]*models.Quote)}
}

// get returns the tick's quote for symbol; ok is false when the source
// reported the symbol unavailable.
func (t *tickQuotes) get(symbol string) (models.Quote, bool) {
	if q, hit := t.seen[symbol]; hit {
		if q == nil {
			return models.Quote{}, false
		}
		return *q, true
	}

	q, err := t.src.GetQuote(symbol)
	if err != nil {
		t.seen[symbol] = nil
		return models.Quote{}, false
	}
	t.seen[symbol] = &q
	return q, true
}
