package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

// OrderStore owns the active limit orders. Sequence numbers are assigned at
// creation and give a stable FIFO evaluation order.
type OrderStore struct {
	orders map[string]*models.LimitOrder
	seq    int64
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]*models.LimitOrder)}
}

// Add creates a pending limit order and returns its ID.
func (s *OrderStore) Add(account, symbol string, shares int64, targetPrice decimal.Decimal, side models.Side) (*models.LimitOrder, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("invalid order side %q", side)
	}
	if shares <= 0 || !targetPrice.IsPositive() {
		return nil, fmt.Errorf("shares and target price must be positive")
	}

	s.seq++
	now := time.Now()
	order := &models.LimitOrder{
		ID:          fmt.Sprintf("%s_%s_%s_%d_%d", account, symbol, side, now.Unix(), s.seq),
		Account:     account,
		Symbol:      symbol,
		Shares:      shares,
		TargetPrice: targetPrice,
		Side:        side,
		CreatedAt:   now,
		Seq:         s.seq,
	}
	s.orders[order.ID] = order
	return order, nil
}

// Restore reinstalls a persisted order, keeping the sequence counter ahead
// of every restored order.
func (s *OrderStore) Restore(order *models.LimitOrder) error {
	if order == nil || order.ID == "" {
		return fmt.Errorf("order must have an id")
	}
	if order.Seq > s.seq {
		s.seq = order.Seq
	}
	s.orders[order.ID] = order
	return nil
}

// Get returns the order with the given ID, nil when absent.
func (s *OrderStore) Get(id string) *models.LimitOrder {
	return s.orders[id]
}

// Remove deletes an order by ID.
func (s *OrderStore) Remove(id string) bool {
	if _, ok := s.orders[id]; !ok {
		return false
	}
	delete(s.orders, id)
	return true
}

// Pending returns the active orders in FIFO order (ascending sequence).
func (s *OrderStore) Pending() []*models.LimitOrder {
	orders := make([]*models.LimitOrder, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Seq < orders[j].Seq })
	return orders
}

// ForAccount returns the account's orders in FIFO order.
func (s *OrderStore) ForAccount(account string) []*models.LimitOrder {
	var orders []*models.LimitOrder
	for _, o := range s.Pending() {
		if o.Account == account {
			orders = append(orders, o)
		}
	}
	return orders
}

// Cancel removes the account's orders, optionally restricted to one symbol
// (empty symbol cancels all). Returns the number cancelled.
func (s *OrderStore) Cancel(account, symbol string) int {
	cancelled := 0
	for id, o := range s.orders {
		if o.Account != account {
			continue
		}
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		delete(s.orders, id)
		cancelled++
	}
	return cancelled
}

// Clear removes every pending order and returns how many there were.
func (s *OrderStore) Clear() int {
	n := len(s.orders)
	s.orders = make(map[string]*models.LimitOrder)
	return n
}

// Len returns the number of pending orders.
func (s *OrderStore) Len() int { return len(s.orders) }
