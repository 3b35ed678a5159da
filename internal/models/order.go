package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side distinguishes buy and sell limit orders.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) String() string { return string(s) }

// Valid reports whether s is a known order side.
func (s Side) Valid() bool { return s == SideBuy || s == SideSell }

// LimitOrder is a pending buy or sell that fills when the market price
// reaches TargetPrice. Execution happens at the market price, not the
// target. Seq is assigned by the order store and gives FIFO evaluation
// order; filled and cancelled orders are removed, never retained.
type LimitOrder struct {
	ID          string          `json:"id"`
	Account     string          `json:"account"`
	Symbol      string          `json:"symbol"`
	Shares      int64           `json:"shares"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Side        Side            `json:"side"`
	CreatedAt   time.Time       `json:"created_at"`
	Seq         int64           `json:"seq"`
}

// StopExecution records a triggered stop-loss sale.
type StopExecution struct {
	Symbol    string          `json:"symbol"`
	Shares    int64           `json:"shares"`
	ExecPrice decimal.Decimal `json:"exec_price"`
	StopPrice decimal.Decimal `json:"stop_price"`
	Trailing  bool            `json:"trailing"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LimitExecution records a filled limit order.
type LimitExecution struct {
	Account     string          `json:"account"`
	Side        Side            `json:"side"`
	Symbol      string          `json:"symbol"`
	Shares      int64           `json:"shares"`
	TargetPrice decimal.Decimal `json:"target_price"`
	ExecPrice   decimal.Decimal `json:"exec_price"`
}
