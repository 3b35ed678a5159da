package models

import "github.com/shopspring/decimal"

// Quote is a point-in-time price observation for a symbol. Quotes are
// supplied per evaluation tick and never persisted.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	PrevClose decimal.Decimal `json:"prev_close"`
}

// ChangePercent returns the day change relative to the previous close,
// zero when the previous close is unknown.
func (q Quote) ChangePercent() decimal.Decimal {
	if q.PrevClose.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return q.Price.Sub(q.PrevClose).Div(q.PrevClose).Mul(hundred)
}
