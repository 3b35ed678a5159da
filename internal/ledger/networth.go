package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
)

// PositionReport is one priced portfolio row, consumed by the display layer.
type PositionReport struct {
	Symbol       string
	Shares       int64
	AvgCost      decimal.Decimal
	CurrentPrice decimal.Decimal
	Invested     decimal.Decimal
	MarketValue  decimal.Decimal
	ProfitLoss   decimal.Decimal
	Priced       bool // false when no quote was obtainable and avg cost was used
}

// NetWorth values the account at current prices: cash plus the sum of
// shares*price over holdings. A symbol whose price cannot be obtained
// contributes its average cost instead of failing the whole valuation.
func NetWorth(acct *models.Account, src quotes.Source) decimal.Decimal {
	total := acct.Cash
	for _, row := range Positions(acct, src) {
		total = total.Add(row.MarketValue)
	}
	return total
}

// PortfolioValue is the holdings part of the net worth, without cash.
func PortfolioValue(acct *models.Account, src quotes.Source) decimal.Decimal {
	return NetWorth(acct, src).Sub(acct.Cash)
}

// Positions prices every holding, symbols ascending. Unpriceable symbols
// degrade to average cost with Priced=false.
func Positions(acct *models.Account, src quotes.Source) []PositionReport {
	syms := acct.Symbols()
	sort.Strings(syms)

	reports := make([]PositionReport, 0, len(syms))
	for _, sym := range syms {
		h := acct.Holdings[sym]
		row := PositionReport{
			Symbol:  sym,
			Shares:  h.Shares,
			AvgCost: h.AvgCost,
		}

		row.CurrentPrice = h.AvgCost
		if src != nil {
			if q, err := src.GetQuote(sym); err == nil {
				row.CurrentPrice = q.Price
				row.Priced = true
			}
		}

		sharesDec := decimal.NewFromInt(h.Shares)
		row.Invested = h.AvgCost.Mul(sharesDec)
		row.MarketValue = row.CurrentPrice.Mul(sharesDec)
		row.ProfitLoss = row.MarketValue.Sub(row.Invested)
		reports = append(reports, row)
	}
	return reports
}
