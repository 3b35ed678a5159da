package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
)

func TestNetWorthIsCashPlusMarketValue(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "RELIANCE", 10, d("100")))
	require.NoError(t, Buy(acct, "TCS", 5, d("200")))

	src := quotes.NewStaticSource()
	src.Set("RELIANCE", d("120"), d("100"))
	src.Set("TCS", d("180"), d("200"))

	// 8000 cash + 10*120 + 5*180 = 10100
	assert.True(t, NetWorth(acct, src).Equal(d("10100")), "net worth %s", NetWorth(acct, src))
	assert.True(t, PortfolioValue(acct, src).Equal(d("2100")))
}

func TestNetWorthEmptyAccountIsCash(t *testing.T) {
	acct := newTestAccount("10000")
	assert.True(t, NetWorth(acct, quotes.NewStaticSource()).Equal(d("10000")))
}

func TestUnpriceableHoldingDegradesToAvgCost(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "RELIANCE", 10, d("100")))
	require.NoError(t, Buy(acct, "DELISTED", 5, d("40")))

	src := quotes.NewStaticSource()
	src.Set("RELIANCE", d("110"), d("100"))

	rows := Positions(acct, src)
	require.Len(t, rows, 2)

	// Symbols ascending.
	assert.Equal(t, "DELISTED", rows[0].Symbol)
	assert.False(t, rows[0].Priced)
	assert.True(t, rows[0].MarketValue.Equal(d("200")), "valued at avg cost")
	assert.True(t, rows[0].ProfitLoss.IsZero())

	assert.Equal(t, "RELIANCE", rows[1].Symbol)
	assert.True(t, rows[1].Priced)
	assert.True(t, rows[1].ProfitLoss.Equal(d("100")))

	// 8800 cash + 200 + 1100
	assert.True(t, NetWorth(acct, src).Equal(d("10100")))
}
