package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustubhkharvi/stock-trader/internal/ledger"
	"github.com/kaustubhkharvi/stock-trader/internal/models"
	"github.com/kaustubhkharvi/stock-trader/internal/quotes"
)

func TestLimitBuyFillsAtOrBelowTarget(t *testing.T) {
	cases := []struct {
		price string
		fills bool
	}{
		{"101", false},
		{"100", true},
		{"99", true},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.src.Set("RELIANCE", d(tc.price), d("100"))
		_, err := f.orders.Add("tester", "RELIANCE", 10, d("100"), models.SideBuy)
		require.NoError(t, err)

		res := f.engine.Tick(f.acct)
		if !tc.fills {
			assert.Empty(t, res.LimitExecutions, "price %s", tc.price)
			assert.Equal(t, 1, f.orders.Len())
			continue
		}
		require.Len(t, res.LimitExecutions, 1, "price %s", tc.price)
		ex := res.LimitExecutions[0]
		assert.Equal(t, models.SideBuy, ex.Side)
		assert.True(t, ex.ExecPrice.Equal(d(tc.price)), "fills at the quote, not the target")
		assert.Equal(t, int64(10), f.acct.HeldShares("RELIANCE"))
		assert.Equal(t, 0, f.orders.Len())
	}
}

func TestLimitSellFillsAtOrAboveTarget(t *testing.T) {
	f := newFixture(t)
	f.buy(t, "TCS", 10, "100")
	_, err := f.orders.Add("tester", "TCS", 5, d("150"), models.SideSell)
	require.NoError(t, err)

	f.src.SetPrice("TCS", d("149"))
	res := f.engine.Tick(f.acct)
	assert.Empty(t, res.LimitExecutions)

	f.src.SetPrice("TCS", d("151"))
	res = f.engine.Tick(f.acct)
	require.Len(t, res.LimitExecutions, 1)
	ex := res.LimitExecutions[0]
	assert.True(t, ex.ExecPrice.Equal(d("151")))
	assert.Equal(t, int64(5), f.acct.HeldShares("TCS"))
	// 9000 after the buy, plus 5*151.
	assert.True(t, f.acct.Cash.Equal(d("9755")), "cash %s", f.acct.Cash)
}

func TestLimitBuyStaysPendingWhenFundsInsufficient(t *testing.T) {
	f := newFixture(t)
	f.src.Set("RELIANCE", d("90"), d("100"))
	_, err := f.orders.Add("tester", "RELIANCE", 10, d("100"), models.SideBuy)
	require.NoError(t, err)

	// Cash evaporates before the fill.
	f.acct.Cash = d("100")
	res := f.engine.Tick(f.acct)
	assert.Empty(t, res.LimitExecutions)
	assert.Equal(t, 1, f.orders.Len(), "unaffordable order is retried, not dropped")

	// Funds return; the order fills on a later tick.
	f.acct.Cash = d("1000")
	res = f.engine.Tick(f.acct)
	require.Len(t, res.LimitExecutions, 1)
	assert.Equal(t, 0, f.orders.Len())
}

func TestLimitSellStaysPendingWhenSharesInsufficient(t *testing.T) {
	f := newFixture(t)
	f.buy(t, "INFY", 3, "100")
	_, err := f.orders.Add("tester", "INFY", 5, d("120"), models.SideSell)
	require.NoError(t, err)

	f.src.SetPrice("INFY", d("125"))
	res := f.engine.Tick(f.acct)
	assert.Empty(t, res.LimitExecutions)
	assert.Equal(t, 1, f.orders.Len())

	require.NoError(t, ledger.Buy(f.acct, "INFY", 2, d("125")))
	res = f.engine.Tick(f.acct)
	require.Len(t, res.LimitExecutions, 1)
	assert.Equal(t, 0, f.orders.Len())
}

func TestLimitOrdersFillInPlacementOrder(t *testing.T) {
	f := newFixture(t)
	f.src.Set("SBIN", d("100"), d("100"))
	first, err := f.orders.Add("tester", "SBIN", 10, d("100"), models.SideBuy)
	require.NoError(t, err)
	second, err := f.orders.Add("tester", "SBIN", 10, d("100"), models.SideBuy)
	require.NoError(t, err)

	// Only enough cash for one of the two orders.
	f.acct.Cash = d("1500")
	res := f.engine.Tick(f.acct)
	require.Len(t, res.LimitExecutions, 1)
	assert.Nil(t, f.orders.Get(first.ID), "older order fills first")
	assert.NotNil(t, f.orders.Get(second.ID))
}

func TestLimitOrderForDeletedAccountIsRemoved(t *testing.T) {
	f := newFixture(t)
	f.src.Set("ITC", d("90"), d("100"))
	_, err := f.orders.Add("ghost", "ITC", 10, d("100"), models.SideBuy)
	require.NoError(t, err)

	res := f.engine.Tick(f.acct)
	assert.Empty(t, res.LimitExecutions)
	assert.Equal(t, 0, f.orders.Len())
}

func TestLimitOrderSkipsUnavailableQuote(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Add("tester", "NOQUOTE", 10, d("100"), models.SideBuy)
	require.NoError(t, err)

	res := f.engine.Tick(f.acct)
	assert.Empty(t, res.LimitExecutions)
	assert.Equal(t, 1, f.orders.Len())
}

// countingSource wraps a static source and counts lookups per symbol.
type countingSource struct {
	inner *quotes.StaticSource
	calls map[string]int
}

func (c *countingSource) GetQuote(symbol string) (models.Quote, error) {
	c.calls[symbol]++
	return c.inner.GetQuote(symbol)
}

func TestTickConsultsSourceOncePerSymbol(t *testing.T) {
	f := newFixture(t)
	f.buy(t, "RELIANCE", 10, "100")
	require.NoError(t, SetStopLoss(f.acct, "RELIANCE", 10, d("50")))
	_, err := f.orders.Add("tester", "RELIANCE", 5, d("80"), models.SideBuy)
	require.NoError(t, err)
	_, err = f.orders.Add("tester", "RELIANCE", 5, d("70"), models.SideBuy)
	require.NoError(t, err)

	counting := &countingSource{inner: f.src, calls: make(map[string]int)}
	engine := New(f.accounts, f.orders, counting)

	engine.Tick(f.acct)
	assert.Equal(t, 1, counting.calls["RELIANCE"], "stop and limit passes share one quote per tick")
}

func TestTickMemoizesQuoteMisses(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Add("tester", "GONE", 5, d("80"), models.SideBuy)
	require.NoError(t, err)
	_, err = f.orders.Add("tester", "GONE", 5, d("70"), models.SideBuy)
	require.NoError(t, err)

	counting := &countingSource{inner: f.src, calls: make(map[string]int)}
	engine := New(f.accounts, f.orders, counting)

	res := engine.Tick(f.acct)
	assert.Empty(t, res.LimitExecutions)
	assert.Equal(t, 1, counting.calls["GONE"], "a miss is also memoized within the tick")
	assert.Equal(t, 2, f.orders.Len())
}
