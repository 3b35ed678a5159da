package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestAccount(cash string) *models.Account {
	return models.NewAccount("tester", d(cash))
}

func TestBuyDebitsCashAndCreatesHolding(t *testing.T) {
	acct := newTestAccount("10000")

	err := Buy(acct, "RELIANCE", 10, d("100"))
	require.NoError(t, err)

	assert.True(t, acct.Cash.Equal(d("9000")), "cash %s", acct.Cash)
	h := acct.Holdings["RELIANCE"]
	require.NotNil(t, h)
	assert.Equal(t, int64(10), h.Shares)
	assert.True(t, h.AvgCost.Equal(d("100")))
}

func TestBuyFoldsIntoWeightedAverage(t *testing.T) {
	acct := newTestAccount("10000")

	require.NoError(t, Buy(acct, "TCS", 10, d("100")))
	require.NoError(t, Buy(acct, "TCS", 10, d("200")))

	h := acct.Holdings["TCS"]
	require.NotNil(t, h)
	assert.Equal(t, int64(20), h.Shares)
	assert.True(t, h.AvgCost.Equal(d("150")), "avg cost %s", h.AvgCost)
	assert.True(t, acct.Cash.Equal(d("7000")))
}

func TestWeightedAverageIsOrderIndependent(t *testing.T) {
	a := newTestAccount("100000")
	b := newTestAccount("100000")

	require.NoError(t, Buy(a, "INFY", 5, d("120")))
	require.NoError(t, Buy(a, "INFY", 15, d("80")))

	require.NoError(t, Buy(b, "INFY", 15, d("80")))
	require.NoError(t, Buy(b, "INFY", 5, d("120")))

	assert.True(t, a.Holdings["INFY"].AvgCost.Equal(b.Holdings["INFY"].AvgCost),
		"avg cost %s vs %s", a.Holdings["INFY"].AvgCost, b.Holdings["INFY"].AvgCost)
	assert.True(t, a.Cash.Equal(b.Cash))
}

func TestBuyInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	acct := newTestAccount("500")

	err := Buy(acct, "RELIANCE", 10, d("100"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	assert.True(t, acct.Cash.Equal(d("500")))
	assert.Empty(t, acct.Holdings)
}

func TestBuyExactBalanceSucceeds(t *testing.T) {
	acct := newTestAccount("1000")

	require.NoError(t, Buy(acct, "SBIN", 10, d("100")))
	assert.True(t, acct.Cash.IsZero(), "cash %s", acct.Cash)
}

func TestBuyRejectsInvalidQuantity(t *testing.T) {
	acct := newTestAccount("1000")

	require.ErrorIs(t, Buy(acct, "SBIN", 0, d("100")), ErrInvalidQuantity)
	require.ErrorIs(t, Buy(acct, "SBIN", -5, d("100")), ErrInvalidQuantity)
	require.ErrorIs(t, Buy(acct, "SBIN", 5, d("0")), ErrInvalidQuantity)
	assert.True(t, acct.Cash.Equal(d("1000")))
}

func TestSellCreditsCashAndKeepsAvgCost(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "WIPRO", 10, d("100")))

	require.NoError(t, Sell(acct, "WIPRO", 4, d("150")))

	assert.True(t, acct.Cash.Equal(d("9600")), "cash %s", acct.Cash)
	h := acct.Holdings["WIPRO"]
	require.NotNil(t, h)
	assert.Equal(t, int64(6), h.Shares)
	assert.True(t, h.AvgCost.Equal(d("100")), "partial sale must not change avg cost")
}

func TestSellFullPositionDeletesHoldingAndStopOrder(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "ITC", 10, d("100")))
	acct.StopOrders["ITC"] = &models.StopOrder{Shares: 10, StopPrice: d("90")}

	require.NoError(t, Sell(acct, "ITC", 10, d("110")))

	assert.NotContains(t, acct.Holdings, "ITC")
	assert.NotContains(t, acct.StopOrders, "ITC")
	assert.True(t, acct.Cash.Equal(d("10100")))
}

func TestSellMoreThanHeldLeavesStateUnchanged(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "LT", 5, d("100")))
	cashBefore := acct.Cash

	err := Sell(acct, "LT", 6, d("100"))
	require.ErrorIs(t, err, ErrInsufficientShares)

	assert.True(t, acct.Cash.Equal(cashBefore))
	assert.Equal(t, int64(5), acct.Holdings["LT"].Shares)
}

func TestSellUnknownSymbol(t *testing.T) {
	acct := newTestAccount("10000")

	err := Sell(acct, "NOSUCH", 1, d("100"))
	require.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestSellPercentFloorsToWholeShares(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "TITAN", 7, d("100")))

	// 50% of 7 shares floors to 3.
	sold, err := SellPercent(acct, "TITAN", d("50"), d("100"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), sold)
	assert.Equal(t, int64(4), acct.Holdings["TITAN"].Shares)
}

func TestSellPercentHundredClosesPosition(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "NTPC", 8, d("50")))

	sold, err := SellPercent(acct, "NTPC", d("100"), d("60"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), sold)
	assert.NotContains(t, acct.Holdings, "NTPC")
}

func TestSellPercentRejectsRoundToZero(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "ONGC", 1, d("100")))

	_, err := SellPercent(acct, "ONGC", d("40"), d("100"))
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, int64(1), acct.Holdings["ONGC"].Shares)
}

func TestSellPercentRejectsOutOfRange(t *testing.T) {
	acct := newTestAccount("10000")
	require.NoError(t, Buy(acct, "BPCL", 10, d("100")))

	_, err := SellPercent(acct, "BPCL", d("0"), d("100"))
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = SellPercent(acct, "BPCL", d("101"), d("100"))
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
