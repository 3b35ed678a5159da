package store

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

func TestAccountStoreGetOrCreate(t *testing.T) {
	s := NewAccountStore(d("10000"))

	acct, created := s.GetOrCreate("alice")
	assert.True(t, created)
	assert.True(t, acct.Cash.Equal(d("10000")))

	again, created := s.GetOrCreate("alice")
	assert.False(t, created)
	assert.Same(t, acct, again)
	assert.Equal(t, 1, s.Len())
}

func TestAccountStoreResetAndDelete(t *testing.T) {
	s := NewAccountStore(d("10000"))
	acct, _ := s.GetOrCreate("bob")
	acct.Cash = d("5")
	acct.Holdings["TCS"] = &models.Holding{Shares: 3, AvgCost: d("100")}

	require.True(t, s.Reset("bob"))
	fresh := s.Get("bob")
	assert.True(t, fresh.Cash.Equal(d("10000")))
	assert.Empty(t, fresh.Holdings)

	require.True(t, s.Delete("bob"))
	assert.False(t, s.Delete("bob"))
	assert.Nil(t, s.Get("bob"))
	assert.False(t, s.Reset("bob"))
}

func TestAccountStoreUsernamesSorted(t *testing.T) {
	s := NewAccountStore(d("10000"))
	for _, name := range []string{"carol", "alice", "bob"} {
		s.GetOrCreate(name)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, s.Usernames())
}

func TestOrderStoreAddAssignsIncreasingSeq(t *testing.T) {
	s := NewOrderStore()

	first, err := s.Add("alice", "TCS", 10, d("100"), models.SideBuy)
	require.NoError(t, err)
	second, err := s.Add("alice", "TCS", 10, d("100"), models.SideBuy)
	require.NoError(t, err)

	assert.Less(t, first.Seq, second.Seq)
	assert.NotEqual(t, first.ID, second.ID)

	pending := s.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestOrderStoreAddValidation(t *testing.T) {
	s := NewOrderStore()

	_, err := s.Add("alice", "TCS", 0, d("100"), models.SideBuy)
	require.Error(t, err)
	_, err = s.Add("alice", "TCS", 10, d("0"), models.SideBuy)
	require.Error(t, err)
	_, err = s.Add("alice", "TCS", 10, d("100"), models.Side("hold"))
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestOrderStoreRestoreKeepsSeqAhead(t *testing.T) {
	s := NewOrderStore()
	require.NoError(t, s.Restore(&models.LimitOrder{ID: "x", Account: "alice", Symbol: "TCS", Shares: 1, TargetPrice: d("10"), Side: models.SideBuy, Seq: 7}))

	next, err := s.Add("alice", "TCS", 1, d("10"), models.SideBuy)
	require.NoError(t, err)
	assert.Greater(t, next.Seq, int64(7), "new orders must sort after restored ones")
}

func TestOrderStoreCancel(t *testing.T) {
	s := NewOrderStore()
	s.Add("alice", "TCS", 1, d("10"), models.SideBuy)
	s.Add("alice", "INFY", 1, d("10"), models.SideBuy)
	s.Add("bob", "TCS", 1, d("10"), models.SideSell)

	assert.Equal(t, 1, s.Cancel("alice", "TCS"))
	assert.Equal(t, 1, s.Cancel("alice", ""))
	assert.Equal(t, 0, s.Cancel("alice", ""))
	assert.Equal(t, 1, s.Len(), "other accounts' orders untouched")
	require.Len(t, s.ForAccount("bob"), 1)
}

func TestOrderStoreClear(t *testing.T) {
	s := NewOrderStore()
	s.Add("alice", "TCS", 1, d("10"), models.SideBuy)
	s.Add("bob", "TCS", 1, d("10"), models.SideSell)

	assert.Equal(t, 2, s.Clear())
	assert.Equal(t, 0, s.Len())
}
