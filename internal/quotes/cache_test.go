package quotes

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustubhkharvi/stock-trader/internal/models"
)

func TestCacheManagerRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, true)

	want := models.Quote{Symbol: "TCS", Price: d("100.5"), PrevClose: d("99")}
	require.NoError(t, cm.Set("yahoo", "quote", "TCS.NS", want))

	var got models.Quote
	require.True(t, cm.Get("yahoo", "quote", "TCS.NS", &got))
	assert.Equal(t, want.Symbol, got.Symbol)
	assert.True(t, got.Price.Equal(want.Price))

	var miss models.Quote
	assert.False(t, cm.Get("yahoo", "quote", "OTHER.NS", &miss))
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, false)
	require.NoError(t, cm.Set("yahoo", "quote", "TCS.NS", models.Quote{Symbol: "TCS"}))

	var got models.Quote
	assert.False(t, cm.Get("yahoo", "quote", "TCS.NS", &got))
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2.0}

	attempts := 0
	err := WithRetry(cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAndWrapsLastError(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2.0}

	sentinel := errors.New("down")
	err := WithRetry(cfg, func() error { return sentinel })
	require.ErrorIs(t, err, sentinel)
}

func TestYahooExchangeSymbol(t *testing.T) {
	y := NewYahooSource("", ".NS", false)
	assert.Equal(t, "RELIANCE.NS", y.exchangeSymbol("reliance"))
	assert.Equal(t, "TCS.BO", y.exchangeSymbol("TCS.BO"), "explicit exchange suffix is kept")

	bare := NewYahooSource("", "", false)
	assert.Equal(t, "AAPL", bare.exchangeSymbol("aapl"))
}
