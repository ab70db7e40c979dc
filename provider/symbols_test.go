package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoinID(t *testing.T) {
	assert.Equal(t, "bitcoin", CoinID("btc"))
	assert.Equal(t, "bitcoin", CoinID(" BTC "))
	assert.Equal(t, "tether", CoinID("usdt"))
	// Unmapped symbols fall through unchanged, the provider decides
	assert.Equal(t, "pepe", CoinID("PEPE"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bitcoin", Normalize("BTC", "coingecko"))
	assert.Equal(t, "bitcoin", Normalize("btc", "CoinGecko"))
	assert.Equal(t, "BTC", Normalize("btc", "binance"))
	assert.Equal(t, "btc", Normalize("BTC", "someother"))
}

func TestIsFiat(t *testing.T) {
	assert.True(t, IsFiat("usd"))
	assert.True(t, IsFiat("EUR"))
	assert.False(t, IsFiat("btc"))
	assert.False(t, IsFiat("usdt"))
}

func TestPairCandidates(t *testing.T) {
	assert.Equal(t, []string{"BTCEUR", "BTCUSDT", "BTCUSD"}, PairCandidates("btc", "eur"))
	// The requested quote is not repeated when it already is a fallback
	assert.Equal(t, []string{"BTCUSDT", "BTCUSD"}, PairCandidates("btc", "usdt"))
	assert.Equal(t, []string{"ETHUSDT", "ETHUSD"}, PairCandidates("eth", ""))
	// Degenerate base==quote pair is skipped
	assert.Equal(t, []string{"USDTUSD"}, PairCandidates("usdt", "usdt"))
}
