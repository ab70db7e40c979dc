package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceQuery(t *testing.T) {
	q := NewPriceQuery(" BTC ", "Usd")
	assert.Equal(t, "btc", q.Symbol)
	assert.Equal(t, "usd", q.Quote)
}

func TestAllNames(t *testing.T) {
	assert.Equal(t, []string{"CoinGecko", "Binance"}, AllNames())
}

func TestEnabled(t *testing.T) {
	t.Run("empty selects all in registration order", func(t *testing.T) {
		clients := Enabled(nil, nil)
		require.Len(t, clients, 2)
		assert.Equal(t, "CoinGecko", clients[0].GetName())
		assert.Equal(t, "Binance", clients[1].GetName())
	})

	t.Run("configured order is preserved", func(t *testing.T) {
		clients := Enabled([]string{"binance", "coingecko"}, nil)
		require.Len(t, clients, 2)
		assert.Equal(t, "Binance", clients[0].GetName())
		assert.Equal(t, "CoinGecko", clients[1].GetName())
	})

	t.Run("unknown names are skipped", func(t *testing.T) {
		clients := Enabled([]string{"coingecko", "nosuchprovider"}, nil)
		require.Len(t, clients, 1)
		assert.Equal(t, "CoinGecko", clients[0].GetName())
	})
}
