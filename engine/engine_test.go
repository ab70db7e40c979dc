package engine

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/provider"
)

// fakeClient answers from a symbol->price table and counts calls, so tests
// can assert how often the engine actually reached out.
type fakeClient struct {
	name   string
	prices map[string]float64
	calls  atomic.Int64
}

func (f *fakeClient) GetName() string { return f.name }

func (f *fakeClient) FetchPrice(ctx context.Context, q provider.PriceQuery) provider.Result {
	f.calls.Add(1)
	price, ok := f.prices[q.Symbol]
	if !ok {
		return provider.Absent(f.name)
	}
	return provider.Found(f.name, price)
}

func TestAggregatedPrice_CacheHitSkipsProviders(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000}}
	e := New([]provider.Client{fake})

	first, err := e.AggregatedPrice(context.Background(), "BTC", "USD")
	require.NoError(t, err)
	assert.Equal(t, 50000.0, first.Value)
	assert.Equal(t, 1, first.SourceCount)

	second, err := e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)
	assert.Equal(t, first, second, "cache hit should return the exact value last written")
	assert.EqualValues(t, 1, fake.calls.Load(), "cache hit must not invoke any provider")
}

func TestAggregatedPrice_ExpiredEntryTriggersOneFreshAggregation(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000}}
	e := New([]provider.Client{fake})

	now := time.Now()
	e.cache.now = func() time.Time { return now }

	_, err := e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)
	require.EqualValues(t, 1, fake.calls.Load())

	// Move past the TTL, the entry is treated as expired and re-aggregated once
	now = now.Add(defaultCacheTTL + time.Second)
	_, err = e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)
	assert.EqualValues(t, 2, fake.calls.Load())

	_, err = e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)
	assert.EqualValues(t, 2, fake.calls.Load(), "fresh entry should serve from cache again")
}

func TestAggregatedPrice_MedianAcrossProviders(t *testing.T) {
	e := New([]provider.Client{
		&fakeClient{name: "a", prices: map[string]float64{"btc": 100}},
		&fakeClient{name: "b", prices: map[string]float64{"btc": 102}},
		&fakeClient{name: "c", prices: map[string]float64{"btc": 98}},
	})

	price, err := e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)
	assert.Equal(t, 100.0, price.Value)
	assert.Equal(t, 3, price.SourceCount)
	assert.False(t, price.UpdateAt.IsZero())
}

func TestAggregatedPrice_SingleAnswerWins(t *testing.T) {
	e := New([]provider.Client{
		&fakeClient{name: "absent1", prices: nil},
		&fakeClient{name: "present", prices: map[string]float64{"btc": 42}},
		&fakeClient{name: "absent2", prices: nil},
	})

	price, err := e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)
	assert.Equal(t, 42.0, price.Value)
	assert.Equal(t, 1, price.SourceCount)
}

func TestAggregatedPrice_AllAbsentIsCachedToo(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: nil}
	e := New([]provider.Client{fake})

	_, err := e.AggregatedPrice(context.Background(), "unknowncoin", "usd")
	require.ErrorIs(t, err, ErrNoPrice)

	_, err = e.AggregatedPrice(context.Background(), "unknowncoin", "usd")
	require.ErrorIs(t, err, ErrNoPrice)
	assert.EqualValues(t, 1, fake.calls.Load(),
		"a cached no-price outcome should suppress provider calls as well")
}

func TestAggregatedPrice_ConcurrentSameKeyIsBounded(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000}}
	e := New([]provider.Client{fake})

	// Warm the cache, then hammer the same key concurrently.
	_, err := e.AggregatedPrice(context.Background(), "btc", "usd")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			price, err := e.AggregatedPrice(context.Background(), "btc", "usd")
			assert.NoError(t, err)
			assert.Equal(t, 50000.0, price.Value)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestAggregatedPrice_ConcurrentDistinctKeysDoNotInterfere(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000, "eth": 2500}}
	e := New([]provider.Client{fake})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			price, err := e.AggregatedPrice(context.Background(), "btc", "usd")
			assert.NoError(t, err)
			assert.Equal(t, 50000.0, price.Value)
		}()
		go func() {
			defer wg.Done()
			price, err := e.AggregatedPrice(context.Background(), "eth", "usd")
			assert.NoError(t, err)
			assert.Equal(t, 2500.0, price.Value)
		}()
	}
	wg.Wait()
}

func TestConvert_FiatTargetUsesDirectQuote(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000}}
	e := New([]provider.Client{fake})

	result, err := e.Convert(context.Background(), 2, "btc", "usd")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, result)
}

func TestConvert_CryptoTargetGoesThroughUSDLeg(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000, "eth": 2500}}
	e := New([]provider.Client{fake})

	result, err := e.Convert(context.Background(), 2, "btc", "eth")
	require.NoError(t, err)
	assert.Equal(t, 40.0, result)
}

func TestConvert_MissingDenominatorIsNoPrice(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000}}
	e := New([]provider.Client{fake})

	_, err := e.Convert(context.Background(), 2, "btc", "unknowncoin")
	require.ErrorIs(t, err, ErrNoPrice)
}

func TestConvert_ZeroDenominatorIsNoPriceNotInf(t *testing.T) {
	fake := &fakeClient{name: "fake", prices: map[string]float64{"btc": 50000, "dust": 0}}
	e := New([]provider.Client{fake})

	result, err := e.Convert(context.Background(), 2, "btc", "dust")
	require.ErrorIs(t, err, ErrNoPrice)
	assert.False(t, math.IsInf(result, 0))
	assert.Zero(t, result)
}

func TestConvert_RejectsNonFiniteAmount(t *testing.T) {
	e := New([]provider.Client{&fakeClient{name: "fake"}})

	_, err := e.Convert(context.Background(), math.NaN(), "btc", "usd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPrice)
}
