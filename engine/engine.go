package engine

import (
	"context"
	"errors"
	"math"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cryptopulse/provider"
)

// ErrNoPrice is returned when no provider had an answer for a query. It is a
// normal outcome under provider outages, nothing about it is fatal.
var ErrNoPrice = errors.New("no price available")

const defaultCacheTTL = 10 * time.Second

// Engine is the single entry point for price lookups: it consults its cache,
// fans out to the configured providers on a miss, resolves their answers into
// one value and memoizes the outcome. Each Engine owns its cache, so separate
// instances never share state.
type Engine struct {
	clients []provider.Client
	cache   *ttlCache
}

type Option func(*Engine)

// WithCacheTTL overrides how long an aggregated price is served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cache = newTTLCache(ttl)
		}
	}
}

// New builds an Engine querying the given clients in fan-out. The slice order
// is the configured provider preference order.
func New(clients []provider.Client, opts ...Option) *Engine {
	e := &Engine{
		clients: clients,
		cache:   newTTLCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AggregatedPrice returns the consensus price of symbol expressed in quote.
// A cache hit within the TTL answers without any provider call. It returns
// ErrNoPrice when every provider came back empty; that outcome is cached too.
func (e *Engine) AggregatedPrice(ctx context.Context, symbol, quote string) (Price, error) {
	query := provider.NewPriceQuery(symbol, quote)
	key := cacheKey(query.Symbol, query.Quote)

	if price, found, hit := e.cache.get(key); hit {
		logrus.Debugf("Cache hit for %s (found=%v)", key, found)
		if !found {
			return Price{}, ErrNoPrice
		}
		return price, nil
	}

	price, ok := resolve(e.fanOut(ctx, query))
	if ok {
		price.UpdateAt = time.Now()
	} else {
		logrus.Debugf("No provider had a price for %s", key)
	}
	e.cache.put(key, price, ok)
	if !ok {
		return Price{}, ErrNoPrice
	}
	return price, nil
}

// fanOut queries every client concurrently and collects all answers. Each
// client bounds its own time, so the total wait is the slowest configured
// timeout, not the sum of them.
func (e *Engine) fanOut(ctx context.Context, query provider.PriceQuery) []provider.Result {
	// Use a slice to hold the waiting chans in order to keep provider order
	waitingChans := make([]chan provider.Result, len(e.clients))
	for i, client := range e.clients {
		doneCh := make(chan provider.Result, 1)
		waitingChans[i] = doneCh
		go func(client provider.Client) {
			doneCh <- client.FetchPrice(ctx, query)
		}(client)
	}

	results := make([]provider.Result, 0, len(waitingChans))
	for _, doneCh := range waitingChans {
		results = append(results, <-doneCh)
	}
	return results
}

// Convert computes how much of `to` the given amount of `from` is worth.
// Fiat targets are quoted directly; anything else goes through a common USD
// leg for both sides. A zero or missing denominator is ErrNoPrice, never an
// Inf or NaN.
func (e *Engine) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, pkgerrors.Errorf("invalid amount %v", amount)
	}

	if provider.IsFiat(to) {
		price, err := e.AggregatedPrice(ctx, from, to)
		if err != nil {
			return 0, err
		}
		return amount * price.Value, nil
	}

	// Both legs run to completion even when one fails, so a failing leg
	// never causes the other symbol to be cached as priceless.
	var fromPrice, toPrice Price
	var g errgroup.Group
	g.Go(func() error {
		var err error
		fromPrice, err = e.AggregatedPrice(ctx, from, "usd")
		return err
	})
	g.Go(func() error {
		var err error
		toPrice, err = e.AggregatedPrice(ctx, to, "usd")
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if toPrice.Value == 0 {
		return 0, ErrNoPrice
	}
	return amount * (fromPrice.Value / toPrice.Value), nil
}
