package provider

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"cryptopulse/http"
)

// PriceQuery asks for the price of Symbol expressed in Quote. Both are
// lower-cased free-form tickers, normalization to provider-native identifiers
// happens inside each client.
type PriceQuery struct {
	Symbol string
	Quote  string
}

func NewPriceQuery(symbol, quote string) PriceQuery {
	return PriceQuery{
		Symbol: strings.ToLower(strings.TrimSpace(symbol)),
		Quote:  strings.ToLower(strings.TrimSpace(quote)),
	}
}

// Result is a single provider's answer. A provider either has a positive
// finite price or it doesn't - timeouts, bad statuses and unknown symbols all
// collapse into Found=false, the caller never sees the transport fault.
type Result struct {
	Provider string
	Price    float64
	Found    bool
}

func Found(provider string, price float64) Result {
	return Result{Provider: provider, Price: price, Found: true}
}

func Absent(provider string) Result {
	return Result{Provider: provider}
}

// Client is the uniform capability every price source implements.
// Implementations are stateless and safe for concurrent use.
type Client interface {
	GetName() string
	FetchPrice(ctx context.Context, query PriceQuery) Result
}

type clientFactory func(httpClient *http.Client) Client

type registration struct {
	name    string
	factory clientFactory
}

var registered []registration

// Registration order is the default preference order.
func init() {
	register("CoinGecko", NewCoinGeckoClient)
	register("Binance", NewBinanceClient)
}

func register(name string, factory clientFactory) {
	registered = append(registered, registration{name: name, factory: factory})
}

// AllNames lists supported provider names in registration order.
func AllNames() []string {
	names := make([]string, 0, len(registered))
	for _, r := range registered {
		names = append(names, r.name)
	}
	return names
}

// Enabled instantiates the clients named in enabled, preserving the given
// order. An empty list selects every registered provider in registration
// order. Unknown names are skipped with a warning.
func Enabled(enabled []string, httpClient *http.Client) []Client {
	if len(enabled) == 0 {
		clients := make([]Client, 0, len(registered))
		for _, r := range registered {
			clients = append(clients, r.factory(httpClient))
		}
		return clients
	}

	byName := make(map[string]clientFactory, len(registered))
	for _, r := range registered {
		byName[strings.ToLower(r.name)] = r.factory
	}
	clients := make([]Client, 0, len(enabled))
	for _, name := range enabled {
		factory, ok := byName[strings.ToLower(name)]
		if !ok {
			logrus.Warnf("Unknown provider %s, skipping", name)
			continue
		}
		clients = append(clients, factory(httpClient))
	}
	return clients
}
