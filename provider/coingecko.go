package provider

import (
	"context"
	"math"

	"github.com/buger/jsonparser"
	"github.com/sirupsen/logrus"

	"cryptopulse/http"
)

// https://www.coingecko.com/api/documentation
const coinGeckoBaseApi = "https://api.coingecko.com/api/v3"

type coinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCoinGeckoClient(httpClient *http.Client) Client {
	return &coinGeckoClient{baseURL: coinGeckoBaseApi, httpClient: httpClient}
}

func (client *coinGeckoClient) GetName() string {
	return "CoinGecko"
}

func (client *coinGeckoClient) FetchPrice(ctx context.Context, query PriceQuery) Result {
	coinID := CoinID(query.Symbol)
	respBytes, err := client.httpClient.Get(ctx, client.baseURL+"/simple/price", map[string]string{
		"ids":           coinID,
		"vs_currencies": query.Quote,
	})
	if err != nil {
		logrus.Warnf("%s - Failed to fetch %s/%s, error: %v", client.GetName(), query.Symbol, query.Quote, err)
		return Absent(client.GetName())
	}

	// Response is {"<coin-id>":{"<quote>":<price>}}, read just that one field
	// so unknown fields never break us.
	price, err := jsonparser.GetFloat(respBytes, coinID, query.Quote)
	if err != nil {
		logrus.Debugf("%s - No price for %s/%s in response, error: %v", client.GetName(), query.Symbol, query.Quote, err)
		return Absent(client.GetName())
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		logrus.Debugf("%s - Discarding non-positive price %v for %s/%s", client.GetName(), price, query.Symbol, query.Quote)
		return Absent(client.GetName())
	}
	return Found(client.GetName(), price)
}
