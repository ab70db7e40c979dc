package provider

import (
	"context"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/sirupsen/logrus"

	"cryptopulse/http"
)

// https://binance-docs.github.io/apidocs/spot/en/#symbol-price-ticker
const binanceBaseApi = "https://api.binance.com"

type binanceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBinanceClient(httpClient *http.Client) Client {
	return &binanceClient{baseURL: binanceBaseApi, httpClient: httpClient}
}

func (client *binanceClient) GetName() string {
	return "Binance"
}

// FetchPrice tries a small ordered list of pair spellings (quote as given,
// then USDT, then USD) and takes the first market that answers. No further
// retries beyond that list.
func (client *binanceClient) FetchPrice(ctx context.Context, query PriceQuery) Result {
	for _, pair := range PairCandidates(query.Symbol, query.Quote) {
		price, err := client.tickerPrice(ctx, pair)
		if err != nil {
			logrus.Debugf("%s - No market %s, error: %v", client.GetName(), pair, err)
			continue
		}
		if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			logrus.Debugf("%s - Discarding non-positive price %v for %s", client.GetName(), price, pair)
			continue
		}
		return Found(client.GetName(), price)
	}
	logrus.Warnf("%s - No candidate pair matched for %s/%s", client.GetName(), query.Symbol, query.Quote)
	return Absent(client.GetName())
}

func (client *binanceClient) tickerPrice(ctx context.Context, pair string) (float64, error) {
	respBytes, err := client.httpClient.Get(ctx, client.baseURL+"/api/v3/ticker/price", map[string]string{
		"symbol": pair,
	})
	if err != nil {
		return 0, err
	}

	// Response is {"symbol":"BTCUSDT","price":"96123.45"}, everything else
	// in it is ignored.
	raw, err := jsonparser.GetString(respBytes, "price")
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(raw, 64)
}
