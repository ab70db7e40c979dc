package provider

import "strings"

// coinIDs maps common tickers to CoinGecko coin identifiers. Unmapped
// symbols fall through unchanged and the provider decides whether they match.
var coinIDs = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"ltc":   "litecoin",
	"xrp":   "ripple",
	"ada":   "cardano",
	"doge":  "dogecoin",
	"sol":   "solana",
	"usdt":  "tether",
	"usdc":  "usd-coin",
	"bnb":   "binancecoin",
	"trx":   "tron",
	"matic": "matic-network",
	"dot":   "polkadot",
	"avax":  "avalanche-2",
	"link":  "chainlink",
}

// fiatCodes are ISO currency codes CoinGecko can quote against directly.
var fiatCodes = map[string]bool{
	"usd": true,
	"eur": true,
	"cad": true,
	"irr": true,
	"gbp": true,
	"try": true,
	"jpy": true,
	"cny": true,
}

// Normalize maps a free-form ticker to the given provider's native
// identifier. Unknown providers and unmapped symbols yield the lower-cased
// input unchanged.
func Normalize(symbol, providerName string) string {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	switch strings.ToLower(providerName) {
	case "coingecko":
		return CoinID(symbol)
	case "binance":
		return strings.ToUpper(symbol)
	}
	return symbol
}

// CoinID resolves a ticker to its CoinGecko coin identifier.
func CoinID(symbol string) string {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if id, ok := coinIDs[symbol]; ok {
		return id
	}
	return symbol
}

// IsFiat reports whether the symbol is a fiat currency code quotable
// directly, as opposed to a crypto asset that needs a USD-leg conversion.
func IsFiat(symbol string) bool {
	return fiatCodes[strings.ToLower(strings.TrimSpace(symbol))]
}

// PairCandidates builds the ordered trading-pair spellings a pair-keyed
// provider should try: the quote as given, then USDT, then USD. Assets not
// directly quoted in the requested currency are often still quoted in a
// dollar market, which is close enough for aggregation against providers
// that do answer in the requested currency.
func PairCandidates(symbol, quote string) []string {
	base := strings.ToUpper(strings.TrimSpace(symbol))
	quotes := []string{strings.ToUpper(strings.TrimSpace(quote)), "USDT", "USD"}

	pairs := make([]string, 0, len(quotes))
	seen := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		if q == "" || q == base || seen[q] {
			continue
		}
		seen[q] = true
		pairs = append(pairs, base+q)
	}
	return pairs
}
