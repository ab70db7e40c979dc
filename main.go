package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"cryptopulse/config"
	"cryptopulse/engine"
	"cryptopulse/http"
	"cryptopulse/provider"
	"cryptopulse/query"
	"cryptopulse/writer"
)

func init() {
	config.Version = Version
	config.Rev = Rev
}

// Will be set by go-build
var (
	Version string
	Rev     string
)

func main() {
	cfg := config.Parse()
	if viper.GetBool("list-providers") {
		config.ListProvidersAndExit(provider.AllNames())
	}

	clients := provider.Enabled(cfg.NormalizedProviders(), http.New())
	if len(clients) == 0 {
		logrus.Fatalln("No valid provider configured")
	}
	priceEngine := engine.New(clients, engine.WithCacheTTL(cfg.CacheTTLDuration()))

	if len(cfg.Queries) == 0 {
		logrus.Fatalln("No query found in config file or command line")
	}

	tw := writer.NewTableWriter()
	for {
		tw.Render(runQueries(context.Background(), priceEngine, cfg.Queries))
		if cfg.Refresh == 0 {
			break
		}
		logrus.Debugf("Auto refreshing on every %d seconds", cfg.Refresh)
		time.Sleep(time.Duration(cfg.Refresh) * time.Second)
	}
}

func runQueries(ctx context.Context, priceEngine *engine.Engine, queries []string) []writer.Row {
	rows := make([]writer.Row, 0, len(queries))
	for _, text := range queries {
		rows = append(rows, runQuery(ctx, priceEngine, text))
	}
	return rows
}

func runQuery(ctx context.Context, priceEngine *engine.Engine, text string) writer.Row {
	parsed, ok := query.Parse(text)
	if !ok {
		return writer.Row{Text: fmt.Sprintf("%s: not a conversion query", text), Failed: true}
	}
	amount, err := query.EvalAmount(parsed.AmountExpr)
	if err != nil {
		logrus.Debugf("Bad amount in query %q: %v", text, err)
		return writer.Row{Text: fmt.Sprintf("%s: bad amount", text), Failed: true}
	}

	quote := parsed.ResolveQuote()
	result, err := priceEngine.Convert(ctx, amount, parsed.Base, quote)
	if errors.Is(err, engine.ErrNoPrice) {
		return writer.Row{Text: fmt.Sprintf("%s: no price available", text), Failed: true}
	}
	if err != nil {
		logrus.Warnf("Failed to convert %q: %v", text, err)
		return writer.Row{Text: fmt.Sprintf("%s: %v", text, err), Failed: true}
	}

	row := writer.Row{Text: query.FormatConversion(amount, result, parsed.Base, quote)}
	// The base leg was just aggregated, so this is a cache hit and tells us
	// how many providers stood behind the answer.
	legQuote := "usd"
	if provider.IsFiat(quote) {
		legQuote = quote
	}
	if price, err := priceEngine.AggregatedPrice(ctx, parsed.Base, legQuote); err == nil {
		row.SourceCount = price.SourceCount
		row.UpdateAt = price.UpdateAt
	}
	return row
}
