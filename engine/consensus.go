package engine

import (
	"sort"
	"time"

	"cryptopulse/provider"
)

// Price is the consensus value for one symbol/quote pair, plus how many
// providers contributed to it.
type Price struct {
	Value       float64
	SourceCount int
	UpdateAt    time.Time
}

// resolve collapses provider answers into one trusted value. Absent results
// are discarded; if none remain the second return is false. The present
// prices are sorted ascending and the median wins, so a single wildly-off
// provider cannot drag the result and the output does not depend on response
// arrival order. For an even count the lower of the two middle values is
// taken to keep the rule deterministic.
func resolve(results []provider.Result) (Price, bool) {
	prices := make([]float64, 0, len(results))
	for _, result := range results {
		if result.Found {
			prices = append(prices, result.Price)
		}
	}
	if len(prices) == 0 {
		return Price{}, false
	}

	sort.Float64s(prices)
	median := prices[(len(prices)-1)/2]
	return Price{Value: median, SourceCount: len(prices)}, true
}
