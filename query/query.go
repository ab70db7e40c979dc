// Package query parses free-form conversion queries like "2 btc to usd",
// "(1.2+0.3) eth to eur" or just "btc", and formats the conversion result.
package query

import (
	"regexp"
	"strings"

	"cryptopulse/provider"
)

var queryRe = regexp.MustCompile(
	`^\s*(?P<expr>[0-9.\s+\-*/()]*?)\s*(?P<base>[A-Za-z]{2,10})(?:\s+to)?\s*(?P<quote>[A-Za-z]{2,10})?\s*$`)

// Query is one parsed conversion request. AmountExpr is the raw arithmetic
// expression (may be empty, meaning 1), Base and Quote are lower-cased
// tickers; Quote may be empty when the user left it out.
type Query struct {
	AmountExpr string
	Base       string
	Quote      string
}

// Parse extracts amount expression, base and quote from a free-form query.
// ok is false when the text doesn't look like a conversion query at all.
func Parse(text string) (q Query, ok bool) {
	match := queryRe.FindStringSubmatch(text)
	if match == nil {
		return Query{}, false
	}
	return Query{
		AmountExpr: strings.TrimSpace(match[1]),
		Base:       strings.ToLower(match[2]),
		Quote:      strings.ToLower(match[3]),
	}, true
}

// ResolveQuote fills in the default quote currency when the user omitted it:
// crypto bases are priced in usd, fiat bases in btc.
func (q Query) ResolveQuote() string {
	if q.Quote != "" {
		return q.Quote
	}
	if provider.IsFiat(q.Base) {
		return "btc"
	}
	return "usd"
}
