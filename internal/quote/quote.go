// Package quote holds the index quote model and the Source orchestrator
// that resolves quotes through the layered fallback chain.
package quote

import (
	"strings"
	"time"
)

// Quote is one resolved index value for a single fetch cycle. It is
// built fresh on every cycle and never mutated afterwards. A Quote only
// exists when both Price and PrevClose were resolved.
type Quote struct {
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	PrevClose float64   `json:"prev_close"`
	At        time.Time `json:"at,omitempty"`
}

// ChangePct is the daily percentage change vs the previous close.
// It is 0 when PrevClose is unavailable.
func (q Quote) ChangePct() float64 {
	if q.PrevClose == 0 {
		return 0
	}
	return (q.Price/q.PrevClose - 1) * 100
}

// Pair binds a display name to its preferred ticker. Slices of Pair keep
// the configured order, which FetchAll preserves in its output.
type Pair struct {
	Name   string
	Symbol string
}

// ParsePairs parses a "name=symbol,name=symbol" mapping string,
// preserving order and skipping malformed entries.
func ParsePairs(s string) []Pair {
	var out []Pair
	for _, part := range strings.Split(s, ",") {
		name, symbol, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		symbol = strings.TrimSpace(symbol)
		if name == "" || symbol == "" {
			continue
		}
		out = append(out, Pair{Name: name, Symbol: symbol})
	}
	return out
}
