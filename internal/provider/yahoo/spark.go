package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BatchQuote is one symbol's result from the batched spark endpoint.
// PrevClose comes from the response's own previous-close field, never
// back-derived from a rounded percent change.
type BatchQuote struct {
	Price     float64
	PrevClose float64
	At        time.Time
}

// sparkResponse mirrors the v7 spark payload, trimmed to needed fields.
type sparkResponse struct {
	Spark struct {
		Result []struct {
			Symbol   string `json:"symbol"`
			Response []struct {
				Meta struct {
					PreviousClose      *float64 `json:"previousClose"`
					ChartPreviousClose *float64 `json:"chartPreviousClose"`
				} `json:"meta"`
				Timestamp []int64   `json:"timestamp"`
				Close     []float64 `json:"close"`
			} `json:"response"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"spark"`
}

// Spark performs one batched request for the whole symbol set and
// returns whatever usable entries came back, keyed by symbol. Symbols
// the provider does not know are simply absent from the result.
func (c *Client) Spark(ctx context.Context, symbols []string, rng, interval string) (map[string]BatchQuote, error) {
	out := make(map[string]BatchQuote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("range", rng)
	q.Set("interval", interval)

	var body sparkResponse
	if err := c.get(ctx, fmt.Sprintf("%s/v7/finance/spark?%s", c.baseURL, q.Encode()), &body); err != nil {
		return nil, err
	}

	for _, res := range body.Spark.Result {
		if len(res.Response) == 0 {
			continue
		}
		r := res.Response[0]
		price, at, ok := lastPositive(r.Timestamp, r.Close)
		if !ok {
			continue
		}
		var prev float64
		switch {
		case r.Meta.PreviousClose != nil && *r.Meta.PreviousClose > 0:
			prev = *r.Meta.PreviousClose
		case r.Meta.ChartPreviousClose != nil && *r.Meta.ChartPreviousClose > 0:
			prev = *r.Meta.ChartPreviousClose
		default:
			continue
		}
		out[res.Symbol] = BatchQuote{Price: price, PrevClose: prev, At: at}
	}
	return out, nil
}

// lastPositive returns the newest positive close and its timestamp.
// Gaps in the series decode as zeros and are skipped.
func lastPositive(timestamps []int64, closes []float64) (float64, time.Time, bool) {
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] <= 0 {
			continue
		}
		var at time.Time
		if i < len(timestamps) && timestamps[i] > 0 {
			at = time.Unix(timestamps[i], 0).UTC()
		}
		return closes[i], at, true
	}
	return 0, time.Time{}, false
}
