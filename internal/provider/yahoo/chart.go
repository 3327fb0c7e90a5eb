package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Series is a close series from the per-symbol chart endpoint.
type Series struct {
	Timestamps []int64
	Closes     []float64
}

// chartResponse mirrors the v8 chart payload, trimmed to needed fields.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// Chart fetches the close series for one symbol over the given range
// and granularity.
func (c *Client) Chart(ctx context.Context, symbol, rng, interval string) (Series, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)

	var body chartResponse
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())
	if err := c.get(ctx, u, &body); err != nil {
		return Series{}, err
	}

	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return Series{}, fmt.Errorf("chart: empty result for %s", symbol)
	}
	r := body.Chart.Result[0]
	return Series{Timestamps: r.Timestamp, Closes: r.Indicators.Quote[0].Close}, nil
}

// Last returns the newest positive close and its timestamp.
func (s Series) Last() (float64, time.Time, bool) {
	return lastPositive(s.Timestamps, s.Closes)
}

// LastTwo returns the two newest positive closes, newest first.
func (s Series) LastTwo() (last, prev float64, ok bool) {
	var found []float64
	for i := len(s.Closes) - 1; i >= 0 && len(found) < 2; i-- {
		if s.Closes[i] > 0 {
			found = append(found, s.Closes[i])
		}
	}
	if len(found) < 2 {
		return 0, 0, false
	}
	return found[0], found[1], true
}
