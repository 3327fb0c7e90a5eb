package yahoo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"indexbot/internal/httpx"
	"indexbot/internal/provider/yahoo"
)

func TestSpark_ParsesBatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v7/finance/spark", r.URL.Path)
		require.Equal(t, "TA35.TA,^TA125.TA", r.URL.Query().Get("symbols"))
		require.Equal(t, "1d", r.URL.Query().Get("range"))
		require.Equal(t, "1m", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"spark":{"result":[
			{"symbol":"TA35.TA","response":[{
				"meta":{"previousClose":2400.0},
				"timestamp":[1735900000,1735900060],
				"close":[2410.0,2412.5]
			}]},
			{"symbol":"^TA125.TA","response":[{
				"meta":{"chartPreviousClose":2500.0},
				"timestamp":[1735900000,1735900060],
				"close":[2505.0,0]
			}]}
		],"error":null}}`))
	}))
	defer srv.Close()

	c := yahoo.New(httpx.New(2*time.Second), yahoo.WithBaseURL(srv.URL))
	got, err := c.Spark(t.Context(), []string{"TA35.TA", "^TA125.TA"}, "1d", "1m")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, 2412.5, got["TA35.TA"].Price)
	require.Equal(t, 2400.0, got["TA35.TA"].PrevClose)
	require.Equal(t, int64(1735900060), got["TA35.TA"].At.Unix())

	// Trailing zero close is a gap; the previous tick wins.
	require.Equal(t, 2505.0, got["^TA125.TA"].Price)
	require.Equal(t, 2500.0, got["^TA125.TA"].PrevClose)
}

func TestSpark_SkipsEntriesWithoutPrevClose(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"spark":{"result":[
			{"symbol":"TA90.TA","response":[{
				"meta":{},
				"timestamp":[1735900000],
				"close":[1800.0]
			}]}
		],"error":null}}`))
	}))
	defer srv.Close()

	c := yahoo.New(httpx.New(2*time.Second), yahoo.WithBaseURL(srv.URL))
	got, err := c.Spark(t.Context(), []string{"TA90.TA"}, "1d", "1m")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSpark_EmptySymbols_NoRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer srv.Close()

	c := yahoo.New(httpx.New(2*time.Second), yahoo.WithBaseURL(srv.URL))
	got, err := c.Spark(t.Context(), nil, "1d", "1m")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestChart_ParsesSeries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/TA35.TA", r.URL.Path)
		require.Equal(t, "7d", r.URL.Query().Get("range"))
		require.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1735700000,1735800000,1735900000],
			"indicators":{"quote":[{"close":[2380.0,2400.0,2412.5]}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := yahoo.New(httpx.New(2*time.Second), yahoo.WithBaseURL(srv.URL))
	series, err := c.Chart(t.Context(), "TA35.TA", "7d", "1d")
	require.NoError(t, err)

	last, at, ok := series.Last()
	require.True(t, ok)
	require.Equal(t, 2412.5, last)
	require.Equal(t, int64(1735900000), at.Unix())

	newest, prev, ok := series.LastTwo()
	require.True(t, ok)
	require.Equal(t, 2412.5, newest)
	require.Equal(t, 2400.0, prev)
}

func TestChart_EmptyResultIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := yahoo.New(httpx.New(2*time.Second), yahoo.WithBaseURL(srv.URL))
	_, err := c.Chart(t.Context(), "NOPE.TA", "7d", "1d")
	require.Error(t, err)
}

func TestChart_RateLimitedStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := yahoo.New(httpx.New(2*time.Second), yahoo.WithBaseURL(srv.URL))
	_, err := c.Chart(t.Context(), "TA35.TA", "7d", "1d")
	require.ErrorContains(t, err, "rate limited")
}

func TestSeries_LastTwo_SkipsGaps(t *testing.T) {
	t.Parallel()

	s := yahoo.Series{Closes: []float64{2380, 0, 2400, 0}}
	newest, prev, ok := s.LastTwo()
	require.True(t, ok)
	require.Equal(t, 2400.0, newest)
	require.Equal(t, 2380.0, prev)

	_, _, ok = yahoo.Series{Closes: []float64{0, 2400}}.LastTwo()
	require.False(t, ok)
}
