package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"indexbot/internal/provider/cache"
	"indexbot/internal/provider/scrape"
	"indexbot/internal/provider/yahoo"
)

// AltSymbols maps a primary ticker to fallback tickers, tried in order
// only when the primary yields no usable data.
var AltSymbols = map[string][]string{
	"^TA125.TA": {"TA125.TA", "^TA100"},
	"TA125.TA":  {"^TA125.TA", "^TA100"},
}

// chartRetries is the retry count around each per-symbol chart call,
// on top of the initial attempt.
const chartRetries = 2

// Source resolves quotes through layered fallbacks, cheapest first:
// TTL cache, one batched spark request, per-symbol chart requests over
// the candidate tickers, and finally the page scraper. Errors never
// escape FetchAll; a failed layer just falls through to the next one.
type Source struct {
	api     *yahoo.Client
	scraper *scrape.Scraper
	cache   *cache.Store[Quote]
	alts    map[string][]string
	log     *zap.Logger

	// shrunk by tests to keep retries fast
	retryInitial time.Duration
}

func NewSource(api *yahoo.Client, scraper *scrape.Scraper, store *cache.Store[Quote], log *zap.Logger) *Source {
	return &Source{
		api:          api,
		scraper:      scraper,
		cache:        store,
		alts:         AltSymbols,
		log:          log,
		retryInitial: 500 * time.Millisecond,
	}
}

// FetchAll resolves a quote for every configured pair. The output
// preserves the input order; pairs that no layer could resolve are
// dropped from the cycle and logged.
func (s *Source) FetchAll(ctx context.Context, pairs []Pair) []Quote {
	if len(pairs) == 0 {
		return nil
	}

	var missing []Pair
	for _, p := range pairs {
		if _, ok := s.cache.Get(p.Name, p.Symbol); !ok {
			missing = append(missing, p)
		}
	}

	var batch map[string]yahoo.BatchQuote
	if len(missing) > 0 {
		batch = s.batchLookup(ctx, missing)
	}

	out := make([]Quote, 0, len(pairs))
	for _, p := range pairs {
		if q, ok := s.cache.Get(p.Name, p.Symbol); ok {
			out = append(out, q)
			continue
		}
		q, err := s.resolve(ctx, p, batch)
		if err != nil {
			s.log.Error("index unresolved this cycle",
				zap.String("name", p.Name),
				zap.String("symbol", p.Symbol),
				zap.Error(err))
			continue
		}
		s.cache.Put(p.Name, p.Symbol, q)
		out = append(out, q)
	}
	return out
}

func (s *Source) candidates(symbol string) []string {
	return append([]string{symbol}, s.alts[symbol]...)
}

// batchLookup issues the one batched request covering every primary and
// alternate ticker. A batch failure is non-fatal: later layers still
// run per symbol.
func (s *Source) batchLookup(ctx context.Context, pairs []Pair) map[string]yahoo.BatchQuote {
	seen := make(map[string]struct{})
	all := make([]string, 0, len(pairs))
	for _, p := range pairs {
		for _, sym := range s.candidates(p.Symbol) {
			if _, dup := seen[sym]; dup {
				continue
			}
			seen[sym] = struct{}{}
			all = append(all, sym)
		}
	}

	batch, err := s.api.Spark(ctx, all, "1d", "1m")
	if err != nil {
		s.log.Warn("batch quote request failed", zap.Error(err))
		return nil
	}
	return batch
}

func (s *Source) resolve(ctx context.Context, p Pair, batch map[string]yahoo.BatchQuote) (Quote, error) {
	for _, sym := range s.candidates(p.Symbol) {
		if b, ok := batch[sym]; ok {
			if sym != p.Symbol {
				s.log.Warn("using alternate symbol",
					zap.String("primary", p.Symbol), zap.String("alternate", sym))
			}
			return Quote{Name: p.Name, Symbol: sym, Price: b.Price, PrevClose: b.PrevClose, At: b.At}, nil
		}
		q, err := s.chartQuote(ctx, p.Name, sym)
		if err != nil {
			s.log.Warn("chart lookup failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		if sym != p.Symbol {
			s.log.Warn("using alternate symbol",
				zap.String("primary", p.Symbol), zap.String("alternate", sym))
		}
		return q, nil
	}

	row, err := s.scraper.Lookup(ctx, p.Name)
	if err != nil {
		return Quote{}, fmt.Errorf("all sources exhausted: %w", err)
	}
	return Quote{Name: p.Name, Symbol: p.Symbol, Price: row.Price, PrevClose: row.PrevClose()}, nil
}

// chartQuote resolves one candidate via the historical endpoint: the
// daily series supplies the previous close, the intraday series the
// latest price.
func (s *Source) chartQuote(ctx context.Context, name, sym string) (Quote, error) {
	daily, err := s.chart(ctx, sym, "7d", "1d")
	if err != nil {
		return Quote{}, err
	}
	_, prev, ok := daily.LastTwo()
	if !ok {
		// A thin series still gives us something to diff against.
		last, _, single := daily.Last()
		if !single {
			return Quote{}, fmt.Errorf("no previous close for %s", sym)
		}
		prev = last
	}

	intra, err := s.chart(ctx, sym, "1d", "1m")
	if err != nil {
		return Quote{}, err
	}
	last, at, ok := intra.Last()
	if !ok {
		return Quote{}, fmt.Errorf("no intraday close for %s", sym)
	}
	return Quote{Name: name, Symbol: sym, Price: last, PrevClose: prev, At: at}, nil
}

func (s *Source) chart(ctx context.Context, sym, rng, interval string) (yahoo.Series, error) {
	var series yahoo.Series
	op := func() error {
		sr, err := s.api.Chart(ctx, sym, rng, interval)
		if err != nil {
			return err
		}
		series = sr
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInitial
	bo.MaxInterval = 4 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, chartRetries), ctx)); err != nil {
		return yahoo.Series{}, err
	}
	return series, nil
}
