// Package scrape is the last-resort quote source: it parses a public
// indices listing page and back-computes the previous close from the
// published percent change.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"indexbot/internal/httpx"
	"indexbot/internal/provider/ratelimit"
)

const defaultURL = "https://www.investing.com/indices/israel-indices"

// Config controls the scraper behavior.
type Config struct {
	URL string
	// TTL caches the parsed page so one cycle's lookups share a single
	// download.
	TTL time.Duration
	// MinInterval spaces page downloads to stay under the site's radar.
	MinInterval time.Duration
}

// Row is one parsed table row from the listing page.
type Row struct {
	Name      string
	Price     float64
	ChangePct float64
}

// PrevClose back-derives the previous close from price and percent
// change. With a zero change the price itself is the previous close.
func (r Row) PrevClose() float64 {
	if r.ChangePct == 0 {
		return r.Price
	}
	return r.Price / (1 + r.ChangePct/100)
}

// Scraper downloads and caches the indices page. Concurrent refreshes
// are coalesced so at most one download is in flight.
type Scraper struct {
	cfg    Config
	client *httpx.Client
	log    *zap.Logger
	gate   *ratelimit.Gate
	sf     singleflight.Group

	mu    sync.RWMutex
	rows  []Row
	until time.Time
}

func New(cfg Config, hc *httpx.Client, log *zap.Logger) *Scraper {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return &Scraper{
		cfg:    cfg,
		client: hc,
		log:    log,
		gate:   &ratelimit.Gate{Interval: cfg.MinInterval},
	}
}

// Lookup finds the row whose name contains the given index name,
// case-insensitively.
func (s *Scraper) Lookup(ctx context.Context, name string) (Row, error) {
	rows, err := s.table(ctx)
	if err != nil {
		return Row{}, err
	}
	needle := strings.ToUpper(name)
	for _, r := range rows {
		if strings.Contains(strings.ToUpper(r.Name), needle) {
			return r, nil
		}
	}
	return Row{}, fmt.Errorf("scrape: no row matching %q", name)
}

func (s *Scraper) table(ctx context.Context) ([]Row, error) {
	s.mu.RLock()
	rows, until := s.rows, s.until
	s.mu.RUnlock()
	if rows != nil && time.Now().Before(until) {
		return rows, nil
	}

	v, err, _ := s.sf.Do("page", func() (any, error) {
		if err := s.gate.Wait(ctx); err != nil {
			return nil, err
		}
		fetched, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.rows, s.until = fetched, time.Now().Add(s.cfg.TTL)
		s.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Row), nil
}

func (s *Scraper) fetch(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s -> %d", s.cfg.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var rows []Row
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		if name == "" {
			return
		}
		price, err := parseNumber(cells.Eq(1).Text())
		if err != nil || price <= 0 {
			return
		}
		pct, err := parsePercent(cells.Eq(2).Text())
		if err != nil {
			return
		}
		rows = append(rows, Row{Name: name, Price: price, ChangePct: pct})
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("scrape: no parsable rows at %s", s.cfg.URL)
	}
	s.log.Debug("scraped indices page", zap.Int("rows", len(rows)))
	return rows, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	return strconv.ParseFloat(s, 64)
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
