// One-shot fetch for inspection: resolves the configured indices once
// and prints the quotes as JSON, without touching the channel.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"indexbot/internal/httpx"
	"indexbot/internal/provider/cache"
	"indexbot/internal/provider/scrape"
	"indexbot/internal/provider/yahoo"
	"indexbot/internal/quote"
)

func main() {
	var indices string
	var timeout int
	flag.StringVar(&indices, "indices", getenv("INDICES", "TA-125=^TA125.TA"), "comma-separated name=symbol pairs")
	flag.IntVar(&timeout, "timeout", 15, "request timeout seconds")
	flag.Parse()

	pairs := quote.ParsePairs(indices)
	if len(pairs) == 0 {
		log.Fatalf("no parsable indices in %q", indices)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	httpClient := httpx.New(time.Duration(timeout) * time.Second)
	source := quote.NewSource(
		yahoo.New(httpClient),
		scrape.New(scrape.Config{}, httpClient, logger.Named("scrape")),
		cache.New[quote.Quote](0),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	quotes := source.FetchAll(ctx, pairs)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(quotes); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
