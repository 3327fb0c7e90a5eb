package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"indexbot/internal/config"
	"indexbot/internal/httpx"
	"indexbot/internal/notifier"
	"indexbot/internal/provider/cache"
	"indexbot/internal/provider/scrape"
	"indexbot/internal/provider/yahoo"
	"indexbot/internal/quote"
	"indexbot/internal/state"
	"indexbot/internal/telegram"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("timezone", zap.String("name", cfg.Timezone), zap.Error(err))
	}
	pairs := cfg.IndexPairs()
	if len(pairs) == 0 {
		logger.Fatal("no indices configured", zap.String("indices", cfg.Indices))
	}

	httpClient := httpx.New(cfg.RequestTimeout)
	api := yahoo.New(httpClient)
	scraper := scrape.New(scrape.Config{URL: cfg.ScrapeURL}, httpClient, logger.Named("scrape"))
	source := quote.NewSource(api, scraper, cache.New[quote.Quote](cfg.CacheTTL), logger.Named("quote"))

	tg, err := telegram.New(cfg.BotToken, cfg.Chat, logger.Named("telegram"))
	if err != nil {
		logger.Fatal("telegram", zap.Error(err))
	}

	n := notifier.New(notifier.Config{
		Pairs:            pairs,
		UpdateInterval:   cfg.UpdateInterval,
		OffHoursInterval: cfg.OffHoursInterval,
		Location:         loc,
	}, source, tg, state.NewStore(cfg.StatePath), logger.Named("notifier"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.Int("indices", len(pairs)),
		zap.Duration("update_interval", cfg.UpdateInterval),
		zap.String("timezone", cfg.Timezone))
	if err := n.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("notifier stopped", zap.Error(err))
	}
	logger.Info("shutting down")
}
