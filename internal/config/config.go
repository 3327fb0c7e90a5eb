// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"indexbot/internal/quote"
)

const defaultIndices = "TA-35=TA35.TA,TA-125=^TA125.TA,TA-90=TA90.TA,Banks-5=TA-BANKS.TA"

type Config struct {
	BotToken string
	Chat     string
	Timezone string
	Indices  string

	UpdateInterval   time.Duration
	OffHoursInterval time.Duration
	RequestTimeout   time.Duration
	CacheTTL         time.Duration

	StatePath string
	ScrapeURL string
}

// Load reads settings from the environment, applying defaults for
// everything except the bot credential and the target chat.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("timezone", "Asia/Jerusalem")
	v.SetDefault("indices", defaultIndices)
	v.SetDefault("update_interval_sec", 60)
	v.SetDefault("off_hours_interval_sec", 300)
	v.SetDefault("request_timeout_sec", 15)
	v.SetDefault("cache_ttl_sec", 300)
	v.SetDefault("state_path", "state.json")
	v.SetDefault("scrape_url", "")
	v.AutomaticEnv()

	cfg := Config{
		BotToken:         v.GetString("telegram_bot_token"),
		Chat:             v.GetString("telegram_chat"),
		Timezone:         v.GetString("timezone"),
		Indices:          v.GetString("indices"),
		UpdateInterval:   time.Duration(v.GetInt("update_interval_sec")) * time.Second,
		OffHoursInterval: time.Duration(v.GetInt("off_hours_interval_sec")) * time.Second,
		RequestTimeout:   time.Duration(v.GetInt("request_timeout_sec")) * time.Second,
		CacheTTL:         time.Duration(v.GetInt("cache_ttl_sec")) * time.Second,
		StatePath:        v.GetString("state_path"),
		ScrapeURL:        v.GetString("scrape_url"),
	}
	if cfg.BotToken == "" {
		return Config{}, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.Chat == "" {
		return Config{}, errors.New("TELEGRAM_CHAT is required")
	}
	return cfg, nil
}

// IndexPairs parses the configured name=symbol mapping, preserving
// order.
func (c Config) IndexPairs() []quote.Pair {
	return quote.ParsePairs(c.Indices)
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
