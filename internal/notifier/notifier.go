// Package notifier drives the update cycle: a two-state machine that
// ticks through trading sessions editing the pinned channel message,
// and sleeps between sessions after posting one closing summary.
package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"

	"indexbot/internal/calendar"
	"indexbot/internal/format"
	"indexbot/internal/quote"
	"indexbot/internal/state"
)

// Messenger is the channel-facing surface the loop needs.
//
//go:generate mockgen -package=notifier -destination=mock_deps_test.go -source=notifier.go Messenger,Fetcher
type Messenger interface {
	Send(text string) (int, error)
	EnsurePinned(text string) (int, error)
	Edit(messageID int, text string) error
}

// Fetcher resolves the configured indices into quotes.
type Fetcher interface {
	FetchAll(ctx context.Context, pairs []quote.Pair) []quote.Quote
}

type Config struct {
	Pairs            []quote.Pair
	UpdateInterval   time.Duration
	OffHoursInterval time.Duration
	Location         *time.Location
}

type Notifier struct {
	cfg   Config
	fetch Fetcher
	msg   Messenger
	state *state.Store
	log   *zap.Logger

	// injectable clock
	now func() time.Time

	closedSent bool
}

func New(cfg Config, fetch Fetcher, msg Messenger, st *state.Store, log *zap.Logger) *Notifier {
	return &Notifier{
		cfg:   cfg,
		fetch: fetch,
		msg:   msg,
		state: st,
		log:   log,
		now:   time.Now,
	}
}

// Run loops until ctx is canceled. At most one session sub-loop is
// active at a time; no error from a cycle terminates the loop.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := n.now().In(n.cfg.Location)
		day := calendar.Lookup(now)
		if day.IsTrading && !now.Before(day.Open) && now.Before(day.Close) {
			if err := n.runSession(ctx, day); err != nil {
				return err
			}
			continue
		}
		n.sendClosedOnce(ctx, now, day)
		if err := n.sleepToward(ctx, n.nextOpen(now)); err != nil {
			return err
		}
	}
}

// runSession ticks at the update interval until the close time passes.
func (n *Notifier) runSession(ctx context.Context, day calendar.TradingDayInfo) error {
	n.closedSent = false
	n.log.Info("trading session open",
		zap.Time("close", day.Close), zap.Bool("shortened", day.IsShort))

	n.update(ctx, false, day)

	ticker := time.NewTicker(n.cfg.UpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !n.now().In(n.cfg.Location).Before(day.Close) {
				n.log.Info("trading session closed")
				return nil
			}
			n.update(ctx, false, day)
		}
	}
}

// update runs one fetch/format/publish cycle against today's message,
// creating and pinning a fresh one on the first cycle of the day or
// when the stored one can no longer be edited.
func (n *Notifier) update(ctx context.Context, marketClosed bool, day calendar.TradingDayInfo) {
	now := n.now().In(n.cfg.Location)

	var quotes []quote.Quote
	if day.IsTrading {
		quotes = n.fetch.FetchAll(ctx, n.cfg.Pairs)
		if len(quotes) == 0 && !marketClosed {
			n.log.Warn("no quotes this cycle, keeping previous message")
			return
		}
	}
	text := format.Build(quotes, now, marketClosed, day)

	date := now.Format(state.DateLayout)
	if id, ok := n.state.MessageID(date); ok {
		err := n.msg.Edit(id, text)
		if err == nil {
			return
		}
		n.log.Warn("edit failed, recreating message", zap.Int("message_id", id), zap.Error(err))
	}
	id, err := n.msg.EnsurePinned(text)
	if err != nil {
		n.log.Error("sending message failed", zap.Error(err))
		return
	}
	if err := n.state.Save(id, date); err != nil {
		n.log.Error("persisting message id failed", zap.Error(err))
	}
}

// sendClosedOnce posts the single closing summary for the current
// off-session period. A send failure leaves the flag unset so the next
// wake retries.
func (n *Notifier) sendClosedOnce(ctx context.Context, now time.Time, day calendar.TradingDayInfo) {
	if n.closedSent {
		return
	}
	var quotes []quote.Quote
	if day.IsTrading {
		quotes = n.fetch.FetchAll(ctx, n.cfg.Pairs)
	}
	text := format.Build(quotes, now, true, day)
	if _, err := n.msg.Send(text); err != nil {
		n.log.Error("closing message failed", zap.Error(err))
		return
	}
	n.closedSent = true
}

// nextOpen scans forward for the next session start after now.
func (n *Notifier) nextOpen(now time.Time) time.Time {
	for d := 0; d < 14; d++ {
		info := calendar.Lookup(now.AddDate(0, 0, d))
		if info.IsTrading && info.Open.After(now) {
			return info.Open
		}
	}
	// the calendar should never be closed two weeks straight
	return now.Add(n.cfg.OffHoursInterval)
}

// sleepToward waits at most one off-hours slice toward target, so each
// wake re-enters Run and a still-pending closing message gets another
// attempt before the next sleep.
func (n *Notifier) sleepToward(ctx context.Context, target time.Time) error {
	remaining := target.Sub(n.now())
	if remaining <= 0 {
		return nil
	}
	if n.cfg.OffHoursInterval > 0 && remaining > n.cfg.OffHoursInterval {
		remaining = n.cfg.OffHoursInterval
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
