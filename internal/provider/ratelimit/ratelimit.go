// Package ratelimit provides a minimum-interval gate for outbound calls
// to upstreams that ban aggressive clients.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum time between acquisitions. Callers wait until
// the interval has elapsed since the last acquisition, or return early
// when the context is canceled. A zero Interval disables the gate.
type Gate struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.Interval <= 0 {
		return nil
	}
	g.mu.Lock()
	wait := time.Until(g.last.Add(g.Interval))
	g.mu.Unlock()
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	g.mu.Lock()
	g.last = time.Now()
	g.mu.Unlock()
	return nil
}
