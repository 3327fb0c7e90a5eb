// Package cache provides the short-lived quote cache that sits in front
// of the network fallback layers.
package cache

import (
	"sync"
	"time"
)

// Key identifies a cached value by display name and primary symbol. The
// primary symbol is part of the key so a remapped index does not serve
// stale values for the old ticker.
type Key struct {
	Name   string
	Symbol string
}

type entry[V any] struct {
	expiresAt time.Time
	value     V
}

// Store caches resolved values per (name, symbol) for a TTL. It is read
// before the fetch layers run and written after a successful resolve.
// A nil Store or a non-positive TTL disables caching.
type Store[V any] struct {
	TTL time.Duration

	mu    sync.RWMutex
	items map[Key]entry[V]
}

func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{TTL: ttl}
}

// Get returns the cached value when it is younger than the TTL.
func (s *Store[V]) Get(name, symbol string) (V, bool) {
	var zero V
	if s == nil || s.TTL <= 0 {
		return zero, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[Key{Name: name, Symbol: symbol}]
	if !ok || time.Now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Put stores a value, replacing any previous entry for the same key.
func (s *Store[V]) Put(name, symbol string, v V) {
	if s == nil || s.TTL <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[Key]entry[V])
	}
	s.items[Key{Name: name, Symbol: symbol}] = entry[V]{
		expiresAt: time.Now().Add(s.TTL),
		value:     v,
	}
}
