// Package ratelimit implements a counter-based quota with fixed time-window
// resets, evaluated across multiple tiers at once (e.g. per-minute, per-hour
// and per-day). A request is allowed only when every tier still has quota.
package ratelimit

import (
	"sync"
	"time"
)

// Tier is one quota window: at most Max requests per Window.
type Tier struct {
	Max    int
	Window time.Duration
}

// DefaultTiers guards the public demo endpoint.
func DefaultTiers() []Tier {
	return []Tier{
		{Max: 10, Window: time.Minute},
		{Max: 100, Window: time.Hour},
		{Max: 300, Window: 24 * time.Hour},
	}
}

type bucket struct {
	count    int
	windowAt time.Time
}

type Limiter struct {
	mu      sync.Mutex
	tiers   []Tier
	buckets map[string][]bucket
	now     func() time.Time
}

func New(tiers []Tier) *Limiter {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &Limiter{
		tiers:   tiers,
		buckets: make(map[string][]bucket),
		now:     time.Now,
	}
}

// Allow consumes one request for key. Counters reset when their window
// elapses; a denied request still counts nothing, so a caller retrying after
// the reset gets a fresh quota.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.buckets[key]
	if !ok {
		state = make([]bucket, len(l.tiers))
		for i := range state {
			state[i].windowAt = now
		}
		l.buckets[key] = state
	}

	for i, tier := range l.tiers {
		if now.Sub(state[i].windowAt) >= tier.Window {
			state[i].count = 0
			state[i].windowAt = now
		}
		if state[i].count >= tier.Max {
			return false
		}
	}

	for i := range state {
		state[i].count++
	}
	return true
}
