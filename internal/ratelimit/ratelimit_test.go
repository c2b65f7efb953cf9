package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(tiers []Tier) (*Limiter, *time.Time) {
	l := New(tiers)
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestAllowDeniesWhenTierExhausted(t *testing.T) {
	l, _ := newTestLimiter([]Tier{{Max: 2, Window: time.Minute}})

	if !l.Allow("client-a") || !l.Allow("client-a") {
		t.Fatalf("expected first two requests to pass")
	}
	if l.Allow("client-a") {
		t.Fatalf("expected third request to be denied")
	}
	if !l.Allow("client-b") {
		t.Fatalf("expected independent quota per key")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l, current := newTestLimiter([]Tier{{Max: 1, Window: time.Minute}})

	if !l.Allow("client-a") {
		t.Fatalf("expected first request to pass")
	}
	if l.Allow("client-a") {
		t.Fatalf("expected second request denied within window")
	}

	*current = current.Add(61 * time.Second)
	if !l.Allow("client-a") {
		t.Fatalf("expected quota reset after window elapsed")
	}
}

func TestAllowRequiresEveryTier(t *testing.T) {
	l, current := newTestLimiter([]Tier{
		{Max: 2, Window: time.Minute},
		{Max: 3, Window: time.Hour},
	})

	for i := 0; i < 2; i++ {
		if !l.Allow("client-a") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("client-a") {
		t.Fatalf("minute tier should deny")
	}

	// Minute window resets but the hour tier has one request left.
	*current = current.Add(2 * time.Minute)
	if !l.Allow("client-a") {
		t.Fatalf("expected hour tier to still have quota")
	}
	if l.Allow("client-a") {
		t.Fatalf("expected hour tier exhausted")
	}
}
