package session

import (
	"math/rand"
	"testing"
	"time"
)

func testPolicy(cfg PacingConfig) *Policy {
	return NewPolicy(cfg, rand.New(rand.NewSource(1)))
}

func TestNextDelayBelowCeiling(t *testing.T) {
	policy := testPolicy(PacingConfig{MaxPerMinute: 25})
	ledger := NewLedger(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 24; i++ {
		ledger.Record(now.Add(time.Duration(i) * time.Second))
	}

	if got := policy.NextDelay(now.Add(24*time.Second), ledger, time.Time{}); got != 0 {
		t.Errorf("NextDelay() = %v, want 0 below the ceiling", got)
	}
}

func TestNextDelayAtCeiling(t *testing.T) {
	policy := testPolicy(PacingConfig{
		MaxPerMinute:  3,
		ExtraDelayMin: time.Second,
		ExtraDelayMax: 5 * time.Second,
	})
	ledger := NewLedger(time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		ledger.Record(base.Add(time.Duration(i) * 10 * time.Second))
	}

	// The oldest entry is 30s old, so it ages out in 30s. The delay is
	// that remainder plus jitter from the configured range.
	now := base.Add(30 * time.Second)
	got := policy.NextDelay(now, ledger, time.Time{})
	if got < 31*time.Second || got > 35*time.Second {
		t.Errorf("NextDelay() = %v, want within [31s, 35s]", got)
	}
}

func TestNextDelayCeilingKeepsWindowBounded(t *testing.T) {
	policy := testPolicy(PacingConfig{
		MaxPerMinute:  5,
		ExtraDelayMin: time.Second,
		ExtraDelayMax: 5 * time.Second,
	})
	ledger := NewLedger(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Simulate a burst of dispatches where each one waits exactly what
	// the policy demands. No trailing window may ever exceed the cap.
	for i := 0; i < 40; i++ {
		now = now.Add(policy.NextDelay(now, ledger, time.Time{}))
		if count := ledger.Count(now); count >= 5 {
			t.Fatalf("dispatch %d: window already holds %d entries", i, count)
		}
		ledger.Record(now)
	}
}

func TestNextDelayMinSpacing(t *testing.T) {
	policy := testPolicy(PacingConfig{
		MinSpacing: 300 * time.Millisecond,
		MaxSpacing: 1500 * time.Millisecond,
	})
	ledger := NewLedger(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first dispatch has no spacing", func(t *testing.T) {
		if got := policy.NextDelay(now, ledger, time.Time{}); got != 0 {
			t.Errorf("NextDelay() = %v, want 0", got)
		}
	})

	t.Run("recent dispatch forces a bounded wait", func(t *testing.T) {
		last := now.Add(-100 * time.Millisecond)
		got := policy.NextDelay(now, ledger, last)
		if got < 200*time.Millisecond || got > 1400*time.Millisecond {
			t.Errorf("NextDelay() = %v, want within [200ms, 1400ms]", got)
		}
	})

	t.Run("stale dispatch needs no wait", func(t *testing.T) {
		last := now.Add(-2 * time.Second)
		if got := policy.NextDelay(now, ledger, last); got != 0 {
			t.Errorf("NextDelay() = %v, want 0", got)
		}
	})
}

func TestNeedsRotation(t *testing.T) {
	policy := testPolicy(PacingConfig{
		RotateAfterRequests: 50,
		RotateAfterAge:      30 * time.Minute,
	})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		created  time.Time
		requests int
		want     bool
	}{
		{"fresh session", now.Add(-time.Minute), 1, false},
		{"at request threshold", now.Add(-time.Minute), 50, true},
		{"past request threshold", now.Add(-time.Minute), 51, true},
		{"just under request threshold", now.Add(-time.Minute), 49, false},
		{"past age threshold", now.Add(-31 * time.Minute), 1, true},
		{"exactly at age threshold", now.Add(-30 * time.Minute), 1, false},
		{"no session", time.Time{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.NeedsRotation(now, tt.created, tt.requests); got != tt.want {
				t.Errorf("NeedsRotation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCooldownWithinRange(t *testing.T) {
	policy := testPolicy(PacingConfig{
		CooldownMin: 2 * time.Second,
		CooldownMax: 5 * time.Second,
	})
	for i := 0; i < 100; i++ {
		got := policy.Cooldown()
		if got < 2*time.Second || got > 5*time.Second {
			t.Fatalf("Cooldown() = %v, want within [2s, 5s]", got)
		}
	}
}

func TestUniformDegenerateRange(t *testing.T) {
	policy := testPolicy(PacingConfig{CooldownMin: 3 * time.Second, CooldownMax: 3 * time.Second})
	if got := policy.Cooldown(); got != 3*time.Second {
		t.Errorf("Cooldown() = %v, want 3s for a collapsed range", got)
	}
}
