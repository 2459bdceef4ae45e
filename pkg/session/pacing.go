package session

import (
	"math/rand"
	"sync"
	"time"
)

// PacingConfig contains every pacing threshold and range. All values are
// configuration inputs so the policy is testable with arbitrary bounds.
type PacingConfig struct {
	// MaxPerMinute is the dispatch ceiling over the trailing window.
	// Zero disables the ceiling.
	MaxPerMinute int

	// MinSpacing and MaxSpacing bound the uniformly sampled minimum
	// gap between consecutive dispatches.
	MinSpacing time.Duration
	MaxSpacing time.Duration

	// ExtraDelayMin and ExtraDelayMax bound the jitter added when the
	// per-minute ceiling forces a wait, so inter-arrival times are not
	// perfectly periodic.
	ExtraDelayMin time.Duration
	ExtraDelayMax time.Duration

	// RotateAfterRequests rotates the session once it has served this
	// many calls. Zero disables count-based rotation.
	RotateAfterRequests int

	// RotateAfterAge rotates the session once it is older than this.
	// Zero disables age-based rotation.
	RotateAfterAge time.Duration

	// CooldownMin and CooldownMax bound the randomized pause slept
	// after a rotation teardown, before reconnecting.
	CooldownMin time.Duration
	CooldownMax time.Duration
}

// Policy is the pacing and rotation decision logic. It is pure over its
// inputs apart from the injected random source, and is safe for
// concurrent use.
type Policy struct {
	cfg PacingConfig

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewPolicy creates a policy with the given thresholds. A nil rng gets a
// time-seeded source; tests inject a deterministic one.
func NewPolicy(cfg PacingConfig, rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{cfg: cfg, rng: rng}
}

// NextDelay returns how long the caller must wait before dispatching.
//
// Two independent constraints apply and the larger wins:
//
//   - Per-minute ceiling: once the ledger holds MaxPerMinute entries,
//     wait until the oldest in-window entry ages out, plus jitter.
//   - Minimum spacing: a uniformly sampled gap since the previous
//     dispatch; zero when already elapsed.
func (p *Policy) NextDelay(now time.Time, ledger *Ledger, lastDispatch time.Time) time.Duration {
	var delay time.Duration

	if p.cfg.MaxPerMinute > 0 && ledger.Count(now) >= p.cfg.MaxPerMinute {
		if oldest, ok := ledger.Oldest(now); ok {
			wait := ledger.Window() - now.Sub(oldest) + p.uniform(p.cfg.ExtraDelayMin, p.cfg.ExtraDelayMax)
			if wait > delay {
				delay = wait
			}
		}
	}

	if !lastDispatch.IsZero() {
		target := p.uniform(p.cfg.MinSpacing, p.cfg.MaxSpacing)
		if elapsed := now.Sub(lastDispatch); elapsed < target {
			if remaining := target - elapsed; remaining > delay {
				delay = remaining
			}
		}
	}

	return delay
}

// NeedsRotation reports whether the live session should be torn down
// before the next dispatch. The decision is advisory: the Manager
// chooses when to act on it.
func (p *Policy) NeedsRotation(now time.Time, sessionCreated time.Time, sessionRequests int) bool {
	if sessionCreated.IsZero() {
		return false
	}
	if p.cfg.RotateAfterRequests > 0 && sessionRequests >= p.cfg.RotateAfterRequests {
		return true
	}
	if p.cfg.RotateAfterAge > 0 && now.Sub(sessionCreated) > p.cfg.RotateAfterAge {
		return true
	}
	return false
}

// Cooldown returns the randomized pause slept between a rotation
// teardown and the reconnect that follows.
func (p *Policy) Cooldown() time.Duration {
	return p.uniform(p.cfg.CooldownMin, p.cfg.CooldownMax)
}

// uniform samples a duration uniformly from [min, max].
func (p *Policy) uniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return min + time.Duration(p.rng.Int63n(int64(max-min)+1))
}
