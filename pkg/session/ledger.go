package session

import (
	"sync"
	"time"
)

// Ledger is the ordered sequence of dispatch timestamps used to compute
// the current per-minute rate. Entries older than the window are pruned
// on every access, so no read ever observes a timestamp older than the
// window.
//
// Unlike a bucketed sliding-window counter, the ledger keeps exact
// timestamps: the ceiling delay needs the age of the oldest in-window
// entry, not just a count.
type Ledger struct {
	window time.Duration

	mu    sync.Mutex
	times []time.Time // chronological
}

// NewLedger creates a ledger over the given trailing window.
func NewLedger(window time.Duration) *Ledger {
	if window <= 0 {
		window = time.Minute
	}
	return &Ledger{window: window}
}

// Window returns the trailing window duration.
func (l *Ledger) Window() time.Duration {
	return l.window
}

// Record appends a dispatch timestamp.
func (l *Ledger) Record(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	l.times = append(l.times, now)
}

// Count returns the number of dispatches within the trailing window.
func (l *Ledger) Count(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	return len(l.times)
}

// Oldest returns the oldest in-window dispatch timestamp.
// ok is false when the window is empty.
func (l *Ledger) Oldest(now time.Time) (oldest time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	if len(l.times) == 0 {
		return time.Time{}, false
	}
	return l.times[0], true
}

// pruneLocked drops entries older than the window. Caller holds mu.
func (l *Ledger) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)

	i := 0
	for i < len(l.times) && !l.times[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.times = append(l.times[:0], l.times[i:]...)
	}
}
