package session

import (
	"testing"
	"time"
)

func TestLedgerCountsOnlyTrailingWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := NewLedger(time.Minute)

	for i := 0; i < 5; i++ {
		ledger.Record(base.Add(time.Duration(i) * 10 * time.Second))
	}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"all inside window", base.Add(40 * time.Second), 5},
		{"first aged out", base.Add(61 * time.Second), 4},
		{"only newest remains", base.Add(100 * time.Second), 1},
		{"everything aged out", base.Add(3 * time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ledger.Count(tt.now); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLedgerOldest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := NewLedger(time.Minute)

	if _, ok := ledger.Oldest(base); ok {
		t.Fatal("Oldest() reported an entry for an empty ledger")
	}

	ledger.Record(base)
	ledger.Record(base.Add(30 * time.Second))

	oldest, ok := ledger.Oldest(base.Add(30 * time.Second))
	if !ok || !oldest.Equal(base) {
		t.Errorf("Oldest() = %v, %v; want %v, true", oldest, ok, base)
	}

	// Once the first entry leaves the window the second becomes oldest.
	oldest, ok = ledger.Oldest(base.Add(90 * time.Second))
	if !ok || !oldest.Equal(base.Add(30*time.Second)) {
		t.Errorf("Oldest() after pruning = %v, %v", oldest, ok)
	}
}

func TestLedgerRecordPrunesBeforeAppend(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := NewLedger(time.Minute)

	ledger.Record(base)
	ledger.Record(base.Add(2 * time.Minute))

	if got := ledger.Count(base.Add(2 * time.Minute)); got != 1 {
		t.Errorf("Count() = %d, want 1 after stale entry pruned", got)
	}
}

func TestLedgerDefaultWindow(t *testing.T) {
	if got := NewLedger(0).Window(); got != time.Minute {
		t.Errorf("Window() = %v, want %v", got, time.Minute)
	}
}
