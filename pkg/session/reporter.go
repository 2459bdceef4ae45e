package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DefaultStatsSchedule emits one pacing snapshot per minute.
const DefaultStatsSchedule = "@every 1m"

// StatsReporter logs a periodic snapshot of the manager's pacing
// statistics. The snapshot goes to the session logger at info level,
// so the silent toggle suppresses it.
type StatsReporter struct {
	stats    func() Stats
	schedule string
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewStatsReporter creates a reporter over the given stats source. An
// empty schedule falls back to DefaultStatsSchedule.
func NewStatsReporter(stats func() Stats, schedule string, logger *slog.Logger) *StatsReporter {
	if schedule == "" {
		schedule = DefaultStatsSchedule
	}
	return &StatsReporter{
		stats:    stats,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the scheduled snapshots. It returns an error when the
// schedule expression does not parse.
func (r *StatsReporter) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, r.emit); err != nil {
		return fmt.Errorf("scheduling stats snapshot: %w", err)
	}

	r.cron.Start()
	r.running = true
	return nil
}

// Stop halts the schedule. Snapshots already running complete.
func (r *StatsReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.running = false
}

func (r *StatsReporter) emit() {
	s := r.stats()
	r.logger.Info("pacing stats",
		"total_requests", s.TotalRequests,
		"requests_last_minute", s.RequestsLastMinute,
		"sessions_created", s.SessionsCreated,
		"session_age_seconds", s.SessionAgeSeconds,
	)
}
