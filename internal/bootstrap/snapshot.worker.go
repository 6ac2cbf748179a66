package bootstrap

import (
	"context"
	"time"

	"github.com/quantora/ledger/internal/services/command"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mlog"
	"github.com/quantora/ledger/pkg/mtime"
)

// SnapshotWorker creates the daily balance snapshots. The schedule is
// either "@daily" (run just after midnight in the configured zone with
// cutoff = previous day end) or a plain Go duration for fixed-interval
// runs.
type SnapshotWorker struct {
	UseCase  *command.UseCase
	Logger   mlog.Logger
	Clock    mtime.Clock
	Zone     *time.Location
	Interval time.Duration
	Daily    bool
}

// NewSnapshotWorker parses the schedule and zone configuration.
func NewSnapshotWorker(uc *command.UseCase, logger mlog.Logger, schedule, zone string, clock mtime.Clock) (*SnapshotWorker, error) {
	location, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}

	w := &SnapshotWorker{
		UseCase: uc,
		Logger:  logger,
		Clock:   clock,
		Zone:    location,
	}

	if schedule == "@daily" {
		w.Daily = true

		return w, nil
	}

	interval, err := time.ParseDuration(schedule)
	if err != nil {
		return nil, err
	}

	w.Interval = interval

	return w, nil
}

// Run schedules snapshot batches until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	ctx = pkg.ContextWithLogger(ctx, w.Logger.WithFields("worker", "snapshot-maker"))

	logger := pkg.NewLoggerFromContext(ctx)
	logger.Info("Snapshot worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Snapshot worker stopped")

			return nil
		case <-time.After(w.nextWait()):
			cutoff := w.cutoff()

			if _, err := w.UseCase.CreateSnapshots(ctx, cutoff); err != nil {
				logger.Errorf("Snapshot run at %s failed: %v", cutoff, err)
			}
		}
	}
}

// nextWait returns how long to sleep before the next run. Daily runs
// fire five minutes past midnight in the configured zone.
func (w *SnapshotWorker) nextWait() time.Duration {
	if !w.Daily {
		return w.Interval
	}

	now := w.Clock.Now().In(w.Zone)
	year, month, day := now.Date()

	nextRun := time.Date(year, month, day, 0, 5, 0, 0, w.Zone)
	if !nextRun.After(now) {
		nextRun = nextRun.Add(24 * time.Hour)
	}

	return nextRun.Sub(now)
}

// cutoff returns the cutoff of a run firing now: the last nanosecond of
// the previous day for daily runs, the current instant otherwise.
func (w *SnapshotWorker) cutoff() time.Time {
	now := w.Clock.Now().In(w.Zone)

	if !w.Daily {
		return now
	}

	year, month, day := now.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, w.Zone).Add(-time.Nanosecond)
}
