package bootstrap

import (
	"context"
	"strconv"
	"time"

	"github.com/quantora/ledger/internal/adapters/redis"
	"github.com/quantora/ledger/internal/services/command"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mlog"
)

// OutboxWorker is the polling relay: every PollInterval it drains one
// batch of PENDING outbox rows to the bus, and every HealthLogInterval
// it logs the outbox counts.
//
// A single active relay is assumed. The Redis lease below is advisory
// coordination for multi-instance deployments; losing it skips the tick
// but is never required for safety because the row fetch uses
// skip-locked locks.
type OutboxWorker struct {
	UseCase  *command.UseCase
	Redis    redis.RedisRepository
	Logger   mlog.Logger
	LeaseKey string
	Config   command.OutboxConfig

	PollInterval      time.Duration
	HealthLogInterval time.Duration
}

// Run polls until the context is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ctx = pkg.ContextWithLogger(ctx, w.Logger.WithFields("worker", "outbox-relay"))

	logger := pkg.NewLoggerFromContext(ctx)
	logger.Infof("Outbox relay started: poll %s, batch %d, max attempts %d",
		w.PollInterval, w.Config.BatchSize, w.Config.MaxAttempts)

	holder := pkg.GenerateUUIDv7().String()

	pollTicker := time.NewTicker(w.PollInterval)
	defer pollTicker.Stop()

	healthTicker := time.NewTicker(w.HealthLogInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox relay stopped")

			return nil
		case <-pollTicker.C:
			w.tick(ctx, holder)
		case <-healthTicker.C:
			w.logHealth(ctx)
		}
	}
}

// tick runs one relay pass under the advisory lease.
func (w *OutboxWorker) tick(ctx context.Context, holder string) {
	logger := pkg.NewLoggerFromContext(ctx)

	if w.Redis != nil {
		acquired, err := w.Redis.AcquireLease(ctx, w.LeaseKey, holder, 2*w.PollInterval)
		if err != nil {
			logger.Warnf("Relay lease unavailable, polling lock-less: %v", err)
		} else if !acquired {
			return
		} else {
			defer func() {
				if err := w.Redis.ReleaseLease(ctx, w.LeaseKey); err != nil {
					logger.Warnf("Failed to release relay lease: %v", err)
				}
			}()
		}
	}

	if _, err := w.UseCase.PublishOutboxEvents(ctx, w.Config); err != nil {
		logger.Errorf("Relay pass failed: %v", err)
	}
}

// logHealth counts outbox rows by status and warns when FAILED rows
// await operator action.
func (w *OutboxWorker) logHealth(ctx context.Context) {
	logger := pkg.NewLoggerFromContext(ctx)

	health, err := w.UseCase.OutboxHealth(ctx)
	if err != nil {
		logger.Errorf("Failed to read outbox health: %v", err)

		return
	}

	logger.Infof("Outbox health: %d pending, %d processed, %d failed",
		health.Pending, health.Processed, health.Failed)

	if health.Failed > 0 {
		logger.Warnf("Outbox has %d FAILED events awaiting operator action", health.Failed)
	}

	// Gauges for external dashboards; best effort.
	if w.Redis != nil {
		ttl := 2 * w.HealthLogInterval

		_ = w.Redis.Set(ctx, "ledger:outbox:pending", strconv.FormatInt(health.Pending, 10), ttl)
		_ = w.Redis.Set(ctx, "ledger:outbox:failed", strconv.FormatInt(health.Failed, 10), ttl)
	}
}
