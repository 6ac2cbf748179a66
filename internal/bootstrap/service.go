package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/quantora/ledger/pkg/mlog"
)

// shutdownGracePeriod bounds how long workers get to drain after a
// termination signal.
const shutdownGracePeriod = 30 * time.Second

// Service composes the runnable parts of the ledger: the HTTP server
// and the two background workers.
type Service struct {
	Server         *Server
	OutboxWorker   *OutboxWorker
	SnapshotWorker *SnapshotWorker
	Logger         mlog.Logger
}

// Run starts everything and blocks until SIGINT/SIGTERM, then cancels
// the workers cooperatively and waits out the grace period.
func (s *Service) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := fn(ctx); err != nil {
				s.Logger.Errorf("%s exited with error: %v", name, err)

				cancel()
			}
		}()
	}

	run("HTTP Server", s.Server.Run)
	run("Outbox Relay Worker", s.OutboxWorker.Run)
	run("Snapshot Worker", s.SnapshotWorker.Run)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.Logger.Infof("Received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	cancel()

	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.Logger.Info("Shutdown complete")
	case <-time.After(shutdownGracePeriod):
		s.Logger.Warn("Shutdown grace period elapsed, exiting")
	}

	_ = s.Logger.Sync()
}
