package bootstrap

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/quantora/ledger/pkg/mlog"
)

// Server wraps the fiber app lifecycle.
type Server struct {
	app           *fiber.App
	serverAddress string
	logger        mlog.Logger
}

// ServerAddress returns the server address.
func (s *Server) ServerAddress() string {
	return s.serverAddress
}

// NewServer creates an instance of Server.
func NewServer(cfg *Config, app *fiber.App, logger mlog.Logger) *Server {
	serverAddress := cfg.ServerAddress
	if serverAddress == "" {
		serverAddress = ":3000"
	}

	return &Server{
		app:           app,
		serverAddress: serverAddress,
		logger:        logger,
	}
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Infof("HTTP server listening on %s", s.serverAddress)

		errCh <- s.app.Listen(s.serverAddress)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("HTTP server shutting down")

		return s.app.Shutdown()
	}
}
