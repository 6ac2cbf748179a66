package in

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quantora/ledger/internal/services/command"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/net/http"
)

// HealthHandler answers liveness probes and exposes outbox counts, and
// takes manual snapshot triggers.
type HealthHandler struct {
	Command *command.UseCase
	Version string
}

// Health reports process liveness plus the outbox counts by status.
func (handler *HealthHandler) Health(c *fiber.Ctx) error {
	ctx := c.UserContext()

	health, err := handler.Command.OutboxHealth(ctx)
	if err != nil {
		health = &mmodel.OutboxHealth{}
	}

	return http.OK(c, fiber.Map{
		"status": "UP",
		"outbox": health,
	})
}

// GetVersion reports the build version.
func (handler *HealthHandler) GetVersion(c *fiber.Ctx) error {
	return http.OK(c, fiber.Map{"version": handler.Version})
}

// CreateSnapshots triggers a manual snapshot run at the supplied
// cutoff. Future cutoffs are rejected.
func (handler *HealthHandler) CreateSnapshots(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_snapshots")
	defer span.End()

	payload := i.(*mmodel.CreateSnapshotInput)

	created, err := handler.Command.CreateSnapshots(ctx, payload.Cutoff)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create snapshots on command", err)

		logger.Errorf("Failed to create snapshots at %s, Error: %s", payload.Cutoff, err.Error())

		return http.WithError(c, err)
	}

	return http.Accepted(c, fiber.Map{"created": created})
}
