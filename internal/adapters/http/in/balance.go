package in

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quantora/ledger/internal/services/query"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/net/http"
)

// BalanceHandler struct contains the balance query use case.
type BalanceHandler struct {
	Query *query.UseCase
}

// GetBalance is a method that computes the current balance of an
// account.
func (handler *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_balance")
	defer span.End()

	accountID := c.Locals("account_id").(uuid.UUID)

	balance, err := handler.Query.GetBalance(ctx, accountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to compute balance on query", err)

		logger.Errorf("Failed to compute balance for Account %s, Error: %s", accountID, err.Error())

		return http.WithError(c, err)
	}

	return http.OK(c, balance)
}

// GetBalanceAsOf is a method that computes the balance of an account at
// a given instant, taken from the time query parameter in RFC 3339.
func (handler *BalanceHandler) GetBalanceAsOf(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_balance_as_of")
	defer span.End()

	accountID := c.Locals("account_id").(uuid.UUID)

	cutoff, err := time.Parse(time.RFC3339Nano, c.Query("time"))
	if err != nil {
		return http.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidArgument, "Balance"))
	}

	balance, err := handler.Query.GetBalanceAsOf(ctx, accountID, cutoff)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to compute as-of balance on query", err)

		logger.Errorf("Failed to compute as-of balance for Account %s, Error: %s", accountID, err.Error())

		return http.WithError(c, err)
	}

	return http.OK(c, balance)
}
