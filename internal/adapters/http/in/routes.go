package in

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mlog"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/net/http"
)

// NewRouter registers routes for the ledger HTTP server. Every
// externally triggered operation runs under the configured deadline.
func NewRouter(logger mlog.Logger, telemetry *mopentelemetry.Telemetry, operationTimeout time.Duration,
	account *AccountHandler, transaction *TransactionHandler, balance *BalanceHandler, health *HealthHandler) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return http.HandleFiberError(ctx, err)
		},
	})

	f.Use(cors.New())
	f.Use(withRequestContext(logger, telemetry, operationTimeout))

	// Accounts
	f.Post("/api/v1/accounts", http.WithBody(new(mmodel.CreateAccountInput), account.CreateAccount))
	f.Get("/api/v1/accounts", account.GetAllAccounts)
	f.Get("/api/v1/accounts/:id", http.ParseUUIDPathParameters("id"), account.GetAccountByID)
	f.Post("/api/v1/accounts/:id/block", http.ParseUUIDPathParameters("id"), account.BlockAccount)
	f.Post("/api/v1/accounts/:id/unblock", http.ParseUUIDPathParameters("id"), account.UnblockAccount)
	f.Post("/api/v1/accounts/:id/close", http.ParseUUIDPathParameters("id"), account.CloseAccount)

	// Transactions
	f.Post("/api/v1/transactions", http.WithBody(new(mmodel.PostTransactionInput), transaction.PostTransaction))
	f.Get("/api/v1/transactions/:id", http.ParseUUIDPathParameters("id"), transaction.GetTransactionByID)
	f.Post("/api/v1/transactions/:id/reverse", http.ParseUUIDPathParameters("id"),
		http.WithBody(new(mmodel.ReverseTransactionInput), transaction.ReverseTransaction))

	// Balances
	f.Get("/api/v1/balances/:account_id", http.ParseUUIDPathParameters("account_id"), balance.GetBalance)
	f.Get("/api/v1/balances/:account_id/as-of", http.ParseUUIDPathParameters("account_id"), balance.GetBalanceAsOf)

	// Snapshots (manual trigger)
	f.Post("/api/v1/snapshots", http.WithBody(new(mmodel.CreateSnapshotInput), health.CreateSnapshots))

	// Health
	f.Get("/actuator/health", health.Health)
	f.Get("/health", health.Health)
	f.Get("/version", health.GetVersion)

	return f
}

// withRequestContext seeds the request user context with the logger,
// tracer, correlation id and the per-operation deadline.
func withRequestContext(logger mlog.Logger, telemetry *mopentelemetry.Telemetry, operationTimeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		headerID := c.Get("X-Request-Id")
		if headerID == "" {
			headerID = pkg.GenerateUUIDv7().String()
		}

		requestLogger := logger.WithFields("header_id", headerID)

		ctx := pkg.ContextWithHeaderID(c.UserContext(), headerID)
		ctx = pkg.ContextWithLogger(ctx, requestLogger)
		ctx = pkg.ContextWithTracer(ctx, telemetry.NewTracer())

		if operationTimeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, operationTimeout)
			defer cancel()
		}

		c.SetUserContext(ctx)
		c.Set("X-Request-Id", headerID)

		return c.Next()
	}
}
