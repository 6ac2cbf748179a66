package in

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quantora/ledger/internal/services/command"
	"github.com/quantora/ledger/internal/services/query"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/net/http"
)

// TransactionHandler struct contains transaction use cases for posting,
// reversing and reading transactions.
type TransactionHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// PostTransaction is a method that posts a balanced transaction.
// Reposting the same external id returns the stored transaction with
// status 201 both times.
func (handler *TransactionHandler) PostTransaction(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.post_transaction")
	defer span.End()

	payload := i.(*mmodel.PostTransactionInput)
	logger.Infof("Request to post a Transaction with external id: %s", payload.ExternalID)

	txn, err := handler.Command.PostTransaction(ctx, payload)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to post Transaction on command", err)

		return http.WithError(c, err)
	}

	logger.Infof("Successfully posted Transaction %s", txn.ID)

	return http.Created(c, txn)
}

// GetTransactionByID is a method that retrieves Transaction information
// by id.
func (handler *TransactionHandler) GetTransactionByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_transaction_by_id")
	defer span.End()

	id := c.Locals("id").(uuid.UUID)

	txn, err := handler.Query.GetTransactionByID(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to retrieve Transaction on query", err)

		logger.Errorf("Failed to retrieve Transaction with ID: %s, Error: %s", id, err.Error())

		return http.WithError(c, err)
	}

	return http.OK(c, txn)
}

// ReverseTransaction is a method that posts the compensating
// transaction for a posted one.
func (handler *TransactionHandler) ReverseTransaction(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.reverse_transaction")
	defer span.End()

	id := c.Locals("id").(uuid.UUID)
	payload := i.(*mmodel.ReverseTransactionInput)

	logger.Infof("Request to reverse Transaction %s with external id %s", id, payload.ReversalExternalID)

	reversal, err := handler.Command.ReverseTransaction(ctx, id, payload)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to reverse Transaction on command", err)

		return http.WithError(c, err)
	}

	logger.Infof("Successfully reversed Transaction %s by %s", id, reversal.ID)

	return http.Created(c, reversal)
}
