package in

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quantora/ledger/internal/services/command"
	"github.com/quantora/ledger/internal/services/query"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/net/http"
)

// AccountHandler struct contains account use cases for managing account
// related operations.
type AccountHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateAccount is a method that creates account information.
func (handler *AccountHandler) CreateAccount(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_account")
	defer span.End()

	payload := i.(*mmodel.CreateAccountInput)
	logger.Infof("Request to create an Account with details: %#v", payload)

	account, err := handler.Command.CreateAccount(ctx, payload)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create Account on command", err)

		return http.WithError(c, err)
	}

	logger.Infof("Successfully created Account")

	return http.Created(c, account)
}

// GetAccountByID is a method that retrieves Account information by id.
func (handler *AccountHandler) GetAccountByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_account_by_id")
	defer span.End()

	id := c.Locals("id").(uuid.UUID)

	account, err := handler.Query.GetAccountByID(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to retrieve Account on query", err)

		logger.Errorf("Failed to retrieve Account with ID: %s, Error: %s", id, err.Error())

		return http.WithError(c, err)
	}

	return http.OK(c, account)
}

// GetAllAccounts is a method that retrieves all Accounts.
func (handler *AccountHandler) GetAllAccounts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_all_accounts")
	defer span.End()

	pagination := http.ParsePagination(c)

	accounts, err := handler.Query.GetAllAccounts(ctx, pagination)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to retrieve all Accounts on query", err)

		logger.Errorf("Failed to retrieve all Accounts, Error: %s", err.Error())

		return http.WithError(c, err)
	}

	return http.OK(c, accounts)
}

// BlockAccount moves an account to BLOCKED.
func (handler *AccountHandler) BlockAccount(c *fiber.Ctx) error {
	return handler.updateStatus(c, constant.AccountStatusBlocked)
}

// UnblockAccount moves an account back to ACTIVE.
func (handler *AccountHandler) UnblockAccount(c *fiber.Ctx) error {
	return handler.updateStatus(c, constant.AccountStatusActive)
}

// CloseAccount moves an account to the terminal CLOSED status.
func (handler *AccountHandler) CloseAccount(c *fiber.Ctx) error {
	return handler.updateStatus(c, constant.AccountStatusClosed)
}

func (handler *AccountHandler) updateStatus(c *fiber.Ctx, targetStatus string) error {
	ctx := c.UserContext()

	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.update_account_status")
	defer span.End()

	id := c.Locals("id").(uuid.UUID)

	account, err := handler.Command.UpdateAccountStatus(ctx, id, targetStatus)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update Account status on command", err)

		logger.Errorf("Failed to update Account %s to %s, Error: %s", id, targetStatus, err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Account %s moved to %s", id, targetStatus)

	return http.OK(c, account)
}
