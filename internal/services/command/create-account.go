package command

import (
	"context"
	"reflect"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/money"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/shopspring/decimal"
)

// CreateAccount creates a new account and persists data in the
// repository. The account starts ACTIVE with a fixed currency.
func (uc *UseCase) CreateAccount(ctx context.Context, cai *mmodel.CreateAccountInput) (*mmodel.Account, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_account")
	defer span.End()

	logger.Infof("Trying to create account: %v", cai)

	if !constant.IsValidAccountType(cai.AccountType) {
		err := pkg.ValidateBusinessError(constant.ErrInvalidAccountType, reflect.TypeOf(mmodel.Account{}).Name())

		mopentelemetry.HandleSpanError(&span, "Failed to validate account type", err)

		return nil, err
	}

	if _, err := money.New(decimal.Zero, cai.Currency); err != nil {
		err = pkg.ValidateBusinessError(constant.ErrInvalidCurrencyCode, reflect.TypeOf(mmodel.Account{}).Name())

		mopentelemetry.HandleSpanError(&span, "Failed to validate currency code", err)

		return nil, err
	}

	now := uc.now()

	acc := &mmodel.Account{
		ID:          pkg.GenerateUUIDv7().String(),
		AccountType: cai.AccountType,
		Currency:    cai.Currency,
		Status:      constant.AccountStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := uc.AccountRepo.Create(ctx, acc)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create account", err)

		logger.Errorf("Error creating account: %v", err)

		return nil, err
	}

	md, err := uc.CreateMetadata(ctx, reflect.TypeOf(mmodel.Account{}).Name(), created.ID, cai.Metadata)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create account metadata", err)

		logger.Errorf("Error creating account metadata: %v", err)

		return nil, err
	}

	created.Metadata = md

	return created, nil
}
