package query

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
)

// GetAccountByID retrieves an account with its metadata.
func (uc *UseCase) GetAccountByID(ctx context.Context, id uuid.UUID) (*mmodel.Account, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_account_by_id")
	defer span.End()

	acc, err := uc.AccountRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get account on repo by id", err)

		logger.Errorf("Error getting account: %v", err)

		return nil, err
	}

	if uc.MetadataRepo != nil {
		md, err := uc.MetadataRepo.FindByEntity(ctx, reflect.TypeOf(mmodel.Account{}).Name(), acc.ID)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to get account metadata", err)

			return nil, err
		}

		acc.Metadata = md
	}

	return acc, nil
}
