package query

import (
	"context"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	httputil "github.com/quantora/ledger/pkg/net/http"
)

// GetAllAccounts retrieves a page of accounts, newest first.
func (uc *UseCase) GetAllAccounts(ctx context.Context, filter httputil.Pagination) (*mmodel.Accounts, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_all_accounts")
	defer span.End()

	accounts, err := uc.AccountRepo.FindAll(ctx, filter)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get accounts on repo", err)

		logger.Errorf("Error getting accounts: %v", err)

		return nil, err
	}

	return &mmodel.Accounts{
		Items: accounts,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
