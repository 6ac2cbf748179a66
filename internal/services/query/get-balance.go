package query

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/quantora/ledger/internal/services"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/doubleentry"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/shopspring/decimal"
)

// GetBalance computes the current balance of an account.
func (uc *UseCase) GetBalance(ctx context.Context, accountID uuid.UUID) (*mmodel.Balance, error) {
	return uc.GetBalanceAsOf(ctx, accountID, uc.now())
}

// GetBalanceAsOf reconstructs the balance of an account at the given
// instant: seed from the latest snapshot at or before the cutoff, then
// fold in the posted entries after the snapshot up to the cutoff. The
// lower bound is strict, so recomputing across identical snapshot
// cutoffs is idempotent.
func (uc *UseCase) GetBalanceAsOf(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (*mmodel.Balance, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_balance_as_of")
	defer span.End()

	acc, err := uc.AccountRepo.Find(ctx, accountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get account on repo by id", err)

		var notFound pkg.EntityNotFoundError
		if errors.As(err, &notFound) {
			return nil, pkg.ValidateBusinessError(constant.ErrAccountNotFound, reflect.TypeOf(mmodel.Account{}).Name())
		}

		return nil, err
	}

	seed := decimal.Zero

	var after *time.Time

	snapshotRecord, err := uc.SnapshotRepo.FindLatest(ctx, accountID, cutoff)
	if err != nil && !errors.Is(err, services.ErrDatabaseItemNotFound) {
		mopentelemetry.HandleSpanError(&span, "Failed to get latest snapshot", err)

		return nil, err
	}

	if snapshotRecord != nil {
		seed = snapshotRecord.Amount
		after = &snapshotRecord.SnapshotTime
	}

	entries, err := uc.EntryRepo.FindPostedByAccount(ctx, accountID, after, cutoff)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get posted entries", err)

		return nil, err
	}

	amount := doubleentry.ApplyEntries(acc.AccountType, seed, entries)

	logger.Debugf("Balance of %s as of %s: %s %s (%d incremental entries)",
		acc.ID, cutoff, amount, acc.Currency, len(entries))

	return &mmodel.Balance{
		AccountID: acc.ID,
		Amount:    amount,
		Currency:  acc.Currency,
		AsOf:      cutoff,
	}, nil
}
