package command

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

// CreateSnapshots writes a balance snapshot at the given cutoff for
// every ACTIVE account that does not have one there yet. Each account
// runs in its own durable transaction so one failure never aborts the
// batch. Returns the number of snapshots created.
func (uc *UseCase) CreateSnapshots(ctx context.Context, cutoff time.Time) (int, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_snapshots")
	defer span.End()

	entityType := reflect.TypeOf(mmodel.BalanceSnapshot{}).Name()

	if cutoff.After(uc.now()) {
		err := pkg.ValidateBusinessError(constant.ErrSnapshotCutoffInFuture, entityType)

		mopentelemetry.HandleSpanError(&span, "Rejected future cutoff", err)

		return 0, err
	}

	accounts, err := uc.AccountRepo.ListActive(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to list active accounts", err)

		return 0, err
	}

	created := 0

	for _, acc := range accounts {
		wrote, err := uc.snapshotAccount(ctx, acc, cutoff)
		if err != nil {
			logger.Errorf("Failed to snapshot account %s at %s: %v", acc.ID, cutoff, err)

			continue
		}

		if wrote {
			created++
		}
	}

	logger.Infof("Snapshot run at %s created %d snapshots over %d accounts", cutoff, created, len(accounts))

	return created, nil
}

// snapshotAccount computes and persists one account's snapshot inside
// its own transaction. Already-snapshotted cutoffs are skipped quietly;
// a concurrent maker losing the unique-index race counts as skipped
// too.
func (uc *UseCase) snapshotAccount(ctx context.Context, acc *mmodel.Account, cutoff time.Time) (bool, error) {
	entityType := reflect.TypeOf(mmodel.BalanceSnapshot{}).Name()

	wrote := false

	err := uc.runInTransaction(ctx, entityType, func(ctx context.Context) error {
		accountID := uuid.MustParse(acc.ID)

		exists, err := uc.SnapshotRepo.ExistsAt(ctx, accountID, cutoff)
		if err != nil {
			return err
		}

		if exists {
			return nil
		}

		seed := decimal.Zero

		var after *time.Time

		prior, err := uc.SnapshotRepo.FindLatest(ctx, accountID, cutoff)
		if err != nil && !errors.Is(err, services.ErrDatabaseItemNotFound) {
			return err
		}

		if prior != nil {
			seed = prior.Amount
			after = &prior.SnapshotTime
		}

		entries, err := uc.EntryRepo.FindPostedByAccount(ctx, accountID, after, cutoff)
		if err != nil {
			return err
		}

		amount := doubleentry.ApplyEntries(acc.AccountType, seed, entries)

		snapshotRecord := &mmodel.BalanceSnapshot{
			ID:           pkg.GenerateUUIDv7().String(),
			AccountID:    acc.ID,
			Amount:       amount,
			Currency:     acc.Currency,
			SnapshotTime: cutoff,
			CreatedAt:    uc.now(),
		}

		if len(entries) > 0 {
			lastEntryID := entries[len(entries)-1].ID
			snapshotRecord.LastEntryID = &lastEntryID
		}

		if err := uc.SnapshotRepo.Create(ctx, snapshotRecord); err != nil {
			var conflict pkg.EntityConflictError
			if errors.As(err, &conflict) && conflict.Code == constant.ErrSnapshotAlreadyExists.Error() {
				return nil
			}

			return err
		}

		wrote = true

		return nil
	})

	return wrote, err
}
