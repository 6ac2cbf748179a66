package command

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sort"

	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/doubleentry"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
)

// ReverseTransaction posts the compensating transaction for a
// previously posted one: every entry mirrored with its side flipped,
// the original marked REVERSED and linked to the new transaction. The
// reversal external id is the idempotency key for retries.
func (uc *UseCase) ReverseTransaction(ctx context.Context, originalID uuid.UUID, input *mmodel.ReverseTransactionInput) (*mmodel.Transaction, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.reverse_transaction")
	defer span.End()

	entityType := reflect.TypeOf(mmodel.Transaction{}).Name()

	logger.Infof("Trying to reverse transaction %s with external id %s", originalID, input.ReversalExternalID)

	var result *mmodel.Transaction

	txErr := uc.runInTransaction(ctx, entityType, func(ctx context.Context) error {
		existing, err := uc.findExistingByExternalID(ctx, input.ReversalExternalID)
		if err != nil {
			return err
		}

		if existing != nil {
			result = existing
			return nil
		}

		original, err := uc.TransactionRepo.Find(ctx, originalID)
		if err != nil {
			return err
		}

		if original.Status != constant.TransactionStatusPosted {
			return pkg.ValidateBusinessError(constant.ErrTransactionNotReversible, entityType)
		}

		originalEntries, err := uc.EntryRepo.FindByTransaction(ctx, originalID)
		if err != nil {
			return err
		}

		accountIDs := distinctAccountIDs(originalEntries)

		if _, err := uc.lockActiveAccounts(ctx, accountIDs); err != nil {
			return err
		}

		now := uc.now()
		reversalID := pkg.GenerateUUIDv7().String()

		mirror := make([]*mmodel.Entry, 0, len(originalEntries))
		for _, e := range originalEntries {
			mirror = append(mirror, &mmodel.Entry{
				ID:            pkg.GenerateUUIDv7().String(),
				TransactionID: reversalID,
				AccountID:     e.AccountID,
				Amount:        e.Amount,
				Currency:      e.Currency,
				Side:          constant.OppositeSide(e.Side),
				EventType:     constant.EventTypeReversal,
				EventTime:     now,
				RecordedAt:    now,
			})
		}

		// Balanced by construction when the original was; re-validated
		// all the same.
		if err := doubleentry.Validate(mirror); err != nil {
			return pkg.ValidateBusinessError(err, entityType)
		}

		reversal := &mmodel.Transaction{
			ID:         reversalID,
			ExternalID: input.ReversalExternalID,
			EventType:  constant.EventTypeReversal,
			Status:     constant.TransactionStatusPosted,
			Entries:    mirror,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := uc.TransactionRepo.Create(ctx, reversal); err != nil {
			return err
		}

		if err := uc.EntryRepo.CreateAll(ctx, mirror); err != nil {
			return err
		}

		reversalUUID := uuid.MustParse(reversalID)

		err = uc.TransactionRepo.UpdateStatus(ctx, originalID,
			constant.TransactionStatusPosted, constant.TransactionStatusReversed, &reversalUUID)
		if err != nil {
			return err
		}

		if err := uc.createReversedOutbox(ctx, reversal, original.ID); err != nil {
			return err
		}

		result = reversal

		return nil
	})
	if txErr != nil {
		var conflict pkg.EntityConflictError
		if errors.As(txErr, &conflict) && conflict.Code == constant.ErrDuplicateExternalID.Error() {
			if stored, readErr := uc.findExistingByExternalID(ctx, input.ReversalExternalID); readErr == nil && stored != nil {
				logger.Infof("Duplicate reversal external id %s raced; returning stored transaction %s", input.ReversalExternalID, stored.ID)

				return stored, nil
			}
		}

		mopentelemetry.HandleSpanError(&span, "Failed to reverse transaction", txErr)

		logger.Errorf("Error reversing transaction: %v", txErr)

		return nil, txErr
	}

	logger.Infof("Transaction %s reversed by %s", originalID, result.ID)

	return result, nil
}

// distinctAccountIDs collects the distinct account ids of the given
// entries in ascending order.
func distinctAccountIDs(entries []*mmodel.Entry) []uuid.UUID {
	seen := map[string]bool{}

	var ids []uuid.UUID

	for _, e := range entries {
		if !seen[e.AccountID] {
			seen[e.AccountID] = true

			ids = append(ids, uuid.MustParse(e.AccountID))
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return ids
}

// createReversedOutbox persists the TRANSACTION_REVERSED outbox record
// inside the open transaction.
func (uc *UseCase) createReversedOutbox(ctx context.Context, reversal *mmodel.Transaction, originalID string) error {
	payload, err := json.Marshal(mmodel.TransactionReversedEvent{
		TransactionID:         reversal.ID,
		OriginalTransactionID: originalID,
		Timestamp:             reversal.CreatedAt,
	})
	if err != nil {
		return err
	}

	return uc.OutboxRepo.Create(ctx, &mmodel.OutboxEvent{
		ID:          pkg.GenerateUUIDv7().String(),
		AggregateID: reversal.ID,
		EventType:   constant.OutboxEventTransactionReversed,
		Payload:     payload,
		Status:      constant.OutboxStatusPending,
		CreatedAt:   reversal.CreatedAt,
	})
}
