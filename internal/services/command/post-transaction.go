package command

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sort"

	"github.com/google/uuid"
	"github.com/quantora/ledger/internal/services"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/doubleentry"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/money"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/shopspring/decimal"
)

// PostTransaction atomically creates a balanced multi-entry transaction
// together with its TRANSACTION_POSTED outbox record. The external id
// is the idempotency key: reposting the same id returns the stored
// transaction untouched.
func (uc *UseCase) PostTransaction(ctx context.Context, input *mmodel.PostTransactionInput) (*mmodel.Transaction, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.post_transaction")
	defer span.End()

	entityType := reflect.TypeOf(mmodel.Transaction{}).Name()

	logger.Infof("Trying to post transaction with external id %s", input.ExternalID)

	if !constant.IsValidEventType(input.EventType) {
		err := pkg.ValidateBusinessError(constant.ErrInvalidEventType, entityType)

		mopentelemetry.HandleSpanError(&span, "Failed to validate event type", err)

		return nil, err
	}

	drafts, accountIDs, err := parseEntryDrafts(input.Entries)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to parse entry drafts", err)

		return nil, pkg.ValidateBusinessError(err, entityType)
	}

	var (
		result      *mmodel.Transaction
		freshlyMade bool
	)

	txErr := uc.runInTransaction(ctx, entityType, func(ctx context.Context) error {
		existing, err := uc.findExistingByExternalID(ctx, input.ExternalID)
		if err != nil {
			return err
		}

		if existing != nil {
			result = existing
			freshlyMade = false

			return nil
		}

		accounts, err := uc.lockActiveAccounts(ctx, accountIDs)
		if err != nil {
			return err
		}

		for _, draft := range drafts {
			if accounts[draft.accountID].Currency != draft.currency {
				return pkg.ValidateBusinessError(constant.ErrCurrencyMismatch, entityType)
			}
		}

		now := uc.now()
		transactionID := pkg.GenerateUUIDv7().String()

		entries := make([]*mmodel.Entry, 0, len(drafts))
		for _, draft := range drafts {
			entries = append(entries, &mmodel.Entry{
				ID:            pkg.GenerateUUIDv7().String(),
				TransactionID: transactionID,
				AccountID:     draft.accountID.String(),
				Amount:        draft.amount,
				Currency:      draft.currency,
				Side:          draft.side,
				EventType:     input.EventType,
				EventTime:     now,
				RecordedAt:    now,
			})
		}

		if err := doubleentry.Validate(entries); err != nil {
			return pkg.ValidateBusinessError(err, entityType)
		}

		txn := &mmodel.Transaction{
			ID:         transactionID,
			ExternalID: input.ExternalID,
			EventType:  input.EventType,
			Status:     constant.TransactionStatusPosted,
			Entries:    entries,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := uc.TransactionRepo.Create(ctx, txn); err != nil {
			return err
		}

		if err := uc.EntryRepo.CreateAll(ctx, entries); err != nil {
			return err
		}

		if err := uc.createPostedOutbox(ctx, txn); err != nil {
			return err
		}

		result = txn
		freshlyMade = true

		return nil
	})
	if txErr != nil {
		// The unique index can fire when two posters race past the
		// idempotency read with the same external id. The loser re-reads
		// once and answers idempotently.
		var conflict pkg.EntityConflictError
		if errors.As(txErr, &conflict) && conflict.Code == constant.ErrDuplicateExternalID.Error() {
			if stored, readErr := uc.findExistingByExternalID(ctx, input.ExternalID); readErr == nil && stored != nil {
				logger.Infof("Duplicate external id %s raced; returning stored transaction %s", input.ExternalID, stored.ID)

				return stored, nil
			}
		}

		mopentelemetry.HandleSpanError(&span, "Failed to post transaction", txErr)

		logger.Errorf("Error posting transaction: %v", txErr)

		return nil, txErr
	}

	if freshlyMade && len(input.Metadata) > 0 {
		md, err := uc.CreateMetadata(ctx, entityType, result.ID, input.Metadata)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to create transaction metadata", err)

			logger.Errorf("Error creating transaction metadata: %v", err)

			return nil, err
		}

		result.Metadata = md
	}

	logger.Infof("Transaction %s posted with %d entries", result.ID, len(result.Entries))

	return result, nil
}

// parsedDraft is a validated input entry with its amount rescaled to
// the currency's fractional digits.
type parsedDraft struct {
	accountID uuid.UUID
	amount    decimal.Decimal
	currency  string
	side      string
}

// parseEntryDrafts validates the raw entry inputs and collects the
// distinct affected account ids in ascending order, the lock order
// shared by every writer.
func parseEntryDrafts(inputs []mmodel.EntryInput) ([]parsedDraft, []uuid.UUID, error) {
	if len(inputs) < 2 {
		return nil, nil, constant.ErrTooFewEntries
	}

	drafts := make([]parsedDraft, 0, len(inputs))
	seen := map[uuid.UUID]bool{}

	var ids []uuid.UUID

	for _, in := range inputs {
		accountID, err := uuid.Parse(in.AccountID)
		if err != nil {
			return nil, nil, constant.ErrInvalidArgument
		}

		amount, err := money.NewFromString(in.Amount, in.Currency)
		if err != nil {
			return nil, nil, err
		}

		if !amount.IsPositive() {
			return nil, nil, constant.ErrNonPositiveAmount
		}

		if !constant.IsValidSide(in.Side) {
			return nil, nil, constant.ErrInvalidArgument
		}

		drafts = append(drafts, parsedDraft{
			accountID: accountID,
			amount:    amount.Amount(),
			currency:  in.Currency,
			side:      in.Side,
		})

		if !seen[accountID] {
			seen[accountID] = true

			ids = append(ids, accountID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return drafts, ids, nil
}

// findExistingByExternalID loads a stored transaction with its entries
// and metadata, or nil when the external id is unknown.
func (uc *UseCase) findExistingByExternalID(ctx context.Context, externalID string) (*mmodel.Transaction, error) {
	existing, err := uc.TransactionRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, services.ErrDatabaseItemNotFound) {
			return nil, nil
		}

		return nil, err
	}

	entries, err := uc.EntryRepo.FindByTransaction(ctx, uuid.MustParse(existing.ID))
	if err != nil {
		return nil, err
	}

	existing.Entries = entries

	return existing, nil
}

// lockActiveAccounts write-locks the given accounts in ascending id
// order and verifies every one exists and is ACTIVE.
func (uc *UseCase) lockActiveAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*mmodel.Account, error) {
	entityType := "Account"

	accounts, err := uc.AccountRepo.ListByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(ids) {
		return nil, pkg.ValidateBusinessError(constant.ErrAccountNotFound, entityType)
	}

	byID := make(map[uuid.UUID]*mmodel.Account, len(accounts))

	for _, acc := range accounts {
		if acc.Status != constant.AccountStatusActive {
			return nil, pkg.ValidateBusinessError(constant.ErrAccountNotActive, entityType)
		}

		byID[uuid.MustParse(acc.ID)] = acc
	}

	return byID, nil
}

// createPostedOutbox serializes the TRANSACTION_POSTED payload and
// persists the PENDING outbox record inside the open transaction, so
// the event exists iff the ledger rows exist.
func (uc *UseCase) createPostedOutbox(ctx context.Context, txn *mmodel.Transaction) error {
	queueEntries := make([]mmodel.QueueEntry, 0, len(txn.Entries))
	for _, e := range txn.Entries {
		queueEntries = append(queueEntries, mmodel.QueueEntry{
			AccountID: e.AccountID,
			Amount:    e.Amount.String(),
			Currency:  e.Currency,
			Side:      e.Side,
		})
	}

	payload, err := json.Marshal(mmodel.TransactionPostedEvent{
		TransactionID: txn.ID,
		ExternalID:    txn.ExternalID,
		EventType:     txn.EventType,
		Entries:       queueEntries,
		Timestamp:     txn.CreatedAt,
	})
	if err != nil {
		return err
	}

	return uc.OutboxRepo.Create(ctx, &mmodel.OutboxEvent{
		ID:          pkg.GenerateUUIDv7().String(),
		AggregateID: txn.ID,
		EventType:   constant.OutboxEventTransactionPosted,
		Payload:     payload,
		Status:      constant.OutboxStatusPending,
		CreatedAt:   txn.CreatedAt,
	})
}
