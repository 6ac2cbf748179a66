package query

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
)

// GetTransactionByID retrieves a transaction with its entries and
// metadata.
func (uc *UseCase) GetTransactionByID(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_transaction_by_id")
	defer span.End()

	txn, err := uc.TransactionRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get transaction on repo by id", err)

		logger.Errorf("Error getting transaction: %v", err)

		return nil, err
	}

	entries, err := uc.EntryRepo.FindByTransaction(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get transaction entries", err)

		return nil, err
	}

	txn.Entries = entries

	if uc.MetadataRepo != nil {
		md, err := uc.MetadataRepo.FindByEntity(ctx, reflect.TypeOf(mmodel.Transaction{}).Name(), txn.ID)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to get transaction metadata", err)

			return nil, err
		}

		txn.Metadata = md
	}

	return txn, nil
}
