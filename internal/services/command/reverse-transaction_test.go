package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quantora/ledger/internal/services"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func postedTransfer(idA, idB uuid.UUID) (*mmodel.Transaction, []*mmodel.Entry) {
	originalID := pkg.GenerateUUIDv7().String()

	entries := []*mmodel.Entry{
		{
			ID:            pkg.GenerateUUIDv7().String(),
			TransactionID: originalID,
			AccountID:     idA.String(),
			Amount:        decimal.RequireFromString("30.00"),
			Currency:      "BRL",
			Side:          constant.SideCredit,
			EventType:     constant.EventTypeTransfer,
			EventTime:     testNow,
			RecordedAt:    testNow,
		},
		{
			ID:            pkg.GenerateUUIDv7().String(),
			TransactionID: originalID,
			AccountID:     idB.String(),
			Amount:        decimal.RequireFromString("30.00"),
			Currency:      "BRL",
			Side:          constant.SideDebit,
			EventType:     constant.EventTypeTransfer,
			EventTime:     testNow,
			RecordedAt:    testNow,
		},
	}

	return &mmodel.Transaction{
		ID:         originalID,
		ExternalID: "x2",
		EventType:  constant.EventTypeTransfer,
		Status:     constant.TransactionStatusPosted,
		Entries:    entries,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}, entries
}

func TestReverseTransaction_Success(t *testing.T) {
	f := newUseCaseFixture(t)
	idA, idB := sortedTestAccountIDs()

	original, originalEntries := postedTransfer(idA, idB)
	originalID := uuid.MustParse(original.ID)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.txns.EXPECT().FindByExternalID(gomock.Any(), "r2").
		Return(nil, services.ErrDatabaseItemNotFound)
	f.txns.EXPECT().Find(gomock.Any(), originalID).Return(original, nil)
	f.entries.EXPECT().FindByTransaction(gomock.Any(), originalID).Return(originalEntries, nil)

	f.accounts.EXPECT().ListByIDsForUpdate(gomock.Any(), []uuid.UUID{idA, idB}).
		Return([]*mmodel.Account{
			activeAccount(idA, constant.AccountTypeAsset, "BRL"),
			activeAccount(idB, constant.AccountTypeAsset, "BRL"),
		}, nil)

	var reversal *mmodel.Transaction

	f.txns.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txn *mmodel.Transaction) error {
			reversal = txn
			return nil
		})

	var mirror []*mmodel.Entry

	f.entries.EXPECT().CreateAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entries []*mmodel.Entry) error {
			mirror = entries
			return nil
		})

	f.txns.EXPECT().UpdateStatus(gomock.Any(), originalID,
		constant.TransactionStatusPosted, constant.TransactionStatusReversed, gomock.Any()).
		Return(nil)

	var outboxEvent *mmodel.OutboxEvent

	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *mmodel.OutboxEvent) error {
			outboxEvent = e
			return nil
		})

	result, err := f.uc.ReverseTransaction(context.Background(), originalID,
		&mmodel.ReverseTransactionInput{ReversalExternalID: "r2"})

	require.NoError(t, err)
	assert.Equal(t, constant.EventTypeReversal, result.EventType)
	assert.Equal(t, constant.TransactionStatusPosted, result.Status)
	assert.Equal(t, "r2", result.ExternalID)

	require.NotNil(t, reversal)
	require.Len(t, mirror, 2)

	for i, m := range mirror {
		orig := originalEntries[i]

		assert.Equal(t, orig.AccountID, m.AccountID)
		assert.True(t, m.Amount.Equal(orig.Amount))
		assert.Equal(t, constant.OppositeSide(orig.Side), m.Side)
		assert.Equal(t, constant.EventTypeReversal, m.EventType)
		assert.NotEqual(t, orig.ID, m.ID)
	}

	require.NotNil(t, outboxEvent)
	assert.Equal(t, constant.OutboxEventTransactionReversed, outboxEvent.EventType)
	assert.Equal(t, result.ID, outboxEvent.AggregateID)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestReverseTransaction_Idempotent(t *testing.T) {
	f := newUseCaseFixture(t)

	stored := &mmodel.Transaction{
		ID:         pkg.GenerateUUIDv7().String(),
		ExternalID: "r2",
		EventType:  constant.EventTypeReversal,
		Status:     constant.TransactionStatusPosted,
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.txns.EXPECT().FindByExternalID(gomock.Any(), "r2").Return(stored, nil)
	f.entries.EXPECT().FindByTransaction(gomock.Any(), uuid.MustParse(stored.ID)).
		Return([]*mmodel.Entry{{ID: "m1"}, {ID: "m2"}}, nil)

	result, err := f.uc.ReverseTransaction(context.Background(), pkg.GenerateUUIDv7(),
		&mmodel.ReverseTransactionInput{ReversalExternalID: "r2"})

	require.NoError(t, err)
	assert.Equal(t, stored.ID, result.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestReverseTransaction_NotReversible(t *testing.T) {
	f := newUseCaseFixture(t)
	idA, idB := sortedTestAccountIDs()

	original, _ := postedTransfer(idA, idB)
	original.Status = constant.TransactionStatusReversed
	originalID := uuid.MustParse(original.ID)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	f.txns.EXPECT().FindByExternalID(gomock.Any(), "r3").
		Return(nil, services.ErrDatabaseItemNotFound)
	f.txns.EXPECT().Find(gomock.Any(), originalID).Return(original, nil)

	_, err := f.uc.ReverseTransaction(context.Background(), originalID,
		&mmodel.ReverseTransactionInput{ReversalExternalID: "r3"})

	var uo pkg.UnprocessableOperationError
	require.ErrorAs(t, err, &uo)
	assert.Equal(t, constant.ErrTransactionNotReversible.Error(), uo.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestReverseTransaction_OriginalNotFound(t *testing.T) {
	f := newUseCaseFixture(t)

	unknownID := pkg.GenerateUUIDv7()

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	f.txns.EXPECT().FindByExternalID(gomock.Any(), "r4").
		Return(nil, services.ErrDatabaseItemNotFound)
	f.txns.EXPECT().Find(gomock.Any(), unknownID).
		Return(nil, pkg.ValidateBusinessError(constant.ErrTransactionNotFound, "Transaction"))

	_, err := f.uc.ReverseTransaction(context.Background(), unknownID,
		&mmodel.ReverseTransactionInput{ReversalExternalID: "r4"})

	var nf pkg.EntityNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, constant.ErrTransactionNotFound.Error(), nf.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
