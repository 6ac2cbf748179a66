package command

import (
	"context"
	"testing"
	"time"

	"github.com/quantora/ledger/internal/services"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateSnapshots_FutureCutoffRejected(t *testing.T) {
	f := newUseCaseFixture(t)

	_, err := f.uc.CreateSnapshots(context.Background(), testNow.Add(time.Hour))

	var ve pkg.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, constant.ErrSnapshotCutoffInFuture.Error(), ve.Code)
}

func TestCreateSnapshots_ComputesFromHistory(t *testing.T) {
	f := newUseCaseFixture(t)
	idA, _ := sortedTestAccountIDs()

	cutoff := testNow.Add(-time.Hour)
	acc := activeAccount(idA, constant.AccountTypeAsset, "BRL")

	f.accounts.EXPECT().ListActive(gomock.Any()).Return([]*mmodel.Account{acc}, nil)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.snaps.EXPECT().ExistsAt(gomock.Any(), idA, cutoff).Return(false, nil)
	f.snaps.EXPECT().FindLatest(gomock.Any(), idA, cutoff).
		Return(nil, services.ErrDatabaseItemNotFound)
	f.entries.EXPECT().FindPostedByAccount(gomock.Any(), idA, nil, cutoff).
		Return([]*mmodel.Entry{
			{ID: "e1", Amount: decimal.RequireFromString("100.00"), Side: constant.SideDebit},
			{ID: "e2", Amount: decimal.RequireFromString("40.00"), Side: constant.SideCredit},
		}, nil)

	var created *mmodel.BalanceSnapshot

	f.snaps.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *mmodel.BalanceSnapshot) error {
			created = s
			return nil
		})

	count, err := f.uc.CreateSnapshots(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NotNil(t, created)
	assert.Equal(t, acc.ID, created.AccountID)
	assert.Equal(t, "BRL", created.Currency)
	assert.Equal(t, cutoff, created.SnapshotTime)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("60.00")))
	require.NotNil(t, created.LastEntryID)
	assert.Equal(t, "e2", *created.LastEntryID)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateSnapshots_SeedsFromPriorSnapshot(t *testing.T) {
	f := newUseCaseFixture(t)
	idA, _ := sortedTestAccountIDs()

	cutoff := testNow.Add(-time.Hour)
	priorTime := cutoff.Add(-24 * time.Hour)
	acc := activeAccount(idA, constant.AccountTypeAsset, "BRL")

	prior := &mmodel.BalanceSnapshot{
		ID:           pkg.GenerateUUIDv7().String(),
		AccountID:    acc.ID,
		Amount:       decimal.RequireFromString("1000.00"),
		Currency:     "BRL",
		SnapshotTime: priorTime,
	}

	f.accounts.EXPECT().ListActive(gomock.Any()).Return([]*mmodel.Account{acc}, nil)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.snaps.EXPECT().ExistsAt(gomock.Any(), idA, cutoff).Return(false, nil)
	f.snaps.EXPECT().FindLatest(gomock.Any(), idA, cutoff).Return(prior, nil)

	// The window opens strictly after the prior snapshot time.
	f.entries.EXPECT().FindPostedByAccount(gomock.Any(), idA, &priorTime, cutoff).
		Return([]*mmodel.Entry{
			{ID: "e3", Amount: decimal.RequireFromString("500.00"), Side: constant.SideDebit},
		}, nil)

	var created *mmodel.BalanceSnapshot

	f.snaps.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *mmodel.BalanceSnapshot) error {
			created = s
			return nil
		})

	count, err := f.uc.CreateSnapshots(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.NotNil(t, created)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("1500.00")))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateSnapshots_SkipsExistingCutoff(t *testing.T) {
	f := newUseCaseFixture(t)
	idA, _ := sortedTestAccountIDs()

	cutoff := testNow.Add(-time.Hour)
	acc := activeAccount(idA, constant.AccountTypeAsset, "BRL")

	f.accounts.EXPECT().ListActive(gomock.Any()).Return([]*mmodel.Account{acc}, nil)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.snaps.EXPECT().ExistsAt(gomock.Any(), idA, cutoff).Return(true, nil)

	count, err := f.uc.CreateSnapshots(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateSnapshots_OneFailureDoesNotAbortBatch(t *testing.T) {
	f := newUseCaseFixture(t)
	idA, idB := sortedTestAccountIDs()

	cutoff := testNow.Add(-time.Hour)
	accA := activeAccount(idA, constant.AccountTypeAsset, "BRL")
	accB := activeAccount(idB, constant.AccountTypeLiability, "BRL")

	f.accounts.EXPECT().ListActive(gomock.Any()).
		Return([]*mmodel.Account{accA, accB}, nil)

	// First account fails inside its own transaction.
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	// Second account succeeds in a fresh one.
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	gomock.InOrder(
		f.snaps.EXPECT().ExistsAt(gomock.Any(), idA, cutoff).
			Return(false, assert.AnError),
		f.snaps.EXPECT().ExistsAt(gomock.Any(), idB, cutoff).Return(false, nil),
	)

	f.snaps.EXPECT().FindLatest(gomock.Any(), idB, cutoff).
		Return(nil, services.ErrDatabaseItemNotFound)
	f.entries.EXPECT().FindPostedByAccount(gomock.Any(), idB, nil, cutoff).
		Return(nil, nil)
	f.snaps.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	count, err := f.uc.CreateSnapshots(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
