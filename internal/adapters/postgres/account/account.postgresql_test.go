package account

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mlog"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mpostgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*AccountPostgreSQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return NewAccountPostgreSQLRepository(mpostgres.NewWithDB(db, &mlog.NoneLogger{})), mock
}

func accountRows(accounts ...*mmodel.Account) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "account_type", "currency", "status", "created_at", "updated_at"})

	for _, acc := range accounts {
		rows.AddRow(acc.ID, acc.AccountType, acc.Currency, acc.Status, acc.CreatedAt, acc.UpdatedAt)
	}

	return rows
}

func TestListByIDsForUpdate_LocksInAscendingIDOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now().UTC()
	idA := uuid.MustParse("018f0000-0000-7000-8000-000000000001")
	idB := uuid.MustParse("018f0000-0000-7000-8000-000000000002")

	accA := &mmodel.Account{ID: idA.String(), AccountType: constant.AccountTypeAsset, Currency: "BRL", Status: constant.AccountStatusActive, CreatedAt: now, UpdatedAt: now}
	accB := &mmodel.Account{ID: idB.String(), AccountType: constant.AccountTypeLiability, Currency: "BRL", Status: constant.AccountStatusActive, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(`SELECT .+ FROM account WHERE id = ANY\(\$1\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(accountRows(accA, accB))

	accounts, err := repo.ListByIDsForUpdate(context.Background(), []uuid.UUID{idA, idB})

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, idA.String(), accounts[0].ID)
	assert.Equal(t, idB.String(), accounts[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM account WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(accountRows())

	_, err := repo.Find(context.Background(), id)

	var nf pkg.EntityNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, constant.ErrAccountNotFound.Error(), nf.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertsAllColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now().UTC()
	acc := &mmodel.Account{
		ID:          uuid.NewString(),
		AccountType: constant.AccountTypeAsset,
		Currency:    "BRL",
		Status:      constant.AccountStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO account`).
		WithArgs(acc.ID, acc.AccountType, acc.Currency, acc.Status, acc.CreatedAt, acc.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), acc)

	require.NoError(t, err)
	assert.Equal(t, acc.ID, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_ReturnsUpdatedRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now().UTC()
	id := uuid.New()
	updated := &mmodel.Account{
		ID:          id.String(),
		AccountType: constant.AccountTypeAsset,
		Currency:    "BRL",
		Status:      constant.AccountStatusBlocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectQuery(`UPDATE account SET status = \$1`).
		WithArgs(constant.AccountStatusBlocked, sqlmock.AnyArg(), id).
		WillReturnRows(accountRows(updated))

	result, err := repo.UpdateStatus(context.Background(), id, constant.AccountStatusBlocked)

	require.NoError(t, err)
	assert.Equal(t, constant.AccountStatusBlocked, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
