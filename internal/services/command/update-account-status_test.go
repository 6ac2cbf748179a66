package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUpdateAccountStatus_BlockActive(t *testing.T) {
	f := newUseCaseFixture(t)
	id, _ := sortedTestAccountIDs()

	current := activeAccount(id, constant.AccountTypeAsset, "BRL")
	blocked := *current
	blocked.Status = constant.AccountStatusBlocked

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.accounts.EXPECT().ListByIDsForUpdate(gomock.Any(), []uuid.UUID{id}).
		Return([]*mmodel.Account{current}, nil)
	f.accounts.EXPECT().UpdateStatus(gomock.Any(), id, constant.AccountStatusBlocked).
		Return(&blocked, nil)

	updated, err := f.uc.UpdateAccountStatus(context.Background(), id, constant.AccountStatusBlocked)

	require.NoError(t, err)
	assert.Equal(t, constant.AccountStatusBlocked, updated.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateAccountStatus_CloseIsAllowedFromBlocked(t *testing.T) {
	f := newUseCaseFixture(t)
	id, _ := sortedTestAccountIDs()

	current := activeAccount(id, constant.AccountTypeAsset, "BRL")
	current.Status = constant.AccountStatusBlocked

	closed := *current
	closed.Status = constant.AccountStatusClosed

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.accounts.EXPECT().ListByIDsForUpdate(gomock.Any(), []uuid.UUID{id}).
		Return([]*mmodel.Account{current}, nil)
	f.accounts.EXPECT().UpdateStatus(gomock.Any(), id, constant.AccountStatusClosed).
		Return(&closed, nil)

	updated, err := f.uc.UpdateAccountStatus(context.Background(), id, constant.AccountStatusClosed)

	require.NoError(t, err)
	assert.Equal(t, constant.AccountStatusClosed, updated.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateAccountStatus_NoTransitionOutOfClosed(t *testing.T) {
	f := newUseCaseFixture(t)
	id, _ := sortedTestAccountIDs()

	current := activeAccount(id, constant.AccountTypeAsset, "BRL")
	current.Status = constant.AccountStatusClosed

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	f.accounts.EXPECT().ListByIDsForUpdate(gomock.Any(), []uuid.UUID{id}).
		Return([]*mmodel.Account{current}, nil)

	_, err := f.uc.UpdateAccountStatus(context.Background(), id, constant.AccountStatusActive)

	var conflict pkg.EntityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, constant.ErrInvalidAccountStateTransition.Error(), conflict.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateAccountStatus_AccountNotFound(t *testing.T) {
	f := newUseCaseFixture(t)
	id, _ := sortedTestAccountIDs()

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	f.accounts.EXPECT().ListByIDsForUpdate(gomock.Any(), []uuid.UUID{id}).
		Return(nil, nil)

	_, err := f.uc.UpdateAccountStatus(context.Background(), id, constant.AccountStatusBlocked)

	var nf pkg.EntityNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, constant.ErrAccountNotFound.Error(), nf.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
