package command

import (
	"context"
	"testing"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateAccount_Success(t *testing.T) {
	f := newUseCaseFixture(t)

	f.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, acc *mmodel.Account) (*mmodel.Account, error) {
			return acc, nil
		})

	created, err := f.uc.CreateAccount(context.Background(), &mmodel.CreateAccountInput{
		AccountType: constant.AccountTypeAsset,
		Currency:    "BRL",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, constant.AccountStatusActive, created.Status)
	assert.Equal(t, constant.AccountTypeAsset, created.AccountType)
	assert.Equal(t, "BRL", created.Currency)
	assert.Equal(t, testNow, created.CreatedAt)
}

func TestCreateAccount_InvalidType(t *testing.T) {
	f := newUseCaseFixture(t)

	_, err := f.uc.CreateAccount(context.Background(), &mmodel.CreateAccountInput{
		AccountType: "SAVINGS",
		Currency:    "BRL",
	})

	var ve pkg.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, constant.ErrInvalidAccountType.Error(), ve.Code)
}

func TestCreateAccount_InvalidCurrency(t *testing.T) {
	f := newUseCaseFixture(t)

	_, err := f.uc.CreateAccount(context.Background(), &mmodel.CreateAccountInput{
		AccountType: constant.AccountTypeAsset,
		Currency:    "REAL",
	})

	var ve pkg.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, constant.ErrInvalidCurrencyCode.Error(), ve.Code)
}
