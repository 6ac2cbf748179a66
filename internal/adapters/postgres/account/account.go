package account

import (
	"time"

	"github.com/quantora/ledger/pkg/mmodel"
)

// AccountPostgreSQLModel represents the account entity in SQL context.
type AccountPostgreSQLModel struct {
	ID          string
	AccountType string
	Currency    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToEntity converts an AccountPostgreSQLModel to the entity Account.
func (t *AccountPostgreSQLModel) ToEntity() *mmodel.Account {
	return &mmodel.Account{
		ID:          t.ID,
		AccountType: t.AccountType,
		Currency:    t.Currency,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// FromEntity converts an entity Account to AccountPostgreSQLModel.
func (t *AccountPostgreSQLModel) FromEntity(account *mmodel.Account) {
	*t = AccountPostgreSQLModel{
		ID:          account.ID,
		AccountType: account.AccountType,
		Currency:    account.Currency,
		Status:      account.Status,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}
