package transaction

import (
	"database/sql"
	"time"

	"github.com/quantora/ledger/pkg/mmodel"
)

// TransactionPostgreSQLModel represents the transaction aggregate root
// in SQL context.
type TransactionPostgreSQLModel struct {
	ID         string
	ExternalID string
	EventType  string
	Status     string
	ReversedBy sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ToEntity converts a TransactionPostgreSQLModel to the entity
// Transaction. Entries are attached by the caller.
func (t *TransactionPostgreSQLModel) ToEntity() *mmodel.Transaction {
	txn := &mmodel.Transaction{
		ID:         t.ID,
		ExternalID: t.ExternalID,
		EventType:  t.EventType,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}

	if t.ReversedBy.Valid {
		reversedBy := t.ReversedBy.String
		txn.ReversedBy = &reversedBy
	}

	return txn
}

// FromEntity converts an entity Transaction to
// TransactionPostgreSQLModel.
func (t *TransactionPostgreSQLModel) FromEntity(txn *mmodel.Transaction) {
	*t = TransactionPostgreSQLModel{
		ID:         txn.ID,
		ExternalID: txn.ExternalID,
		EventType:  txn.EventType,
		Status:     txn.Status,
		CreatedAt:  txn.CreatedAt,
		UpdatedAt:  txn.UpdatedAt,
	}

	if txn.ReversedBy != nil {
		t.ReversedBy = sql.NullString{String: *txn.ReversedBy, Valid: true}
	}
}
