package entry

import (
	"time"

	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// EntryPostgreSQLModel represents one ledger entry in SQL context.
// Rows are append-only; there is no update path.
type EntryPostgreSQLModel struct {
	ID            string
	TransactionID string
	AccountID     string
	Amount        decimal.Decimal
	Currency      string
	Side          string
	EventType     string
	EventTime     time.Time
	RecordedAt    time.Time
}

// ToEntity converts an EntryPostgreSQLModel to the entity Entry.
func (t *EntryPostgreSQLModel) ToEntity() *mmodel.Entry {
	return &mmodel.Entry{
		ID:            t.ID,
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Side:          t.Side,
		EventType:     t.EventType,
		EventTime:     t.EventTime,
		RecordedAt:    t.RecordedAt,
	}
}

// FromEntity converts an entity Entry to EntryPostgreSQLModel.
func (t *EntryPostgreSQLModel) FromEntity(e *mmodel.Entry) {
	*t = EntryPostgreSQLModel{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Side:          e.Side,
		EventType:     e.EventType,
		EventTime:     e.EventTime,
		RecordedAt:    e.RecordedAt,
	}
}
