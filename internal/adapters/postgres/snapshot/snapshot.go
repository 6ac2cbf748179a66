package snapshot

import (
	"database/sql"
	"time"

	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// SnapshotPostgreSQLModel represents a balance snapshot in SQL context.
type SnapshotPostgreSQLModel struct {
	ID           string
	AccountID    string
	Amount       decimal.Decimal
	Currency     string
	SnapshotTime time.Time
	LastEntryID  sql.NullString
	CreatedAt    time.Time
}

// ToEntity converts a SnapshotPostgreSQLModel to the entity
// BalanceSnapshot.
func (t *SnapshotPostgreSQLModel) ToEntity() *mmodel.BalanceSnapshot {
	s := &mmodel.BalanceSnapshot{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Amount:       t.Amount,
		Currency:     t.Currency,
		SnapshotTime: t.SnapshotTime,
		CreatedAt:    t.CreatedAt,
	}

	if t.LastEntryID.Valid {
		lastEntryID := t.LastEntryID.String
		s.LastEntryID = &lastEntryID
	}

	return s
}

// FromEntity converts an entity BalanceSnapshot to
// SnapshotPostgreSQLModel.
func (t *SnapshotPostgreSQLModel) FromEntity(s *mmodel.BalanceSnapshot) {
	*t = SnapshotPostgreSQLModel{
		ID:           s.ID,
		AccountID:    s.AccountID,
		Amount:       s.Amount,
		Currency:     s.Currency,
		SnapshotTime: s.SnapshotTime,
		CreatedAt:    s.CreatedAt,
	}

	if s.LastEntryID != nil {
		t.LastEntryID = sql.NullString{String: *s.LastEntryID, Valid: true}
	}
}
