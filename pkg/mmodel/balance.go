package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a derived account balance at an instant. The amount is
// signed: contra movements can take an account below zero.
type Balance struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	AsOf      time.Time       `json:"asOf"`
}

// BalanceSnapshot is a cached balance at a cutoff instant.
type BalanceSnapshot struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	SnapshotTime time.Time       `json:"snapshotTime"`
	LastEntryID  *string         `json:"lastEntryId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// CreateSnapshotInput triggers a manual snapshot run at the given
// cutoff.
type CreateSnapshotInput struct {
	Cutoff time.Time `json:"cutoff" validate:"required"`
}
