package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryInput is one leg of a posting command.
type EntryInput struct {
	AccountID string `json:"accountId" validate:"required,uuid"`
	Amount    string `json:"amount" validate:"required"`
	Currency  string `json:"currency" validate:"required,len=3,alpha"`
	Side      string `json:"side" validate:"required,oneof=DEBIT CREDIT"`
}

// PostTransactionInput is the request payload to post a transaction.
// ExternalID is the caller-chosen idempotency key.
type PostTransactionInput struct {
	ExternalID string         `json:"externalId" validate:"required,max=256"`
	EventType  string         `json:"eventType" validate:"required"`
	Entries    []EntryInput   `json:"entries" validate:"required,min=2,dive"`
	Metadata   map[string]any `json:"metadata,omitempty" validate:"omitempty"`
}

// ReverseTransactionInput is the request payload to reverse a posted
// transaction.
type ReverseTransactionInput struct {
	ReversalExternalID string `json:"reversalExternalId" validate:"required,max=256"`
}

// Entry is one immutable leg of a posted transaction.
type Entry struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Side          string          `json:"side"`
	EventType     string          `json:"eventType"`
	EventTime     time.Time       `json:"eventTime"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// Transaction is the aggregate root grouping at least two entries.
type Transaction struct {
	ID         string         `json:"id"`
	ExternalID string         `json:"externalId"`
	EventType  string         `json:"eventType"`
	Status     string         `json:"status"`
	ReversedBy *string        `json:"reversedBy,omitempty"`
	Entries    []*Entry       `json:"entries"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
