package mmodel

import "time"

// CreateAccountInput is the request payload to create an account.
type CreateAccountInput struct {
	AccountType string         `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Currency    string         `json:"currency" validate:"required,len=3,alpha"`
	Metadata    map[string]any `json:"metadata,omitempty" validate:"omitempty"`
}

// Account is a ledger account. The currency is fixed for life; only the
// status ever changes after creation.
type Account struct {
	ID          string         `json:"id"`
	AccountType string         `json:"accountType"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Accounts is a paginated account listing.
type Accounts struct {
	Items []*Account `json:"items"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
