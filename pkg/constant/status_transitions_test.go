package constant

import "testing"

func TestCanTransitionAccount(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{AccountStatusActive, AccountStatusBlocked, true},
		{AccountStatusBlocked, AccountStatusActive, true},
		{AccountStatusActive, AccountStatusClosed, true},
		{AccountStatusBlocked, AccountStatusClosed, true},
		{AccountStatusClosed, AccountStatusActive, false},
		{AccountStatusClosed, AccountStatusBlocked, false},
		{AccountStatusActive, AccountStatusActive, false},
		{"UNKNOWN", AccountStatusActive, false},
	}

	for _, tt := range tests {
		if got := CanTransitionAccount(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransitionAccount(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestCanTransitionTransaction(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{TransactionStatusPending, TransactionStatusPosted, true},
		{TransactionStatusPending, TransactionStatusFailed, true},
		{TransactionStatusPosted, TransactionStatusReversed, true},
		{TransactionStatusReversed, TransactionStatusPosted, false},
		{TransactionStatusFailed, TransactionStatusPosted, false},
		{TransactionStatusPosted, TransactionStatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransitionTransaction(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransitionTransaction(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestOppositeSide(t *testing.T) {
	if OppositeSide(SideDebit) != SideCredit {
		t.Error("DEBIT should flip to CREDIT")
	}

	if OppositeSide(SideCredit) != SideDebit {
		t.Error("CREDIT should flip to DEBIT")
	}
}

func TestDebitIncreases(t *testing.T) {
	for _, accountType := range []string{AccountTypeAsset, AccountTypeExpense} {
		if !DebitIncreases(accountType) {
			t.Errorf("debit should increase %s", accountType)
		}
	}

	for _, accountType := range []string{AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue} {
		if DebitIncreases(accountType) {
			t.Errorf("debit should decrease %s", accountType)
		}
	}
}
