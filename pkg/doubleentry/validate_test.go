package doubleentry

import (
	"testing"

	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testEntry(txnID, currency, side, amount string) *mmodel.Entry {
	return &mmodel.Entry{
		TransactionID: txnID,
		Currency:      currency,
		Side:          side,
		Amount:        decimal.RequireFromString(amount),
	}
}

func TestValidate_Balanced(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
		testEntry("t1", "BRL", constant.SideCredit, "100.00"),
	}

	assert.NoError(t, Validate(entries))
}

func TestValidate_BalancedMultiCurrency(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
		testEntry("t1", "BRL", constant.SideCredit, "60.00"),
		testEntry("t1", "BRL", constant.SideCredit, "40.00"),
		testEntry("t1", "USD", constant.SideDebit, "5.00"),
		testEntry("t1", "USD", constant.SideCredit, "5.00"),
	}

	assert.NoError(t, Validate(entries))
}

func TestValidate_TooFewEntries(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
	}

	assert.ErrorIs(t, Validate(entries), constant.ErrTooFewEntries)
	assert.ErrorIs(t, Validate(nil), constant.ErrTooFewEntries)
}

func TestValidate_Unbalanced(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
		testEntry("t1", "BRL", constant.SideCredit, "50.00"),
	}

	assert.ErrorIs(t, Validate(entries), constant.ErrUnbalancedTransaction)
}

func TestValidate_UnbalancedAtFullScale(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.001"),
		testEntry("t1", "BRL", constant.SideCredit, "100.00"),
	}

	assert.ErrorIs(t, Validate(entries), constant.ErrUnbalancedTransaction)
}

func TestValidate_CurrencySetMismatch(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
		testEntry("t1", "USD", constant.SideCredit, "100.00"),
	}

	assert.ErrorIs(t, Validate(entries), constant.ErrCurrencySetMismatch)
}

func TestValidate_NonPositiveAmount(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "0"),
		testEntry("t1", "BRL", constant.SideCredit, "0"),
	}

	assert.ErrorIs(t, Validate(entries), constant.ErrNonPositiveAmount)
}

func TestValidate_MixedTransactions(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
		testEntry("t2", "BRL", constant.SideCredit, "100.00"),
	}

	assert.ErrorIs(t, Validate(entries), constant.ErrMixedTransactionEntries)
}

func TestApplyEntries_SignsByClassification(t *testing.T) {
	debit := testEntry("t1", "BRL", constant.SideDebit, "100.00")
	credit := testEntry("t1", "BRL", constant.SideCredit, "30.00")

	tests := []struct {
		accountType string
		expected    string
	}{
		{constant.AccountTypeAsset, "70"},
		{constant.AccountTypeExpense, "70"},
		{constant.AccountTypeLiability, "-70"},
		{constant.AccountTypeEquity, "-70"},
		{constant.AccountTypeRevenue, "-70"},
	}

	for _, tt := range tests {
		t.Run(tt.accountType, func(t *testing.T) {
			balance := ApplyEntries(tt.accountType, decimal.Zero, []*mmodel.Entry{debit, credit})
			assert.True(t, balance.Equal(decimal.RequireFromString(tt.expected)),
				"got %s, want %s", balance, tt.expected)
		})
	}
}

func TestApplyEntries_Commutes(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "100.00"),
		testEntry("t1", "BRL", constant.SideCredit, "30.00"),
		testEntry("t1", "BRL", constant.SideDebit, "5.50"),
	}
	reversed := []*mmodel.Entry{entries[2], entries[1], entries[0]}

	forward := ApplyEntries(constant.AccountTypeAsset, decimal.Zero, entries)
	backward := ApplyEntries(constant.AccountTypeAsset, decimal.Zero, reversed)

	assert.True(t, forward.Equal(backward))
}

func TestApplyEntries_Seeded(t *testing.T) {
	entries := []*mmodel.Entry{
		testEntry("t1", "BRL", constant.SideDebit, "25.00"),
	}

	balance := ApplyEntries(constant.AccountTypeAsset, decimal.RequireFromString("1000.00"), entries)
	assert.True(t, balance.Equal(decimal.RequireFromString("1025.00")))
}
