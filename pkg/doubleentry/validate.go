// Package doubleentry holds the pure bookkeeping rules: the balance
// check applied to every transaction before it persists, and the signed
// application of entries to a running balance.
package doubleentry

import (
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// Validate checks that a set of entries forms a legal double-entry
// transaction:
//
//  1. at least two entries;
//  2. every entry amount strictly positive;
//  3. all entries share one owning transaction id;
//  4. each currency appearing among debits appears among credits and
//     vice versa;
//  5. per currency, debit and credit totals are exactly equal at full
//     scale.
func Validate(entries []*mmodel.Entry) error {
	if len(entries) < 2 {
		return constant.ErrTooFewEntries
	}

	transactionID := entries[0].TransactionID

	debits := map[string]decimal.Decimal{}
	credits := map[string]decimal.Decimal{}

	for _, e := range entries {
		if e.TransactionID != transactionID {
			return constant.ErrMixedTransactionEntries
		}

		if !e.Amount.IsPositive() {
			return constant.ErrNonPositiveAmount
		}

		switch e.Side {
		case constant.SideDebit:
			debits[e.Currency] = debits[e.Currency].Add(e.Amount)
		case constant.SideCredit:
			credits[e.Currency] = credits[e.Currency].Add(e.Amount)
		default:
			return constant.ErrInvalidArgument
		}
	}

	for currency := range debits {
		if _, ok := credits[currency]; !ok {
			return constant.ErrCurrencySetMismatch
		}
	}

	for currency := range credits {
		if _, ok := debits[currency]; !ok {
			return constant.ErrCurrencySetMismatch
		}
	}

	for currency, debitTotal := range debits {
		if !debitTotal.Equal(credits[currency]) {
			return constant.ErrUnbalancedTransaction
		}
	}

	return nil
}

// ApplyEntries folds entries into a running balance for an account of
// the given classification. DEBIT increases ASSET and EXPENSE accounts;
// CREDIT increases LIABILITY, EQUITY and REVENUE accounts. Ordering is
// irrelevant because addition commutes.
func ApplyEntries(accountType string, seed decimal.Decimal, entries []*mmodel.Entry) decimal.Decimal {
	balance := seed

	for _, e := range entries {
		increases := constant.DebitIncreases(accountType) == (e.Side == constant.SideDebit)
		if increases {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}

	return balance
}
