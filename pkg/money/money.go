package money

import (
	"regexp"

	"github.com/quantora/ledger/pkg/constant"
	"github.com/shopspring/decimal"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// minorUnits maps ISO 4217 codes to their default fractional digits.
// Codes absent from the map use two digits.
var minorUnits = map[string]int32{
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"CLF": 4, "UYW": 4,
}

// Scale returns the fractional digits used for the given currency code.
func Scale(currency string) int32 {
	if digits, ok := minorUnits[currency]; ok {
		return digits
	}

	return 2
}

// Money is an exact, non-negative amount in a single currency. Amounts
// are kept at the currency's ISO default scale; inputs are rescaled
// half-up on construction.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New builds a Money value, validating the currency code and rejecting
// negative amounts.
func New(amount decimal.Decimal, currency string) (Money, error) {
	if !currencyCodePattern.MatchString(currency) {
		return Money{}, constant.ErrInvalidCurrencyCode
	}

	if amount.IsNegative() {
		return Money{}, constant.ErrNegativeResult
	}

	return Money{
		amount:   amount.Round(Scale(currency)),
		currency: currency,
	}, nil
}

// NewFromString parses a decimal string into a Money value.
func NewFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, constant.ErrInvalidArgument
	}

	return New(d, currency)
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	m, _ := New(decimal.Zero, currency)
	return m
}

// Amount returns the scaled decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO 4217 code.
func (m Money) Currency() string { return m.currency }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, constant.ErrCurrencyMismatch
	}

	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other, failing when the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, constant.ErrCurrencyMismatch
	}

	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, constant.ErrNegativeResult
	}

	return Money{amount: result, currency: m.currency}, nil
}

// MulDecimal returns m scaled by the given factor, rescaled half-up to
// the currency's fractional digits.
func (m Money) MulDecimal(factor decimal.Decimal) (Money, error) {
	result := m.amount.Mul(factor)
	if result.IsNegative() {
		return Money{}, constant.ErrNegativeResult
	}

	return Money{amount: result.Round(Scale(m.currency)), currency: m.currency}, nil
}

// Cmp compares two amounts of the same currency: -1 when m < other,
// 0 when equal, +1 when m > other.
func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, constant.ErrCurrencyMismatch
	}

	return m.amount.Cmp(other.amount), nil
}

// Equal reports same currency and equal scaled amount.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount at currency scale, e.g. "100.00 BRL".
func (m Money) String() string {
	return m.amount.StringFixed(Scale(m.currency)) + " " + m.currency
}
