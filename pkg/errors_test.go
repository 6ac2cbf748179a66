package pkg

import (
	"errors"
	"testing"

	"github.com/quantora/ledger/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestEntityNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errorObj EntityNotFoundError
		expected string
	}{
		{
			name: "EntityType is not empty",
			errorObj: EntityNotFoundError{
				EntityType: "Account",
			},
			expected: "Entity Account not found",
		},
		{
			name: "Message is not empty",
			errorObj: EntityNotFoundError{
				Message: "Custom error message",
			},
			expected: "Custom error message",
		},
		{
			name: "Message is empty, but Err is set",
			errorObj: EntityNotFoundError{
				Err: errors.New("internal error"),
			},
			expected: "internal error",
		},
		{
			name:     "Everything empty",
			errorObj: EntityNotFoundError{},
			expected: "entity not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorObj.Error())
		})
	}
}

func TestEntityNotFoundError_Unwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	err := EntityNotFoundError{Err: innerErr}

	assert.Equal(t, innerErr, err.Unwrap())
	assert.Nil(t, EntityNotFoundError{}.Unwrap())
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		ve       ValidationError
		expected string
	}{
		{
			name:     "When Code is non-empty",
			ve:       ValidationError{Code: "0005", Message: "Unbalanced"},
			expected: "0005 - Unbalanced",
		},
		{
			name:     "When Code is empty",
			ve:       ValidationError{Code: "", Message: "Unbalanced"},
			expected: "Unbalanced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ve.Error())
		})
	}
}

func TestValidateBusinessError_KnownCodes(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected any
	}{
		{"account not found", constant.ErrAccountNotFound, EntityNotFoundError{}},
		{"unbalanced", constant.ErrUnbalancedTransaction, ValidationError{}},
		{"duplicate external id", constant.ErrDuplicateExternalID, EntityConflictError{}},
		{"not reversible", constant.ErrTransactionNotReversible, UnprocessableOperationError{}},
		{"account not active", constant.ErrAccountNotActive, UnprocessableOperationError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBusinessError(tt.input, "Transaction")

			assert.IsType(t, tt.expected, err)
			assert.True(t, IsBusinessError(err))
		})
	}
}

func TestValidateBusinessError_CarriesCode(t *testing.T) {
	err := ValidateBusinessError(constant.ErrUnbalancedTransaction, "Transaction")

	var ve ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, constant.ErrUnbalancedTransaction.Error(), ve.Code)
	assert.Equal(t, "Transaction", ve.EntityType)
	assert.NotEmpty(t, ve.Title)
	assert.NotEmpty(t, ve.Message)
}

func TestValidateBusinessError_UnknownPassesThrough(t *testing.T) {
	unknown := errors.New("some infrastructure error")

	assert.Equal(t, unknown, ValidateBusinessError(unknown, "Account"))
	assert.False(t, IsBusinessError(unknown))
}
