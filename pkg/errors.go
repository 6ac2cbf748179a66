package pkg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quantora/ledger/pkg/constant"
)

// EntityNotFoundError indicates that a referenced entity does not exist.
type EntityNotFoundError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e EntityNotFoundError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}

	if strings.TrimSpace(e.EntityType) != "" {
		return fmt.Sprintf("Entity %s not found", e.EntityType)
	}

	if e.Err != nil && strings.TrimSpace(e.Err.Error()) != "" {
		return e.Err.Error()
	}

	return "entity not found"
}

func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError indicates malformed or rule-violating input.
type ValidationError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e ValidationError) Error() string {
	if strings.TrimSpace(e.Code) != "" {
		return e.Code + " - " + e.Message
	}

	return e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// EntityConflictError indicates the request conflicts with current
// entity state (duplicate keys, illegal state transitions).
type EntityConflictError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e EntityConflictError) Error() string {
	if e.Err != nil && strings.TrimSpace(e.Err.Error()) != "" {
		return e.Err.Error()
	}

	return e.Message
}

func (e EntityConflictError) Unwrap() error {
	return e.Err
}

// UnprocessableOperationError indicates an operation that cannot be
// performed against the current state of the aggregate.
type UnprocessableOperationError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e UnprocessableOperationError) Error() string {
	return e.Message
}

func (e UnprocessableOperationError) Unwrap() error {
	return e.Err
}

// InternalServerError wraps unexpected infrastructure failures.
type InternalServerError struct {
	EntityType string
	Code       string
	Title      string
	Message    string
	Err        error
}

func (e InternalServerError) Error() string {
	return e.Message
}

func (e InternalServerError) Unwrap() error {
	return e.Err
}

// ValidateBusinessError turns a coded constant error into the typed
// business error that the HTTP layer knows how to render. Unknown codes
// pass through untouched.
func ValidateBusinessError(err error, entityType string, args ...any) error {
	errorMap := map[error]error{
		constant.ErrInvalidArgument: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidArgument.Error(),
			Title:      "Invalid Argument",
			Message:    "The request contains a malformed or missing field. Verify the payload and try again.",
		},
		constant.ErrAccountNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrAccountNotFound.Error(),
			Title:      "Account Not Found",
			Message:    "The referenced account does not exist. Verify the account id and try again.",
		},
		constant.ErrAccountNotActive: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrAccountNotActive.Error(),
			Title:      "Account Not Active",
			Message:    "The account is blocked or closed and cannot take part in new postings.",
		},
		constant.ErrCurrencyMismatch: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrCurrencyMismatch.Error(),
			Title:      "Currency Mismatch",
			Message:    "The entry currency differs from the account currency.",
		},
		constant.ErrUnbalancedTransaction: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrUnbalancedTransaction.Error(),
			Title:      "Unbalanced Transaction",
			Message:    "Debit and credit totals differ for at least one currency.",
		},
		constant.ErrTooFewEntries: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrTooFewEntries.Error(),
			Title:      "Too Few Entries",
			Message:    "A transaction needs at least two entries.",
		},
		constant.ErrDuplicateExternalID: EntityConflictError{
			EntityType: entityType,
			Code:       constant.ErrDuplicateExternalID.Error(),
			Title:      "Duplicate External ID",
			Message:    "A transaction with this external id already exists.",
		},
		constant.ErrTransactionNotReversible: UnprocessableOperationError{
			EntityType: entityType,
			Code:       constant.ErrTransactionNotReversible.Error(),
			Title:      "Transaction Not Reversible",
			Message:    "Only POSTED transactions can be reversed.",
		},
		constant.ErrTransactionNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrTransactionNotFound.Error(),
			Title:      "Transaction Not Found",
			Message:    "The referenced transaction does not exist. Verify the transaction id and try again.",
		},
		constant.ErrSnapshotCutoffInFuture: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrSnapshotCutoffInFuture.Error(),
			Title:      "Snapshot Cutoff In Future",
			Message:    "The snapshot cutoff instant cannot be in the future.",
		},
		constant.ErrInvalidAccountStateTransition: EntityConflictError{
			EntityType: entityType,
			Code:       constant.ErrInvalidAccountStateTransition.Error(),
			Title:      "Invalid Account State Transition",
			Message:    "The requested account status change is not allowed from the current status.",
		},
		constant.ErrInvalidTransactionTransition: EntityConflictError{
			EntityType: entityType,
			Code:       constant.ErrInvalidTransactionTransition.Error(),
			Title:      "Invalid Transaction State Transition",
			Message:    "The requested transaction status change is not allowed from the current status.",
		},
		constant.ErrCurrencySetMismatch: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrCurrencySetMismatch.Error(),
			Title:      "Currency Set Mismatch",
			Message:    "Every currency appearing among debits must also appear among credits, and vice versa.",
		},
		constant.ErrNonPositiveAmount: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrNonPositiveAmount.Error(),
			Title:      "Non-Positive Amount",
			Message:    "Entry amounts must be strictly positive.",
		},
		constant.ErrNegativeResult: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrNegativeResult.Error(),
			Title:      "Negative Result",
			Message:    "The subtraction result would be negative.",
		},
		constant.ErrMixedTransactionEntries: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrMixedTransactionEntries.Error(),
			Title:      "Mixed Transaction Entries",
			Message:    "All entries must belong to the same transaction.",
		},
		constant.ErrInvalidCurrencyCode: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidCurrencyCode.Error(),
			Title:      "Invalid Currency Code",
			Message:    "The currency must be a three-letter ISO 4217 code.",
		},
		constant.ErrInvalidAccountType: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidAccountType.Error(),
			Title:      "Invalid Account Type",
			Message:    "The account type must be one of ASSET, LIABILITY, EQUITY, REVENUE or EXPENSE.",
		},
		constant.ErrInvalidEventType: ValidationError{
			EntityType: entityType,
			Code:       constant.ErrInvalidEventType.Error(),
			Title:      "Invalid Event Type",
			Message:    "The event category is not recognized.",
		},
		constant.ErrSnapshotAlreadyExists: EntityConflictError{
			EntityType: entityType,
			Code:       constant.ErrSnapshotAlreadyExists.Error(),
			Title:      "Snapshot Already Exists",
			Message:    "A snapshot for this account at this cutoff already exists.",
		},
		constant.ErrEntityNotFound: EntityNotFoundError{
			EntityType: entityType,
			Code:       constant.ErrEntityNotFound.Error(),
			Title:      "Entity Not Found",
			Message:    "No entity was found for the given id.",
		},
		constant.ErrDeadlineExceeded: InternalServerError{
			EntityType: entityType,
			Code:       constant.ErrDeadlineExceeded.Error(),
			Title:      "Deadline Exceeded",
			Message:    "The operation deadline elapsed before completion and the transaction was rolled back.",
		},
		constant.ErrStoreConflict: InternalServerError{
			EntityType: entityType,
			Code:       constant.ErrStoreConflict.Error(),
			Title:      "Store Conflict",
			Message:    "The storage transaction could not be serialized after retries.",
		},
		constant.ErrInternalServer: InternalServerError{
			EntityType: entityType,
			Code:       constant.ErrInternalServer.Error(),
			Title:      "Internal Server Error",
			Message:    "An unexpected error occurred. Try again later.",
		},
	}

	if mapped, found := errorMap[err]; found {
		return mapped
	}

	return err
}

// IsBusinessError reports whether err is one of the typed business
// errors produced by ValidateBusinessError.
func IsBusinessError(err error) bool {
	var (
		notFound      EntityNotFoundError
		validation    ValidationError
		conflict      EntityConflictError
		unprocessable UnprocessableOperationError
	)

	return errors.As(err, &notFound) ||
		errors.As(err, &validation) ||
		errors.As(err, &conflict) ||
		errors.As(err, &unprocessable)
}
