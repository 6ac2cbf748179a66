package constant

import "errors"

// Business error codes. The code string is the stable identifier that
// crosses the API boundary; pkg.ValidateBusinessError attaches title and
// message to it.
var (
	ErrInvalidArgument               = errors.New("0001")
	ErrAccountNotFound               = errors.New("0002")
	ErrAccountNotActive              = errors.New("0003")
	ErrCurrencyMismatch              = errors.New("0004")
	ErrUnbalancedTransaction         = errors.New("0005")
	ErrTooFewEntries                 = errors.New("0006")
	ErrDuplicateExternalID           = errors.New("0007")
	ErrTransactionNotReversible      = errors.New("0008")
	ErrTransactionNotFound           = errors.New("0009")
	ErrSnapshotCutoffInFuture        = errors.New("0010")
	ErrInvalidAccountStateTransition = errors.New("0011")
	ErrInvalidTransactionTransition  = errors.New("0012")
	ErrCurrencySetMismatch           = errors.New("0013")
	ErrNonPositiveAmount             = errors.New("0014")
	ErrNegativeResult                = errors.New("0015")
	ErrMixedTransactionEntries       = errors.New("0016")
	ErrInvalidCurrencyCode           = errors.New("0017")
	ErrInvalidAccountType            = errors.New("0018")
	ErrInvalidEventType              = errors.New("0019")
	ErrSnapshotAlreadyExists         = errors.New("0020")
	ErrEntityNotFound                = errors.New("0021")
	ErrDeadlineExceeded              = errors.New("0022")
	ErrStoreConflict                 = errors.New("0023")
	ErrBusPublishFailure             = errors.New("0024")
	ErrInternalServer                = errors.New("0025")
)
