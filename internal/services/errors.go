package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
)

// ErrDatabaseItemNotFound is thrown when an informed item was not found.
var ErrDatabaseItemNotFound = errors.New("errDatabaseItemNotFound")

// Postgres error classes used by ValidatePGError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ValidatePGError validates a pgError and returns the matching business
// error.
func ValidatePGError(pgErr *pgconn.PgError, entityType string, args ...any) error {
	switch pgErr.ConstraintName {
	case "transaction_external_id_key":
		return pkg.ValidateBusinessError(constant.ErrDuplicateExternalID, entityType)
	case "balance_snapshot_account_id_snapshot_time_key":
		return pkg.ValidateBusinessError(constant.ErrSnapshotAlreadyExists, entityType)
	case "entry_account_id_fkey", "balance_snapshot_account_id_fkey":
		return pkg.ValidateBusinessError(constant.ErrAccountNotFound, entityType)
	case "entry_transaction_id_fkey":
		return pkg.ValidateBusinessError(constant.ErrTransactionNotFound, entityType)
	default:
		if pgErr.Code == pgUniqueViolation {
			return pkg.ValidateBusinessError(constant.ErrInvalidArgument, entityType)
		}

		return pgErr
	}
}
