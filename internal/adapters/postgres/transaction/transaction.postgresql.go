package transaction

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quantora/ledger/internal/services"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/dbtx"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mpostgres"
)

// Repository provides an interface for operations related to
// transaction aggregates.
//
//go:generate mockgen --destination=transaction.mock.go --package=transaction . Repository
type Repository interface {
	Create(ctx context.Context, txn *mmodel.Transaction) error
	Find(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error)
	FindByExternalID(ctx context.Context, externalID string) (*mmodel.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, reversedBy *uuid.UUID) error
}

// TransactionPostgreSQLRepository is a Postgresql-specific
// implementation of the transaction Repository.
type TransactionPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewTransactionPostgreSQLRepository returns a new instance of
// TransactionPostgreSQLRepository using the given Postgres connection.
func NewTransactionPostgreSQLRepository(pc *mpostgres.PostgresConnection) *TransactionPostgreSQLRepository {
	r := &TransactionPostgreSQLRepository{
		connection: pc,
		tableName:  "transaction",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

const transactionColumns = "id, external_id, event_type, status, reversed_by, created_at, updated_at"

func scanTransaction(row interface{ Scan(dest ...any) error }) (*TransactionPostgreSQLModel, error) {
	var txn TransactionPostgreSQLModel

	err := row.Scan(
		&txn.ID,
		&txn.ExternalID,
		&txn.EventType,
		&txn.Status,
		&txn.ReversedBy,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// Create inserts the transaction row. A duplicate external id surfaces
// as the DuplicateExternalID business error via the unique index.
func (r *TransactionPostgreSQLRepository) Create(ctx context.Context, txn *mmodel.Transaction) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_transaction")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	record := &TransactionPostgreSQLModel{}
	record.FromEntity(txn)

	exec := dbtx.GetExecutor(ctx, db)

	_, err = exec.ExecContext(ctx,
		`INSERT INTO transaction (`+transactionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.ExternalID,
		record.EventType,
		record.Status,
		record.ReversedBy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return services.ValidatePGError(pgErr, reflect.TypeOf(mmodel.Transaction{}).Name())
		}

		return err
	}

	return nil
}

// Find retrieves a transaction by id.
func (r *TransactionPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_transaction")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	row := exec.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transaction WHERE id = $1`, id)

	record, err := scanTransaction(row)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkg.ValidateBusinessError(constant.ErrTransactionNotFound, reflect.TypeOf(mmodel.Transaction{}).Name())
		}

		return nil, err
	}

	return record.ToEntity(), nil
}

// FindByExternalID retrieves a transaction by its idempotency key.
// Returns ErrDatabaseItemNotFound (not a business error) when absent so
// callers can branch without unwrapping.
func (r *TransactionPostgreSQLRepository) FindByExternalID(ctx context.Context, externalID string) (*mmodel.Transaction, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_transaction_by_external_id")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	row := exec.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transaction WHERE external_id = $1`, externalID)

	record, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrDatabaseItemNotFound
		}

		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		return nil, err
	}

	return record.ToEntity(), nil
}

// UpdateStatus moves the transaction through its state machine. The
// WHERE clause carries the expected current status, so an illegal or
// raced transition updates zero rows and fails.
func (r *TransactionPostgreSQLRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, reversedBy *uuid.UUID) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.update_transaction_status")
	defer span.End()

	if !constant.CanTransitionTransaction(fromStatus, toStatus) {
		err := pkg.ValidateBusinessError(constant.ErrInvalidTransactionTransition, reflect.TypeOf(mmodel.Transaction{}).Name())

		mopentelemetry.HandleSpanError(&span, "Illegal transaction status transition", err)

		return err
	}

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	var reversedByValue sql.NullString
	if reversedBy != nil {
		reversedByValue = sql.NullString{String: reversedBy.String(), Valid: true}
	}

	exec := dbtx.GetExecutor(ctx, db)

	result, err := exec.ExecContext(ctx,
		`UPDATE transaction SET status = $1, reversed_by = COALESCE($2, reversed_by), updated_at = $3 WHERE id = $4 AND status = $5`,
		toStatus, reversedByValue, time.Now().UTC(), id, fromStatus)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get rows affected", err)

		return err
	}

	if rowsAffected == 0 {
		err := pkg.ValidateBusinessError(constant.ErrInvalidTransactionTransition, reflect.TypeOf(mmodel.Transaction{}).Name())

		mopentelemetry.HandleSpanError(&span, "Failed to update transaction status", err)

		return err
	}

	return nil
}
