package account

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/quantora/ledger/internal/services"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/dbtx"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mpostgres"
	httputil "github.com/quantora/ledger/pkg/net/http"
)

// Repository provides an interface for operations related to account
// entities.
//
//go:generate mockgen --destination=account.mock.go --package=account . Repository
type Repository interface {
	Create(ctx context.Context, acc *mmodel.Account) (*mmodel.Account, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.Account, error)
	FindAll(ctx context.Context, filter httputil.Pagination) ([]*mmodel.Account, error)
	ListByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*mmodel.Account, error)
	ListActive(ctx context.Context) ([]*mmodel.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*mmodel.Account, error)
}

// AccountPostgreSQLRepository is a Postgresql-specific implementation of
// the account Repository.
type AccountPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewAccountPostgreSQLRepository returns a new instance of
// AccountPostgreSQLRepository using the given Postgres connection.
func NewAccountPostgreSQLRepository(pc *mpostgres.PostgresConnection) *AccountPostgreSQLRepository {
	r := &AccountPostgreSQLRepository{
		connection: pc,
		tableName:  "account",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

const accountColumns = "id, account_type, currency, status, created_at, updated_at"

func scanAccount(row interface{ Scan(dest ...any) error }) (*AccountPostgreSQLModel, error) {
	var acc AccountPostgreSQLModel

	err := row.Scan(
		&acc.ID,
		&acc.AccountType,
		&acc.Currency,
		&acc.Status,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &acc, nil
}

// Create a new account entity into Postgresql and returns it.
func (r *AccountPostgreSQLRepository) Create(ctx context.Context, acc *mmodel.Account) (*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_account")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	record := &AccountPostgreSQLModel{}
	record.FromEntity(acc)

	exec := dbtx.GetExecutor(ctx, db)

	_, err = exec.ExecContext(ctx, `INSERT INTO account (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID,
		record.AccountType,
		record.Currency,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, services.ValidatePGError(pgErr, reflect.TypeOf(mmodel.Account{}).Name())
		}

		return nil, err
	}

	return record.ToEntity(), nil
}

// Find retrieves an account entity from the database using the provided
// ID.
func (r *AccountPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_account")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	row := exec.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id)

	record, err := scanAccount(row)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkg.ValidateBusinessError(constant.ErrAccountNotFound, reflect.TypeOf(mmodel.Account{}).Name())
		}

		return nil, err
	}

	return record.ToEntity(), nil
}

// FindAll retrieves account entities from the database with pagination,
// newest first.
func (r *AccountPostgreSQLRepository) FindAll(ctx context.Context, filter httputil.Pagination) ([]*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_all_accounts")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	findAll := squirrel.Select(accountColumns).
		From(r.tableName).
		OrderBy("created_at DESC").
		Limit(pkg.SafeIntToUint64(filter.Limit)).
		Offset(pkg.SafeIntToUint64((filter.Page - 1) * filter.Limit)).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := findAll.ToSql()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to build query", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	var accounts []*mmodel.Account

	for rows.Next() {
		record, err := scanAccount(rows)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		accounts = append(accounts, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return accounts, nil
}

// ListByIDsForUpdate loads the given accounts in ascending id order and
// takes a row-level write lock on each. The ascending order is the
// deadlock-avoidance discipline shared by every writer; callers must
// run inside a dbtx transaction.
func (r *AccountPostgreSQLRepository) ListByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.list_accounts_by_ids_for_update")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	textIDs := make([]string, len(ids))
	for i, id := range ids {
		textIDs[i] = id.String()
	}

	exec := dbtx.GetExecutor(ctx, db)

	rows, err := exec.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE id = ANY($1) ORDER BY id ASC FOR UPDATE`,
		pq.Array(textIDs))
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	var accounts []*mmodel.Account

	for rows.Next() {
		record, err := scanAccount(rows)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		accounts = append(accounts, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return accounts, nil
}

// ListActive retrieves every ACTIVE account. Used by the snapshot
// maker.
func (r *AccountPostgreSQLRepository) ListActive(ctx context.Context) ([]*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.list_active_accounts")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	rows, err := exec.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE status = $1 ORDER BY id ASC`,
		constant.AccountStatusActive)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	var accounts []*mmodel.Account

	for rows.Next() {
		record, err := scanAccount(rows)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		accounts = append(accounts, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return accounts, nil
}

// UpdateStatus sets the account status. The caller validates the state
// machine and holds the row lock.
func (r *AccountPostgreSQLRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*mmodel.Account, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.update_account_status")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	row := exec.QueryRowContext(ctx,
		`UPDATE account SET status = $1, updated_at = $2 WHERE id = $3 RETURNING `+accountColumns,
		newStatus, time.Now().UTC(), id)

	record, err := scanAccount(row)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkg.ValidateBusinessError(constant.ErrAccountNotFound, reflect.TypeOf(mmodel.Account{}).Name())
		}

		return nil, err
	}

	return record.ToEntity(), nil
}
