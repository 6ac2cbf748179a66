package snapshot

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
	"github.com/quantora/ledger/pkg/dbtx"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mpostgres"
)

// Repository provides an interface for operations related to balance
// snapshots.
//
//go:generate mockgen --destination=snapshot.mock.go --package=snapshot . Repository
type Repository interface {
	Create(ctx context.Context, s *mmodel.BalanceSnapshot) error
	FindLatest(ctx context.Context, accountID uuid.UUID, until time.Time) (*mmodel.BalanceSnapshot, error)
	ExistsAt(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (bool, error)
}

// SnapshotPostgreSQLRepository is a Postgresql-specific implementation
// of the snapshot Repository.
type SnapshotPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewSnapshotPostgreSQLRepository returns a new instance of
// SnapshotPostgreSQLRepository using the given Postgres connection.
func NewSnapshotPostgreSQLRepository(pc *mpostgres.PostgresConnection) *SnapshotPostgreSQLRepository {
	r := &SnapshotPostgreSQLRepository{
		connection: pc,
		tableName:  "balance_snapshot",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

const snapshotColumns = "id, account_id, amount, currency, snapshot_time, last_entry_id, created_at"

// Create persists a snapshot. The unique constraint on
// (account_id, snapshot_time) keeps concurrent makers idempotent.
func (r *SnapshotPostgreSQLRepository) Create(ctx context.Context, s *mmodel.BalanceSnapshot) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_snapshot")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	record := &SnapshotPostgreSQLModel{}
	record.FromEntity(s)

	exec := dbtx.GetExecutor(ctx, db)

	_, err = exec.ExecContext(ctx,
		`INSERT INTO balance_snapshot (`+snapshotColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.AccountID,
		record.Amount,
		record.Currency,
		record.SnapshotTime,
		record.LastEntryID,
		record.CreatedAt,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return services.ValidatePGError(pgErr, reflect.TypeOf(mmodel.BalanceSnapshot{}).Name())
		}

		return err
	}

	return nil
}

// FindLatest retrieves the newest snapshot of an account with
// snapshot_time not after the given instant. Returns
// ErrDatabaseItemNotFound when the account has none.
func (r *SnapshotPostgreSQLRepository) FindLatest(ctx context.Context, accountID uuid.UUID, until time.Time) (*mmodel.BalanceSnapshot, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_latest_snapshot")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	row := exec.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM balance_snapshot WHERE account_id = $1 AND snapshot_time <= $2 ORDER BY snapshot_time DESC LIMIT 1`,
		accountID, until)

	var record SnapshotPostgreSQLModel

	err = row.Scan(
		&record.ID,
		&record.AccountID,
		&record.Amount,
		&record.Currency,
		&record.SnapshotTime,
		&record.LastEntryID,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrDatabaseItemNotFound
		}

		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		return nil, err
	}

	return record.ToEntity(), nil
}

// ExistsAt reports whether the account already has a snapshot at
// exactly the given cutoff.
func (r *SnapshotPostgreSQLRepository) ExistsAt(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (bool, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.snapshot_exists_at")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return false, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	var exists bool

	row := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM balance_snapshot WHERE account_id = $1 AND snapshot_time = $2)`,
		accountID, cutoff)

	if err := row.Scan(&exists); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		return false, err
	}

	return exists, nil
}
