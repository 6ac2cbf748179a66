package entry

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/Masterminds/squirrel"
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

// Repository provides an interface for operations related to ledger
// entries.
//
//go:generate mockgen --destination=entry.mock.go --package=entry . Repository
type Repository interface {
	CreateAll(ctx context.Context, entries []*mmodel.Entry) error
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*mmodel.Entry, error)
	FindPostedByAccount(ctx context.Context, accountID uuid.UUID, after *time.Time, until time.Time) ([]*mmodel.Entry, error)
}

// EntryPostgreSQLRepository is a Postgresql-specific implementation of
// the entry Repository.
type EntryPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewEntryPostgreSQLRepository returns a new instance of
// EntryPostgreSQLRepository using the given Postgres connection.
func NewEntryPostgreSQLRepository(pc *mpostgres.PostgresConnection) *EntryPostgreSQLRepository {
	r := &EntryPostgreSQLRepository{
		connection: pc,
		tableName:  "entry",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

const entryColumns = "id, transaction_id, account_id, amount, currency, side, event_type, event_time, recorded_at"

func scanEntry(row interface{ Scan(dest ...any) error }) (*EntryPostgreSQLModel, error) {
	var e EntryPostgreSQLModel

	err := row.Scan(
		&e.ID,
		&e.TransactionID,
		&e.AccountID,
		&e.Amount,
		&e.Currency,
		&e.Side,
		&e.EventType,
		&e.EventTime,
		&e.RecordedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateAll inserts every entry of a transaction in one statement.
func (r *EntryPostgreSQLRepository) CreateAll(ctx context.Context, entries []*mmodel.Entry) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_entries")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	insert := squirrel.Insert(r.tableName).
		Columns("id", "transaction_id", "account_id", "amount", "currency", "side", "event_type", "event_time", "recorded_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, e := range entries {
		record := &EntryPostgreSQLModel{}
		record.FromEntity(e)

		insert = insert.Values(
			record.ID,
			record.TransactionID,
			record.AccountID,
			record.Amount,
			record.Currency,
			record.Side,
			record.EventType,
			record.EventTime,
			record.RecordedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to build query", err)

		return err
	}

	exec := dbtx.GetExecutor(ctx, db)

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return services.ValidatePGError(pgErr, reflect.TypeOf(mmodel.Entry{}).Name())
		}

		return err
	}

	return nil
}

// FindByTransaction retrieves the entries of a transaction, oldest
// first.
func (r *EntryPostgreSQLRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*mmodel.Entry, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_entries_by_transaction")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	rows, err := exec.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entry WHERE transaction_id = $1 ORDER BY recorded_at ASC, id ASC`,
		transactionID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	var entries []*mmodel.Entry

	for rows.Next() {
		record, err := scanEntry(rows)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		entries = append(entries, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return entries, nil
}

// FindPostedByAccount retrieves the entries of an account that belong to
// POSTED or REVERSED transactions and whose event time falls in
// (after, until], ordered by event time ascending.
// A nil after means from the beginning of history. The lower bound is
// strict so recomputations seeded from a snapshot never double-count
// the snapshot's own cutoff instant.
func (r *EntryPostgreSQLRepository) FindPostedByAccount(ctx context.Context, accountID uuid.UUID, after *time.Time, until time.Time) ([]*mmodel.Entry, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_posted_entries_by_account")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	find := squirrel.Select(
		"e.id", "e.transaction_id", "e.account_id", "e.amount", "e.currency",
		"e.side", "e.event_type", "e.event_time", "e.recorded_at").
		From(r.tableName + " e").
		Join("transaction t ON t.id = e.transaction_id").
		Where(squirrel.Eq{"e.account_id": accountID}).
		// A REVERSED transaction was posted once; its entries stay in the
		// balance and the reversal's mirror entries compensate them.
		Where(squirrel.Eq{"t.status": []string{constant.TransactionStatusPosted, constant.TransactionStatusReversed}}).
		Where(squirrel.LtOrEq{"e.event_time": until}).
		OrderBy("e.event_time ASC", "e.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if after != nil {
		find = find.Where(squirrel.Gt{"e.event_time": *after})
	}

	query, args, err := find.ToSql()
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

	var entries []*mmodel.Entry

	for rows.Next() {
		record, err := scanEntry(rows)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		entries = append(entries, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return entries, nil
}
