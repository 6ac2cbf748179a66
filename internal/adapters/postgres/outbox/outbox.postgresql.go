package outbox

import (
	"context"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/dbtx"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mpostgres"
)

// Repository provides an interface for operations related to outbox
// records.
//
//go:generate mockgen --destination=outbox.mock.go --package=outbox . Repository
type Repository interface {
	Create(ctx context.Context, e *mmodel.OutboxEvent) error
	FindPending(ctx context.Context, limit int) ([]*mmodel.OutboxEvent, error)
	Update(ctx context.Context, e *mmodel.OutboxEvent) error
	CountByStatus(ctx context.Context) (*mmodel.OutboxHealth, error)
}

// OutboxPostgreSQLRepository is a Postgresql-specific implementation of
// the outbox Repository.
type OutboxPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewOutboxPostgreSQLRepository returns a new instance of
// OutboxPostgreSQLRepository using the given Postgres connection.
func NewOutboxPostgreSQLRepository(pc *mpostgres.PostgresConnection) *OutboxPostgreSQLRepository {
	r := &OutboxPostgreSQLRepository{
		connection: pc,
		tableName:  "outbox_event",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

const outboxColumns = "id, aggregate_id, event_type, payload, attempts, last_error, status, created_at, processed_at"

// Create inserts a PENDING outbox row. Runs inside the same dbtx
// transaction that persists the aggregate.
func (r *OutboxPostgreSQLRepository) Create(ctx context.Context, e *mmodel.OutboxEvent) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_outbox_event")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	record := &OutboxPostgreSQLModel{}
	record.FromEntity(e)

	exec := dbtx.GetExecutor(ctx, db)

	_, err = exec.ExecContext(ctx,
		`INSERT INTO outbox_event (`+outboxColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID,
		record.AggregateID,
		record.EventType,
		record.Payload,
		record.Attempts,
		record.LastError,
		record.Status,
		record.CreatedAt,
		record.ProcessedAt,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return err
	}

	return nil
}

// FindPending fetches up to limit PENDING rows oldest-first, locking
// them with SKIP LOCKED so concurrent relays never pick the same row.
// Must run inside a dbtx transaction; the locks release at commit.
func (r *OutboxPostgreSQLRepository) FindPending(ctx context.Context, limit int) ([]*mmodel.OutboxEvent, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_pending_outbox")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	rows, err := exec.QueryContext(ctx,
		`SELECT `+outboxColumns+` FROM outbox_event WHERE status = $1 ORDER BY created_at ASC LIMIT $2 FOR UPDATE SKIP LOCKED`,
		constant.OutboxStatusPending, limit)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	var events []*mmodel.OutboxEvent

	for rows.Next() {
		var record OutboxPostgreSQLModel

		err := rows.Scan(
			&record.ID,
			&record.AggregateID,
			&record.EventType,
			&record.Payload,
			&record.Attempts,
			&record.LastError,
			&record.Status,
			&record.CreatedAt,
			&record.ProcessedAt,
		)
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		events = append(events, record.ToEntity())
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return events, nil
}

// Update writes back status, attempts, processed time and last error.
// Terminal rows are never resurrected: a PROCESSED or FAILED row only
// matches when the update re-states its terminal status, which keeps
// repeated success marks idempotent.
func (r *OutboxPostgreSQLRepository) Update(ctx context.Context, e *mmodel.OutboxEvent) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.update_outbox_event")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	record := &OutboxPostgreSQLModel{}
	record.FromEntity(e)

	exec := dbtx.GetExecutor(ctx, db)

	_, err = exec.ExecContext(ctx,
		`UPDATE outbox_event
		    SET status = $1, attempts = $2, last_error = $3, processed_at = COALESCE(processed_at, $4)
		  WHERE id = $5 AND (status = $6 OR status = $1)`,
		record.Status,
		record.Attempts,
		record.LastError,
		record.ProcessedAt,
		record.ID,
		constant.OutboxStatusPending,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return err
	}

	return nil
}

// CountByStatus counts rows per status for the health log and the
// health endpoint. Takes no locks.
func (r *OutboxPostgreSQLRepository) CountByStatus(ctx context.Context) (*mmodel.OutboxHealth, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.count_outbox_by_status")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	exec := dbtx.GetExecutor(ctx, db)

	rows, err := exec.QueryContext(ctx, `SELECT status, COUNT(*) FROM outbox_event GROUP BY status`)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to execute query", err)

		return nil, err
	}
	defer rows.Close()

	health := &mmodel.OutboxHealth{}

	for rows.Next() {
		var (
			status string
			count  int64
		)

		if err := rows.Scan(&status, &count); err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed to scan row", err)

			return nil, err
		}

		switch status {
		case constant.OutboxStatusPending:
			health.Pending = count
		case constant.OutboxStatusProcessed:
			health.Processed = count
		case constant.OutboxStatusFailed:
			health.Failed = count
		}
	}

	if err := rows.Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to iterate rows", err)

		return nil, err
	}

	return health, nil
}
