package command

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/quantora/ledger/internal/adapters/mongodb/metadata"
	"github.com/quantora/ledger/internal/adapters/postgres/account"
	"github.com/quantora/ledger/internal/adapters/postgres/entry"
	"github.com/quantora/ledger/internal/adapters/postgres/outbox"
	"github.com/quantora/ledger/internal/adapters/postgres/snapshot"
	"github.com/quantora/ledger/internal/adapters/postgres/transaction"
	"github.com/quantora/ledger/internal/adapters/rabbitmq"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/dbtx"
	"github.com/quantora/ledger/pkg/mpostgres"
	"github.com/quantora/ledger/pkg/mtime"
)

// UseCase is the state-mutating application service: posting,
// reversing, account administration, snapshots and the outbox relay
// commands.
type UseCase struct {
	Connection      *mpostgres.PostgresConnection
	AccountRepo     account.Repository
	TransactionRepo transaction.Repository
	EntryRepo       entry.Repository
	SnapshotRepo    snapshot.Repository
	OutboxRepo      outbox.Repository
	MetadataRepo    metadata.Repository
	ProducerRepo    rabbitmq.ProducerRepository
	Clock           mtime.Clock

	// Isolation overrides the posting-path isolation level. Zero value
	// means serializable.
	Isolation sql.IsolationLevel
}

// now reads the injected clock, defaulting to the system clock so a
// zero-value UseCase still works.
func (uc *UseCase) now() time.Time {
	if uc.Clock == nil {
		return mtime.SystemClock{}.Now()
	}

	return uc.Clock.Now()
}

// runInTransaction opens a serializable store transaction around fn and
// maps infrastructure outcomes onto the error taxonomy: an elapsed
// deadline rolls back and surfaces DeadlineExceeded, exhausted
// serialization retries surface StoreConflict.
func (uc *UseCase) runInTransaction(ctx context.Context, entityType string, fn func(ctx context.Context) error) error {
	db, err := uc.Connection.GetDB()
	if err != nil {
		return err
	}

	opts := dbtx.DefaultOptions()
	if uc.Isolation != sql.LevelDefault {
		opts.Isolation = uc.Isolation
	}

	err = dbtx.RunInTransactionWithOptions(ctx, db, opts, fn)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return pkg.ValidateBusinessError(constant.ErrDeadlineExceeded, entityType)
	}

	if dbtx.IsSerializationFailure(err) {
		return pkg.ValidateBusinessError(constant.ErrStoreConflict, entityType)
	}

	return err
}
