package query

import (
	"time"

	"github.com/quantora/ledger/internal/adapters/mongodb/metadata"
	"github.com/quantora/ledger/internal/adapters/postgres/account"
	"github.com/quantora/ledger/internal/adapters/postgres/entry"
	"github.com/quantora/ledger/internal/adapters/postgres/snapshot"
	"github.com/quantora/ledger/internal/adapters/postgres/transaction"
	"github.com/quantora/ledger/pkg/mtime"
)

// UseCase is the read-side application service: lookups, listings and
// the balance engine.
type UseCase struct {
	AccountRepo     account.Repository
	TransactionRepo transaction.Repository
	EntryRepo       entry.Repository
	SnapshotRepo    snapshot.Repository
	MetadataRepo    metadata.Repository
	Clock           mtime.Clock
}

func (uc *UseCase) now() time.Time {
	if uc.Clock == nil {
		return mtime.SystemClock{}.Now()
	}

	return uc.Clock.Now()
}
