package outbox

import (
	"database/sql"
	"regexp"
	"time"

	"github.com/quantora/ledger/pkg/mmodel"
)

// maxErrorLength bounds the stored last_error text.
const maxErrorLength = 512

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	ipPattern    = regexp.MustCompile(`\b\d{1,3}(\.\d{1,3}){3}\b`)
)

// SanitizeErrorMessage strips obvious personal data from broker error
// text before it lands in the outbox row, and truncates long messages.
func SanitizeErrorMessage(message string) string {
	message = emailPattern.ReplaceAllString(message, "[REDACTED]")
	message = ipPattern.ReplaceAllString(message, "[REDACTED]")

	if len(message) > maxErrorLength {
		message = message[:maxErrorLength] + "...[truncated]"
	}

	return message
}

// OutboxPostgreSQLModel represents an outbox record in SQL context.
type OutboxPostgreSQLModel struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     []byte
	Attempts    int
	LastError   sql.NullString
	Status      string
	CreatedAt   time.Time
	ProcessedAt sql.NullTime
}

// ToEntity converts an OutboxPostgreSQLModel to the entity OutboxEvent.
func (t *OutboxPostgreSQLModel) ToEntity() *mmodel.OutboxEvent {
	e := &mmodel.OutboxEvent{
		ID:          t.ID,
		AggregateID: t.AggregateID,
		EventType:   t.EventType,
		Payload:     t.Payload,
		Attempts:    t.Attempts,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}

	if t.LastError.Valid {
		lastError := t.LastError.String
		e.LastError = &lastError
	}

	if t.ProcessedAt.Valid {
		processedAt := t.ProcessedAt.Time
		e.ProcessedAt = &processedAt
	}

	return e
}

// FromEntity converts an entity OutboxEvent to OutboxPostgreSQLModel.
func (t *OutboxPostgreSQLModel) FromEntity(e *mmodel.OutboxEvent) {
	*t = OutboxPostgreSQLModel{
		ID:          e.ID,
		AggregateID: e.AggregateID,
		EventType:   e.EventType,
		Payload:     e.Payload,
		Attempts:    e.Attempts,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}

	if e.LastError != nil {
		t.LastError = sql.NullString{String: *e.LastError, Valid: true}
	}

	if e.ProcessedAt != nil {
		t.ProcessedAt = sql.NullTime{Time: *e.ProcessedAt, Valid: true}
	}
}
