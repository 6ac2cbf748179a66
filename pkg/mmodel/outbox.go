package mmodel

import "time"

// OutboxEvent is a bus event persisted in the same durable transaction
// as the aggregate it describes. Payload stays opaque until publish
// time.
type OutboxEvent struct {
	ID          string     `json:"id"`
	AggregateID string     `json:"aggregateId"`
	EventType   string     `json:"eventType"`
	Payload     []byte     `json:"payload"`
	Attempts    int        `json:"attempts"`
	LastError   *string    `json:"lastError,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// OutboxHealth is the per-status row count used by the health log and
// the health endpoint.
type OutboxHealth struct {
	Pending   int64 `json:"pending"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}
