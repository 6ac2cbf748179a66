package command

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/quantora/ledger/internal/adapters/postgres/outbox"
	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/dbtx"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mpointers"
)

// OutboxConfig tunes one relay pass.
type OutboxConfig struct {
	BatchSize         int
	MaxAttempts       int
	PerAttemptTimeout time.Duration
	TopicPosted       string
	TopicReversed     string
}

// OutboxResult summarizes one relay pass.
type OutboxResult struct {
	Processed int
	Retried   int
	Failed    int
}

// PublishOutboxEvents runs one relay pass: fetch PENDING records
// oldest-first with skip-locked row locks, publish each synchronously,
// and write the outcome back, all inside one store transaction. A bus
// ack followed by a commit failure re-publishes on the next pass;
// at-least-once is the delivery contract.
func (uc *UseCase) PublishOutboxEvents(ctx context.Context, cfg OutboxConfig) (*OutboxResult, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.publish_outbox_events")
	defer span.End()

	db, err := uc.Connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	result := &OutboxResult{}

	// Row locks, not serializability, guard the relay; read committed
	// keeps the long publish window cheap.
	opts := dbtx.Options{Isolation: sql.LevelReadCommitted, Retries: 0}

	err = dbtx.RunInTransactionWithOptions(ctx, db, opts, func(ctx context.Context) error {
		events, err := uc.OutboxRepo.FindPending(ctx, cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, event := range events {
			uc.relayOne(ctx, event, cfg, result)
		}

		return nil
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to run relay pass", err)

		return nil, err
	}

	if result.Processed+result.Retried+result.Failed > 0 {
		logger.Infof("Relay pass: %d processed, %d retried, %d failed", result.Processed, result.Retried, result.Failed)
	}

	return result, nil
}

// relayOne publishes a single record and records the outcome on the
// row. Publish errors never abort the pass; they increment the attempt
// counter and, at the ceiling, park the row as FAILED for operators.
func (uc *UseCase) relayOne(ctx context.Context, event *mmodel.OutboxEvent, cfg OutboxConfig, result *OutboxResult) {
	logger := pkg.NewLoggerFromContext(ctx)

	publishErr := uc.publishEvent(ctx, event, cfg)
	if publishErr == nil {
		event.Status = constant.OutboxStatusProcessed
		event.ProcessedAt = mpointers.Time(uc.now())
		event.LastError = nil

		if err := uc.OutboxRepo.Update(ctx, event); err != nil {
			logger.Errorf("Failed to mark outbox %s processed: %v", event.ID, err)

			return
		}

		logger.Infof("Published outbox %s (%s) for aggregate %s", event.ID, event.EventType, event.AggregateID)

		result.Processed++

		return
	}

	event.Attempts++
	event.LastError = mpointers.String(outbox.SanitizeErrorMessage(publishErr.Error()))

	if event.Attempts >= cfg.MaxAttempts {
		event.Status = constant.OutboxStatusFailed

		logger.Errorf("Outbox %s exhausted %d attempts, parking as FAILED: %v", event.ID, event.Attempts, publishErr)

		result.Failed++
	} else {
		logger.Warnf("Publish attempt %d/%d failed for outbox %s: %v", event.Attempts, cfg.MaxAttempts, event.ID, publishErr)

		result.Retried++
	}

	if err := uc.OutboxRepo.Update(ctx, event); err != nil {
		logger.Errorf("Failed to record outbox %s attempt: %v", event.ID, err)
	}
}

// publishEvent validates the payload shape for the event type, picks
// the topic, and publishes synchronously under the per-attempt timeout.
func (uc *UseCase) publishEvent(ctx context.Context, event *mmodel.OutboxEvent, cfg OutboxConfig) error {
	var routingKey string

	switch event.EventType {
	case constant.OutboxEventTransactionPosted:
		routingKey = cfg.TopicPosted

		var payload mmodel.TransactionPostedEvent
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
	case constant.OutboxEventTransactionReversed:
		routingKey = cfg.TopicReversed

		var payload mmodel.TransactionReversedEvent
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
	default:
		return pkg.ValidateBusinessError(constant.ErrBusPublishFailure, "OutboxEvent")
	}

	publishCtx := ctx

	if cfg.PerAttemptTimeout > 0 {
		var cancel context.CancelFunc

		publishCtx, cancel = context.WithTimeout(ctx, cfg.PerAttemptTimeout)
		defer cancel()
	}

	return uc.ProducerRepo.ProducerDefault(publishCtx, routingKey, event.AggregateID, event.Payload)
}

// OutboxHealth counts outbox rows per status. Lock-free; used by the
// health log and the health endpoint.
func (uc *UseCase) OutboxHealth(ctx context.Context) (*mmodel.OutboxHealth, error) {
	return uc.OutboxRepo.CountByStatus(ctx)
}
