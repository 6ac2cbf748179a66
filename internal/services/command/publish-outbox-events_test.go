package command

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/constant"
	"github.com/quantora/ledger/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testOutboxConfig() OutboxConfig {
	return OutboxConfig{
		BatchSize:         100,
		MaxAttempts:       3,
		PerAttemptTimeout: time.Second,
		TopicPosted:       "transaction-posted",
		TopicReversed:     "transaction-reversed",
	}
}

func pendingPostedEvent(attempts int) *mmodel.OutboxEvent {
	payload, _ := json.Marshal(mmodel.TransactionPostedEvent{
		TransactionID: pkg.GenerateUUIDv7().String(),
		ExternalID:    "x1",
		EventType:     constant.EventTypeDeposit,
		Timestamp:     testNow,
	})

	return &mmodel.OutboxEvent{
		ID:          pkg.GenerateUUIDv7().String(),
		AggregateID: pkg.GenerateUUIDv7().String(),
		EventType:   constant.OutboxEventTransactionPosted,
		Payload:     payload,
		Attempts:    attempts,
		Status:      constant.OutboxStatusPending,
		CreatedAt:   testNow,
	}
}

func TestPublishOutboxEvents_Success(t *testing.T) {
	f := newUseCaseFixture(t)
	event := pendingPostedEvent(0)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.outbox.EXPECT().FindPending(gomock.Any(), 100).
		Return([]*mmodel.OutboxEvent{event}, nil)

	f.producer.EXPECT().
		ProducerDefault(gomock.Any(), "transaction-posted", event.AggregateID, event.Payload).
		Return(nil)

	var updated *mmodel.OutboxEvent

	f.outbox.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *mmodel.OutboxEvent) error {
			updated = e
			return nil
		})

	result, err := f.uc.PublishOutboxEvents(context.Background(), testOutboxConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.Retried)
	assert.Zero(t, result.Failed)

	require.NotNil(t, updated)
	assert.Equal(t, constant.OutboxStatusProcessed, updated.Status)
	require.NotNil(t, updated.ProcessedAt)
	assert.Equal(t, testNow, *updated.ProcessedAt)
	assert.Nil(t, updated.LastError)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPublishOutboxEvents_FailureIncrementsAttempts(t *testing.T) {
	f := newUseCaseFixture(t)
	event := pendingPostedEvent(0)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.outbox.EXPECT().FindPending(gomock.Any(), 100).
		Return([]*mmodel.OutboxEvent{event}, nil)

	f.producer.EXPECT().
		ProducerDefault(gomock.Any(), "transaction-posted", event.AggregateID, event.Payload).
		Return(errors.New("broker unavailable"))

	var updated *mmodel.OutboxEvent

	f.outbox.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *mmodel.OutboxEvent) error {
			updated = e
			return nil
		})

	result, err := f.uc.PublishOutboxEvents(context.Background(), testOutboxConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Retried)

	require.NotNil(t, updated)
	assert.Equal(t, constant.OutboxStatusPending, updated.Status, "below ceiling stays PENDING")
	assert.Equal(t, 1, updated.Attempts)
	require.NotNil(t, updated.LastError)
	assert.Contains(t, *updated.LastError, "broker unavailable")

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPublishOutboxEvents_AttemptCeilingParksFailed(t *testing.T) {
	f := newUseCaseFixture(t)
	event := pendingPostedEvent(2)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.outbox.EXPECT().FindPending(gomock.Any(), 100).
		Return([]*mmodel.OutboxEvent{event}, nil)

	f.producer.EXPECT().
		ProducerDefault(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("still down"))

	var updated *mmodel.OutboxEvent

	f.outbox.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *mmodel.OutboxEvent) error {
			updated = e
			return nil
		})

	result, err := f.uc.PublishOutboxEvents(context.Background(), testOutboxConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	require.NotNil(t, updated)
	assert.Equal(t, constant.OutboxStatusFailed, updated.Status)
	assert.Equal(t, 3, updated.Attempts)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPublishOutboxEvents_HealthyBusAfterFailuresPublishesFreshRows(t *testing.T) {
	f := newUseCaseFixture(t)

	// FAILED rows never reappear: FindPending only returns PENDING.
	fresh := pendingPostedEvent(0)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.outbox.EXPECT().FindPending(gomock.Any(), 100).
		Return([]*mmodel.OutboxEvent{fresh}, nil)
	f.producer.EXPECT().
		ProducerDefault(gomock.Any(), "transaction-posted", fresh.AggregateID, fresh.Payload).
		Return(nil)
	f.outbox.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.uc.PublishOutboxEvents(context.Background(), testOutboxConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPublishOutboxEvents_ReversedEventRoutesToReversedTopic(t *testing.T) {
	f := newUseCaseFixture(t)

	payload, _ := json.Marshal(mmodel.TransactionReversedEvent{
		TransactionID:         pkg.GenerateUUIDv7().String(),
		OriginalTransactionID: pkg.GenerateUUIDv7().String(),
		Timestamp:             testNow,
	})

	event := &mmodel.OutboxEvent{
		ID:          pkg.GenerateUUIDv7().String(),
		AggregateID: pkg.GenerateUUIDv7().String(),
		EventType:   constant.OutboxEventTransactionReversed,
		Payload:     payload,
		Status:      constant.OutboxStatusPending,
		CreatedAt:   testNow,
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.outbox.EXPECT().FindPending(gomock.Any(), 100).
		Return([]*mmodel.OutboxEvent{event}, nil)
	f.producer.EXPECT().
		ProducerDefault(gomock.Any(), "transaction-reversed", event.AggregateID, event.Payload).
		Return(nil)
	f.outbox.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.uc.PublishOutboxEvents(context.Background(), testOutboxConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestPublishOutboxEvents_EmptyBatch(t *testing.T) {
	f := newUseCaseFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.outbox.EXPECT().FindPending(gomock.Any(), 100).Return(nil, nil)

	result, err := f.uc.PublishOutboxEvents(context.Background(), testOutboxConfig())

	require.NoError(t, err)
	assert.Zero(t, result.Processed+result.Retried+result.Failed)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
