package rabbitmq

import (
	"context"
	"errors"

	"github.com/quantora/ledger/pkg"
	"github.com/quantora/ledger/pkg/mopentelemetry"
	"github.com/quantora/ledger/pkg/mrabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublishNacked is returned when the broker refuses a message.
var ErrPublishNacked = errors.New("broker nacked the message")

// ProducerRepository provides an interface for publishing messages to
// the bus. Publish blocks until the broker confirms or the context
// expires.
//
//go:generate mockgen --destination=producer.mock.go --package=rabbitmq . ProducerRepository
type ProducerRepository interface {
	ProducerDefault(ctx context.Context, routingKey, aggregateID string, message []byte) error
	CheckRabbitMQHealth() bool
}

// ProducerRabbitMQRepository is a rabbitmq implementation of the
// producer.
type ProducerRabbitMQRepository struct {
	conn *mrabbitmq.RabbitMQConnection
}

// NewProducerRabbitMQ returns a new instance of
// ProducerRabbitMQRepository using the given rabbitmq connection.
func NewProducerRabbitMQ(c *mrabbitmq.RabbitMQConnection) *ProducerRabbitMQRepository {
	prmq := &ProducerRabbitMQRepository{conn: c}

	if _, err := c.GetNewConnect(); err != nil {
		panic("Failed to connect rabbitmq")
	}

	return prmq
}

// CheckRabbitMQHealth checks the health of the rabbitmq connection.
func (prmq *ProducerRabbitMQRepository) CheckRabbitMQHealth() bool {
	return prmq.conn.HealthCheck()
}

// ProducerDefault publishes a persistent message on the configured
// topic exchange and waits for the broker confirm. The aggregate id
// travels as the message key so consumers can partition per aggregate.
func (prmq *ProducerRabbitMQRepository) ProducerDefault(ctx context.Context, routingKey, aggregateID string, message []byte) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, spanProducer := tracer.Start(ctx, "rabbitmq.producer.publish_message")
	defer spanProducer.End()

	logger.Infof("Init sent message to exchange: %s, key: %s", prmq.conn.Exchange, routingKey)

	channel, err := prmq.conn.GetNewConnect()
	if err != nil {
		mopentelemetry.HandleSpanError(&spanProducer, "Failed to get rabbitmq channel", err)

		return err
	}

	confirmation, err := channel.PublishWithDeferredConfirmWithContext(
		ctx,
		prmq.conn.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    aggregateID,
			Headers: amqp.Table{
				"aggregate_id": aggregateID,
				"header_id":    pkg.NewHeaderIDFromContext(ctx),
			},
			Body: message,
		})
	if err != nil {
		mopentelemetry.HandleSpanError(&spanProducer, "Failed to publish message", err)

		logger.Errorf("Failed to publish message: %s", err)

		return err
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&spanProducer, "Failed to await publish confirm", err)

		return err
	}

	if !acked {
		err := ErrPublishNacked

		mopentelemetry.HandleSpanError(&spanProducer, "Broker nacked the message", err)

		logger.Errorf("Broker nacked message for key %s", routingKey)

		return err
	}

	logger.Infof("Messages sent successfully to exchange: %s, key: %s", prmq.conn.Exchange, routingKey)

	return nil
}
