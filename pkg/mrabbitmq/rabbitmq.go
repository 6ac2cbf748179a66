package mrabbitmq

import (
	"sync"

	"github.com/quantora/ledger/pkg/mlog"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConnection manages one AMQP connection with a confirm-mode
// channel and a declared topic exchange.
type RabbitMQConnection struct {
	ConnectionString string
	Exchange         string
	Logger           mlog.Logger

	mu        sync.Mutex
	conn      *amqp.Connection
	Channel   *amqp.Channel
	Connected bool
}

// GetNewConnect dials the broker, opens a confirm-mode channel and
// declares the topic exchange. Reconnects when the previous connection
// was closed.
func (rc *RabbitMQConnection) GetNewConnect() (*amqp.Channel, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.Connected && rc.conn != nil && !rc.conn.IsClosed() {
		return rc.Channel, nil
	}

	conn, err := amqp.Dial(rc.ConnectionString)
	if err != nil {
		rc.Logger.Errorf("failed to connect to rabbitmq: %v", err)

		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		rc.Logger.Errorf("failed to open rabbitmq channel: %v", err)

		return nil, err
	}

	if err := channel.Confirm(false); err != nil {
		rc.Logger.Errorf("failed to put rabbitmq channel in confirm mode: %v", err)

		return nil, err
	}

	if err := channel.ExchangeDeclare(rc.Exchange, "topic", true, false, false, false, nil); err != nil {
		rc.Logger.Errorf("failed to declare exchange %s: %v", rc.Exchange, err)

		return nil, err
	}

	rc.conn = conn
	rc.Channel = channel
	rc.Connected = true

	rc.Logger.Infof("Connected to rabbitmq, exchange %s", rc.Exchange)

	return rc.Channel, nil
}

// HealthCheck reports whether the connection is open.
func (rc *RabbitMQConnection) HealthCheck() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.Connected && rc.conn != nil && !rc.conn.IsClosed()
}
