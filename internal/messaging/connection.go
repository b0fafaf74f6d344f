package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"catering-platform/internal/logger"
)

const (
	// EventsExchange receives every domain event, routed by event type
	EventsExchange = "catering_events"
	// NotificationsQueue is consumed by the notification subscriber
	NotificationsQueue = "catering_notifications"
)

var notificationBindings = []string{"menu.*", "order.*"}

// ErrNotConnected is returned while the broker connection is down
var ErrNotConnected = errors.New("rabbitmq connection is not available")

// Connection wraps RabbitMQ connection with reconnection logic. An
// unexpected close starts one background reconnect loop.
type Connection struct {
	mu           sync.RWMutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	reconnecting bool
	shutdown     bool

	// dialMu serializes reconnect attempts
	dialMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	logger *logger.Logger
	url    string
}

func newConnection(url string, log *logger.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		ctx:    ctx,
		cancel: cancel,
		logger: log,
		url:    url,
	}
}

// New creates a new RabbitMQ connection
func New(ctx context.Context, url string, log *logger.Logger) (*Connection, error) {
	conn := newConnection(url, log)

	if err := conn.connect(ctx); err != nil {
		conn.cancel()
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect establishes connection to RabbitMQ with retry logic
func (c *Connection) connect(ctx context.Context) error {
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		var (
			conn    *amqp091.Connection
			channel *amqp091.Channel
		)
		conn, channel, err = c.dial()
		if err == nil {
			c.mu.Lock()
			if c.shutdown {
				c.mu.Unlock()
				channel.Close()
				conn.Close()
				return ErrNotConnected
			}
			c.conn, c.channel = conn, channel
			c.mu.Unlock()

			go c.watch(conn.NotifyClose(make(chan *amqp091.Error, 1)))
			return nil
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

func (c *Connection) dial() (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return nil, nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := setupTopology(channel); err != nil {
		c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", err, nil)
		channel.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, channel, nil
}

// watch waits for the connection to drop and reconnects unless the close was
// requested by us
func (c *Connection) watch(closed <-chan *amqp091.Error) {
	amqpErr, ok := <-closed
	if !ok || amqpErr == nil {
		return
	}
	c.logger.Error("rabbitmq_connection_lost", "RabbitMQ connection lost", "", amqpErr, nil)
	c.reconnectInBackground()
}

// reconnectInBackground starts the reconnect loop unless one is running
func (c *Connection) reconnectInBackground() {
	c.mu.Lock()
	if c.reconnecting || c.shutdown {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.reconnecting = false
			c.mu.Unlock()
		}()

		for {
			err := c.Reconnect(c.ctx)
			if err == nil {
				c.logger.Info("rabbitmq_reconnected", "Reconnected to RabbitMQ", "", nil)
				return
			}
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Error("rabbitmq_reconnect_failed", "Reconnect attempt failed", "", err, nil)
		}
	}()
}

// setupTopology declares the events exchange and the notifications queue
func setupTopology(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", EventsExchange, err)
	}

	_, err = channel.QueueDeclare(
		NotificationsQueue, // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		amqp091.Table{
			"x-message-ttl": 86400000, // one day
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s queue: %w", NotificationsQueue, err)
	}

	for _, routingKey := range notificationBindings {
		err = channel.QueueBind(
			NotificationsQueue, // queue name
			routingKey,         // routing key
			EventsExchange,     // exchange
			false,              // no-wait
			nil,                // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", NotificationsQueue, routingKey, err)
		}
	}

	return nil
}

// Channel returns the current channel, nil while disconnected
func (c *Connection) Channel() *amqp091.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// Close closes the connection and stops any reconnect loop
func (c *Connection) Close() error {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
	c.cancel()
	return c.release()
}

func (c *Connection) release() error {
	c.mu.Lock()
	conn, channel := c.conn, c.channel
	c.conn, c.channel = nil, nil
	c.mu.Unlock()

	if channel != nil {
		channel.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsClosed checks if the connection or its channel is closed
func (c *Connection) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed()
}

// Reconnect replaces a closed connection, blocking until it succeeds or the
// retries run out. It is a no-op when the connection is healthy.
func (c *Connection) Reconnect(ctx context.Context) error {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	if !c.IsClosed() {
		return nil
	}
	c.release()
	return c.connect(ctx)
}
