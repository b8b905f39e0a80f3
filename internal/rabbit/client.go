package rabbit

import (
	"context"
	"encoding/json"
	"eventdesk/internal/dto"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Client publishes change notices to a fanout exchange and consumes them from
// a queue bound to it. Every console gets its own queue, so every console
// sees every notice.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	origin   string
	log      *zerolog.Logger
}

// NewRabbit connects and declares the topology. An empty queue name asks the
// broker for an exclusive, auto-deleted queue.
func NewRabbit(url, exchange, queue string, log *zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open RabbitMQ channel: %w", err)
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		origin:   uuid.NewString(),
		log:      log,
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		client.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	exclusive := queue == ""
	q, err := ch.QueueDeclare(
		queue,
		!exclusive,
		exclusive,
		exclusive,
		false,
		nil,
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	client.queue = q.Name

	if err := ch.QueueBind(
		q.Name,
		"",
		exchange,
		false,
		nil,
	); err != nil {
		client.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	log.Info().Str("exchange", exchange).Str("queue", q.Name).Msg("RabbitMQ initialized")
	return client, nil
}

// Origin identifies notices published by this client.
func (c *Client) Origin() string { return c.origin }

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.log.Info().Msg("RabbitMQ connection closed")
}

func (c *Client) Publish(ctx context.Context, notice dto.Notice) error {
	notice.Origin = c.origin
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		c.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to publish notice to RabbitMQ")
		return err
	}
	c.log.Debug().Str("collection", notice.Collection).Int("event_id", notice.EventID).Msg("notice published")
	return nil
}

// Consume hands every delivery to handler. Failed deliveries are dropped,
// not requeued.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				c.log.Warn().Err(err).Msg("failed to process notice")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	c.log.Info().Str("queue", c.queue).Msg("started consuming notices")
	return nil
}
