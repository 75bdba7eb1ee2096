package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"sitecontent/internal/domain"
)

// RabbitMQ announces content changes to downstream indexers and cache
// purgers over a durable direct exchange.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	pathPrefix string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
	// PathPrefix is the public route prefix of the published posts.
	PathPrefix string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		pathPrefix: cfg.PathPrefix,
		logger:     logger,
	}, nil
}

// ContentEvent is the message body of one content change.
type ContentEvent struct {
	Action     domain.ChangeAction `json:"action"`
	Source     string              `json:"source"`
	Slug       string              `json:"slug"`
	Path       string              `json:"path"`
	ModifiedAt time.Time           `json:"modifiedAt"`
	Timestamp  time.Time           `json:"timestamp"`
}

// NewContentEvent builds the event for change, served under pathPrefix.
func NewContentEvent(change domain.ContentChange, pathPrefix string, now time.Time) ContentEvent {
	return ContentEvent{
		Action:     change.Action,
		Source:     change.Source,
		Slug:       change.Slug,
		Path:       strings.TrimRight(pathPrefix, "/") + "/" + change.Slug,
		ModifiedAt: change.ModifiedAt,
		Timestamp:  now.UTC(),
	}
}

func (r *RabbitMQ) Publish(ctx context.Context, change domain.ContentChange) error {
	msg := NewContentEvent(change, r.pathPrefix, time.Now())

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         string(change.Action),
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published content event",
		"slug", change.Slug,
		"action", change.Action,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
