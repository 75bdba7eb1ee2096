//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"sitecontent/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishCreate() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-create",
		RoutingKey: "test-routing-key-create",
		QueueName:  "test-queue-create",
		PathPrefix: "/blog",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	now := time.Now().UTC().Truncate(time.Millisecond)
	err = pub.Publish(s.ctx, domain.ContentChange{
		Action:     domain.ChangeCreate,
		Source:     "static",
		Slug:       "map-pack",
		ModifiedAt: now,
	})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received ContentEvent
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(domain.ChangeCreate, received.Action)
	s.Equal("static", received.Source)
	s.Equal("map-pack", received.Slug)
	s.Equal("/blog/map-pack", received.Path)
	s.True(now.Equal(received.ModifiedAt))
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishDelete() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-delete",
		RoutingKey: "test-routing-key-delete",
		QueueName:  "test-queue-delete",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, domain.ContentChange{Action: domain.ChangeDelete, Source: "static", Slug: "gone"})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal("delete", msg.Type)

	var received ContentEvent
	s.NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(domain.ChangeDelete, received.Action)
	s.Equal("/gone", received.Path)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-persist",
		RoutingKey: "test-routing-key-persist",
		QueueName:  "test-queue-persist",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, domain.ContentChange{
		Action:     domain.ChangeUpdate,
		Source:     "static",
		Slug:       "persistent",
		ModifiedAt: time.Now(),
	})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}