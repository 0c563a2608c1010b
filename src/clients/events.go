package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// EventPublisher publishes token/session lifecycle events to RabbitMQ.
// Publishing is best-effort: failures are logged and never block the
// lifecycle operation that produced the event. A nil publisher is a no-op.
type EventPublisher struct {
	channel *amqp.Channel
	cfg     *config.RabbitMQConfig
}

func NewEventPublisher(cfg *config.Configuration, channel *amqp.Channel) *EventPublisher {
	return &EventPublisher{
		channel: channel,
		cfg:     &cfg.Queue.RabbitMQ,
	}
}

// Publish sends a lifecycle event to the configured exchange.
func (p *EventPublisher) Publish(event models.LifecycleEvent) error {
	if p == nil || p.channel == nil {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	err = p.channel.Publish(
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   event.Timestamp,
		},
	)

	if err != nil {
		logrus.WithError(err).WithField("event", event.Event).Error("Failed to publish lifecycle event")
		return fmt.Errorf("failed to publish lifecycle event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event":       event.Event,
		"session_id":  event.SessionID,
		"exchange":    p.cfg.Exchange,
		"routing_key": p.cfg.RoutingKey,
	}).Debug("Lifecycle event published")

	return nil
}
