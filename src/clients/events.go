package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
)

// EventPublisher pushes storefront events to the message exchange so
// downstream services (email, analytics, fulfilment) can react.
type EventPublisher interface {
	PublishActivity(msg *models.ActivityMessage) error
	PublishOrderPlaced(msg *models.OrderPlacedMessage) error
}

type eventPublisher struct {
	channel *amqp.Channel
	cfg     *config.RabbitMQConfig
}

func NewEventPublisher(rabbit *RabbitMQ, cfg *config.Configuration) EventPublisher {
	return &eventPublisher{
		channel: rabbit.Channel,
		cfg:     &cfg.Queue.RabbitMQ,
	}
}

func (p *eventPublisher) PublishActivity(msg *models.ActivityMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if err := p.publish(p.cfg.ActivityRoutingKey, msg); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     msg.UserID,
		"action":      msg.Action,
		"routing_key": p.cfg.ActivityRoutingKey,
	}).Debug("Activity message published")
	return nil
}

func (p *eventPublisher) PublishOrderPlaced(msg *models.OrderPlacedMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if err := p.publish(p.cfg.OrderRoutingKey, msg); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    msg.OrderID,
		"routing_key": p.cfg.OrderRoutingKey,
	}).Debug("Order placed message published")
	return nil
}

func (p *eventPublisher) publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.channel.Publish(
		p.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		logrus.WithError(err).WithField("routing_key", routingKey).Error("Failed to publish message")
		return models.ErrQueuePublish
	}

	return nil
}
