package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

// amqpPublisher é o subconjunto de *amqp.Channel usado pelo producer.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch amqpPublisher
}

func NewProducer(ch amqpPublisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event entity.FunnelEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.funnel
		RoutingKey,   // k.funnel.notify
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event.Type,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}

// NoopProducer é usado quando RABBITMQ_URL não está configurada.
type NoopProducer struct{}

func (NoopProducer) Publish(context.Context, entity.FunnelEvent) error { return nil }
