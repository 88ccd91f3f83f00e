package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/entity"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/whatsapp"
)

// ClinicNotifier avisa a equipe da clínica (email).
type ClinicNotifier interface {
	NotifyNewLead(event entity.FunnelEvent) error
	NotifyPaymentApproved(event entity.FunnelEvent) error
}

// PatientMessenger envia o template de boas-vindas ao paciente.
type PatientMessenger interface {
	Configured() bool
	SendTemplate(ctx context.Context, input whatsapp.SendMessageInput) (string, error)
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel      consumer
	Clinic       ClinicNotifier
	Messenger    PatientMessenger
	LeadTemplate string
	Log          *zap.Logger
}

func NewWorker(ch consumer, clinic ClinicNotifier, messenger PatientMessenger, leadTemplate string, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		Channel:      ch,
		Clinic:       clinic,
		Messenger:    messenger,
		LeadTemplate: leadTemplate,
		Log:          log,
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Log.Info("worker aguardando na fila", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event entity.FunnelEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Log.Error("❌ [WORKER] JSON inválido", zap.Error(err))
		// Mensagem malformada: rejeita sem requeue para não travar a fila.
		d.Nack(false, false)
		return
	}

	if err := w.processMessage(ctx, event); err != nil {
		w.Log.Error("❌ [WORKER] falha ao notificar",
			zap.String("type", event.Type),
			zap.String("lead_id", event.LeadID),
			zap.String("case_id", event.CaseID),
			zap.Error(err),
		)
		// Sem política de retentativa: vai para a DLQ.
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, event entity.FunnelEvent) error {
	switch event.Type {
	case entity.EventLeadCaptured:
		var errs []error
		if w.Clinic != nil {
			if err := w.Clinic.NotifyNewLead(event); err != nil {
				errs = append(errs, fmt.Errorf("email clínica: %w", err))
			}
		}
		if w.Messenger != nil && w.Messenger.Configured() && event.Phone != "" {
			_, err := w.Messenger.SendTemplate(ctx, whatsapp.SendMessageInput{
				PhoneNumber:  event.Phone,
				TemplateName: w.LeadTemplate,
				Parameters:   []string{firstName(event.Name)},
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("whatsapp paciente: %w", err))
			}
		}
		return errors.Join(errs...)

	case entity.EventPaymentApproved:
		if w.Clinic == nil {
			return nil
		}
		return w.Clinic.NotifyPaymentApproved(event)

	default:
		// Tipo desconhecido: só loga e confirma para tirar da fila.
		w.Log.Warn("⚠️ tipo de evento desconhecido", zap.String("type", event.Type))
		return nil
	}
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}
