package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/dental-funnel/internal/entity"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/whatsapp"
)

// MockChannel cobre publish, consume e declaração de topologia.
type MockChannel struct {
	mock.Mock
	deliveries chan amqp.Delivery
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	ret := m.Called(queue, autoAck)
	return m.deliveries, ret.Error(0)
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind).Error(0)
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ret := m.Called(name, args)
	return amqp.Queue{Name: name}, ret.Error(0)
}

func (m *MockChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return m.Called(name, key, exchange).Error(0)
}

// fakeAcknowledger registra ack/nack das entregas.
type fakeAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type MockClinicNotifier struct {
	mock.Mock
}

func (m *MockClinicNotifier) NotifyNewLead(event entity.FunnelEvent) error {
	return m.Called(event).Error(0)
}

func (m *MockClinicNotifier) NotifyPaymentApproved(event entity.FunnelEvent) error {
	return m.Called(event).Error(0)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) Configured() bool { return m.Called().Bool(0) }

func (m *MockMessenger) SendTemplate(ctx context.Context, input whatsapp.SendMessageInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// TestSetupTopology - DLX, DLQ e fila principal com dead-letter
func TestSetupTopology(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", DLXName, "direct").Return(nil)
	ch.On("QueueDeclare", DLQName, amqp.Table(nil)).Return(nil)
	ch.On("QueueBind", DLQName, RoutingKey, DLXName).Return(nil)
	ch.On("ExchangeDeclare", ExchangeName, "direct").Return(nil)
	ch.On("QueueDeclare", QueueName, mock.MatchedBy(func(args amqp.Table) bool {
		return args["x-dead-letter-exchange"] == DLXName
	})).Return(nil)
	ch.On("QueueBind", QueueName, RoutingKey, ExchangeName).Return(nil)

	require.NoError(t, setupTopology(ch))
	ch.AssertExpectations(t)
}

func TestSetupTopologyError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", DLXName, "direct").Return(errors.New("access refused"))

	assert.Error(t, setupTopology(ch))
}

// TestProducerPublish - evento persistente no exchange do funil
func TestProducerPublish(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var evt entity.FunnelEvent
			return json.Unmarshal(msg.Body, &evt) == nil &&
				evt.LeadID == "lead-1" &&
				msg.DeliveryMode == amqp.Persistent &&
				msg.Type == entity.EventLeadCaptured
		})).Return(nil)

	err := NewProducer(ch).Publish(context.Background(), entity.FunnelEvent{Type: entity.EventLeadCaptured, LeadID: "lead-1"})

	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestProducerPublishError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	err := NewProducer(ch).Publish(context.Background(), entity.FunnelEvent{Type: "x"})

	assert.ErrorContains(t, err, "channel closed")
}

func delivery(ack *fakeAcknowledger, tag uint64, body []byte) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: body}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// TestWorkerLeadCaptured - email para a clínica e template para o paciente
func TestWorkerLeadCaptured(t *testing.T) {
	clinic := new(MockClinicNotifier)
	messenger := new(MockMessenger)
	ack := &fakeAcknowledger{}

	evt := entity.FunnelEvent{Type: entity.EventLeadCaptured, LeadID: "l1", Name: "Ana Pérez", Phone: "56912345678"}
	clinic.On("NotifyNewLead", evt).Return(nil)
	messenger.On("Configured").Return(true)
	messenger.On("SendTemplate", mock.Anything, whatsapp.SendMessageInput{
		PhoneNumber:  "56912345678",
		TemplateName: "lead_bienvenida",
		Parameters:   []string{"Ana"},
	}).Return("wamid.1", nil)

	w := NewWorker(new(MockChannel), clinic, messenger, "lead_bienvenida", nil)
	w.handleDelivery(context.Background(), delivery(ack, 1, mustJSON(t, evt)))

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Empty(t, ack.nacked)
	clinic.AssertExpectations(t)
	messenger.AssertExpectations(t)
}

// TestWorkerBadJSON - mensagem podre vai para DLQ sem requeue
func TestWorkerBadJSON(t *testing.T) {
	ack := &fakeAcknowledger{}
	w := NewWorker(new(MockChannel), nil, nil, "", nil)

	w.handleDelivery(context.Background(), delivery(ack, 7, []byte("{nope")))

	assert.Equal(t, []uint64{7}, ack.nacked)
	assert.Equal(t, []bool{false}, ack.requeue)
}

// TestWorkerNotifierError - falha na notificação faz Nack sem requeue
func TestWorkerNotifierError(t *testing.T) {
	clinic := new(MockClinicNotifier)
	ack := &fakeAcknowledger{}
	evt := entity.FunnelEvent{Type: entity.EventPaymentApproved, CaseID: "case-1"}
	clinic.On("NotifyPaymentApproved", evt).Return(errors.New("smtp: 421"))

	w := NewWorker(new(MockChannel), clinic, nil, "", nil)
	w.handleDelivery(context.Background(), delivery(ack, 3, mustJSON(t, evt)))

	assert.Equal(t, []uint64{3}, ack.nacked)
	assert.Equal(t, []bool{false}, ack.requeue)
}

// TestWorkerUnknownType - tipo desconhecido é confirmado
func TestWorkerUnknownType(t *testing.T) {
	ack := &fakeAcknowledger{}
	w := NewWorker(new(MockChannel), new(MockClinicNotifier), nil, "", nil)

	w.handleDelivery(context.Background(), delivery(ack, 9, mustJSON(t, entity.FunnelEvent{Type: "case.closed"})))

	assert.Equal(t, []uint64{9}, ack.acked)
}

// TestWorkerStartStopsOnCancel - Start retorna quando o contexto é cancelado
func TestWorkerStartStopsOnCancel(t *testing.T) {
	ch := &MockChannel{deliveries: make(chan amqp.Delivery)}
	ch.On("Consume", QueueName, false).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(ch, nil, nil, "", nil).Start(ctx, QueueName) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker não parou")
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ana", firstName("Ana María"))
	assert.Equal(t, "Ana", firstName("Ana"))
	assert.Equal(t, "", firstName(""))
}
