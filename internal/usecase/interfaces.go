package usecase

import (
	"context"
	"encoding/json"

	"github.com/xavierca1/dental-funnel/internal/entity"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/dentalink"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/mercadopago"
)

// PatientSyncer é o pedaço do Dentalink usado na captura de leads.
type PatientSyncer interface {
	Configured() bool
	FindPatientByRUT(ctx context.Context, rut string) (*dentalink.Patient, error)
	CreatePatient(ctx context.Context, input dentalink.CreatePatientInput) (*dentalink.Patient, error)
}

// PaymentGateway é o pedaço do Mercado Pago usado pelos casos de uso.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, pref mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
	SearchPayments(ctx context.Context, externalReference string) ([]json.RawMessage, error)
}

// EventPublisher publica notificações do funil. Falhas não interrompem o fluxo.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.FunnelEvent) error
}

// Identity é o usuário autenticado resolvido a partir do bearer token.
type Identity struct {
	UserID string
	Email  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// FunnelMetrics recebe os contadores de negócio (implementado pelo middleware de métricas).
type FunnelMetrics interface {
	LeadCaptured(synced bool)
	PaymentReconciled(status string)
	IntegrationError(service string)
}

type noopMetrics struct{}

func (noopMetrics) LeadCaptured(bool)        {}
func (noopMetrics) PaymentReconciled(string) {}
func (noopMetrics) IntegrationError(string)  {}
