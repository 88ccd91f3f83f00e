package entity

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentPending  PaymentStatus = "pending"
	PaymentRejected PaymentStatus = "rejected"
)

// Payment é a visão local de um pagamento do Mercado Pago. LeadID guarda o
// external_reference do checkout (id do caso ou do lead).
type Payment struct {
	ID                       string        `json:"id"`
	LeadID                   string        `json:"lead_id"`
	Amount                   float64       `json:"amount"`
	Currency                 string        `json:"currency"`
	Status                   PaymentStatus `json:"status"`
	ExternalPaymentReference string        `json:"external_payment_reference"`
	Method                   string        `json:"method,omitempty"`
	ProviderUpdatedAt        *time.Time    `json:"provider_updated_at,omitempty"`
	CreatedAt                time.Time     `json:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at"`
}

type PaymentRepositoryInterface interface {
	// Upsert grava pela external_payment_reference. Retorna false quando a
	// linha existente é mais nova que o evento recebido.
	Upsert(ctx context.Context, p *Payment) (bool, error)
	ListByLeadIDs(ctx context.Context, leadIDs []string, limit int) ([]Payment, error)
}
