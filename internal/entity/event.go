package entity

import "time"

const (
	EventLeadCaptured    = "lead.captured"
	EventPaymentApproved = "payment.approved"
)

// FunnelEvent é a notificação publicada no RabbitMQ após uma etapa do funil.
type FunnelEvent struct {
	Type       string    `json:"type"`
	LeadID     string    `json:"lead_id,omitempty"`
	CaseID     string    `json:"case_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
