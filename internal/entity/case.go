package entity

import "context"

const CaseStatusPaymentConfirmed = "payment_confirmed"

// Case é a segunda opinião/avaliação (tabela second_opinions). Só o status
// é alterado por este serviço.
type Case struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	FlowType string `json:"flow_type,omitempty"`
}

type CaseRepositoryInterface interface {
	// ConfirmPayment move o caso para payment_confirmed. Retorna true apenas
	// quando esta chamada fez a transição.
	ConfirmPayment(ctx context.Context, caseID string) (bool, error)
}
