package usecase

import "encoding/json"

// SyncReason explica por que o lead não foi sincronizado com o Dentalink.
type SyncReason string

const (
	SyncCredentialMissing SyncReason = "credential_missing"
	SyncUpstreamRejected  SyncReason = "upstream_rejected"
	SyncNetworkError      SyncReason = "network_error"
)

// SyncResult é o resultado explícito da sincronização best-effort.
type SyncResult struct {
	Synced            bool
	Reason            SyncReason
	Detail            string
	ExternalPatientID string
}

type CaptureLeadOutput struct {
	LeadID string     `json:"lead_id"`
	Status string     `json:"status"`
	Sync   SyncResult `json:"-"`
}

type CreatePreferenceInput struct {
	CaseID         string `json:"case_id"`
	EvaluationType string `json:"tipo_evaluacion,omitempty"`
	PayerEmail     string `json:"email,omitempty"`
}

type CreatePreferenceOutput struct {
	PreferenceID string `json:"id"`
	InitPoint    string `json:"init_point"`
	Title        string `json:"-"`
}

type CheckStatusOutput struct {
	Payments []json.RawMessage `json:"payments"`
}

// PaymentNotification é o conteúdo útil do webhook do Mercado Pago.
type PaymentNotification struct {
	Type      string
	Action    string
	PaymentID string
}

type ReconcileOutput struct {
	Ignored       bool
	PaymentID     string
	Status        string
	Applied       bool
	CaseConfirmed bool
}
