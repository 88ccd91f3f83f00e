package entity

import (
	"context"
	"errors"
	"time"
)

const (
	LeadStatusLead = "LEAD"
	LeadOriginWeb  = "web"
)

// ErrNotFound é devolvido pelos repositórios quando a linha não existe.
var ErrNotFound = errors.New("record not found")

type Lead struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	RUT               string    `json:"rut,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	Origin            string    `json:"origin"`
	ExternalPatientID string    `json:"external_patient_id,omitempty"`
	Status            string    `json:"status"` // LEAD, ...
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	ListByEmail(ctx context.Context, email string, limit int) ([]Lead, error)
}
