package entity

import (
	"context"
	"time"
)

type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	RUT               string    `json:"rut,omitempty"`
	ExternalPatientID string    `json:"external_patient_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type Appointment struct {
	ID              string    `json:"id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	TypeName        string    `json:"type_name"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProfileSummary é o agregado devolvido em GET /profile. As listas nunca são nil.
type ProfileSummary struct {
	Profile
	Appointments  []Appointment `json:"appointments"`
	FunnelHistory []Lead        `json:"funnel_history"`
	Payments      []Payment     `json:"payments"`
}

type ProfileRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
}

type AppointmentRepositoryInterface interface {
	ListRecent(ctx context.Context, userID, email string, limit int) ([]Appointment, error)
}
