package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	query := `
		SELECT id, user_id, COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(rut, ''), COALESCE(external_patient_id, ''), created_at
		FROM profiles
		WHERE user_id = $1
	`

	var p entity.Profile
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Email, &p.Phone, &p.RUT, &p.ExternalPatientID, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// ListRecent junta as consultas do usuário com as ligadas aos leads do mesmo email.
func (r *AppointmentRepository) ListRecent(ctx context.Context, userID, email string, limit int) ([]entity.Appointment, error) {
	query := `
		SELECT id, COALESCE(appointment_date::text, ''), COALESCE(appointment_time::text, ''),
		       COALESCE(type_name, ''), COALESCE(status, ''), created_at
		FROM appointments
		WHERE user_id = $1
		   OR lead_id IN (SELECT id FROM funnel_leads WHERE email = $2)
		ORDER BY appointment_date DESC NULLS LAST, appointment_time DESC NULLS LAST
		LIMIT $3
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := []entity.Appointment{}
	for rows.Next() {
		var a entity.Appointment
		if err := rows.Scan(&a.ID, &a.AppointmentDate, &a.AppointmentTime, &a.TypeName, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}
