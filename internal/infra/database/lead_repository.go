package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Create insere uma nova linha em funnel_leads. Cada envio do formulário é um registro.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}

	query := `
		INSERT INTO funnel_leads
			(id, name, email, phone, rut, reason, origin, external_patient_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		nullString(lead.RUT),
		nullString(lead.Reason),
		lead.Origin,
		nullString(lead.ExternalPatientID),
		lead.Status,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
}

func (r *LeadRepository) ListByEmail(ctx context.Context, email string, limit int) ([]entity.Lead, error) {
	query := `
		SELECT id, name, email, phone, COALESCE(rut, ''), COALESCE(reason, ''), origin,
		       COALESCE(external_patient_id, ''), status, created_at, updated_at
		FROM funnel_leads
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Email, &l.Phone, &l.RUT, &l.Reason, &l.Origin,
			&l.ExternalPatientID, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
