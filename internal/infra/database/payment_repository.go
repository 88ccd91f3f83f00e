package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Upsert grava pela external_payment_reference (UNIQUE). O UPDATE só acontece
// quando o evento não é mais antigo que o registro; caso contrário nenhuma
// linha volta do RETURNING e o resultado é false.
func (r *PaymentRepository) Upsert(ctx context.Context, p *entity.Payment) (bool, error) {
	query := `
		INSERT INTO funnel_payments
			(id, lead_id, amount, currency, status, external_payment_reference, method, provider_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (external_payment_reference) DO UPDATE SET
			lead_id = COALESCE(EXCLUDED.lead_id, funnel_payments.lead_id),
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			status = EXCLUDED.status,
			method = COALESCE(EXCLUDED.method, funnel_payments.method),
			provider_updated_at = COALESCE(EXCLUDED.provider_updated_at, funnel_payments.provider_updated_at),
			updated_at = NOW()
		WHERE funnel_payments.provider_updated_at IS NULL
		   OR EXCLUDED.provider_updated_at IS NULL
		   OR EXCLUDED.provider_updated_at >= funnel_payments.provider_updated_at
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		uuid.NewString(),
		nullString(p.LeadID),
		p.Amount,
		p.Currency,
		string(p.Status),
		p.ExternalPaymentReference,
		nullString(p.Method),
		p.ProviderUpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PaymentRepository) ListByLeadIDs(ctx context.Context, leadIDs []string, limit int) ([]entity.Payment, error) {
	payments := []entity.Payment{}
	if len(leadIDs) == 0 {
		return payments, nil
	}

	query := `
		SELECT id, lead_id, amount, currency, status, external_payment_reference,
		       COALESCE(method, ''), provider_updated_at, created_at, updated_at
		FROM funnel_payments
		WHERE lead_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(leadIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p         entity.Payment
			status    string
			updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&p.ID, &p.LeadID, &p.Amount, &p.Currency, &status, &p.ExternalPaymentReference,
			&p.Method, &updatedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Status = entity.PaymentStatus(status)
		if updatedAt.Valid {
			t := updatedAt.Time
			p.ProviderUpdatedAt = &t
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
