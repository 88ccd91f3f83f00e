package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

// invalid_text_representation: a referência externa não é um uuid válido.
const pgInvalidTextRepresentation = "22P02"

type CaseRepository struct {
	DB *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{DB: db}
}

// ConfirmPayment só altera casos que ainda não estão confirmados, então a
// transição acontece uma única vez mesmo com webhooks repetidos.
func (r *CaseRepository) ConfirmPayment(ctx context.Context, caseID string) (bool, error) {
	query := `
		UPDATE second_opinions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IS DISTINCT FROM $2
	`

	res, err := r.DB.ExecContext(ctx, query, caseID, entity.CaseStatusPaymentConfirmed)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
			// Referência que não é de um caso: nada a confirmar, não adianta reenviar.
			return false, nil
		}
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
