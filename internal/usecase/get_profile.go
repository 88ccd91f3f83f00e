package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

const (
	profileAppointmentsLimit = 10
	profileHistoryLimit      = 5
	profilePaymentsLimit     = 10
)

// GetProfileUseCase monta o painel do paciente. Somente leitura.
type GetProfileUseCase struct {
	Verifier        TokenVerifier
	ProfileRepo     entity.ProfileRepositoryInterface
	AppointmentRepo entity.AppointmentRepositoryInterface
	LeadRepo        entity.LeadRepositoryInterface
	PaymentRepo     entity.PaymentRepositoryInterface
	Log             *zap.Logger
}

func NewGetProfileUseCase(
	verifier TokenVerifier,
	profileRepo entity.ProfileRepositoryInterface,
	appointmentRepo entity.AppointmentRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	paymentRepo entity.PaymentRepositoryInterface,
	log *zap.Logger,
) *GetProfileUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &GetProfileUseCase{
		Verifier:        verifier,
		ProfileRepo:     profileRepo,
		AppointmentRepo: appointmentRepo,
		LeadRepo:        leadRepo,
		PaymentRepo:     paymentRepo,
		Log:             log,
	}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, bearerToken string) (*entity.ProfileSummary, error) {
	token := strings.TrimSpace(bearerToken)
	if token == "" {
		return nil, &AuthError{Message: "missing bearer token"}
	}

	identity, err := uc.Verifier.Verify(ctx, token)
	if err != nil {
		uc.Log.Info("token rejeitado", zap.Error(err))
		return nil, &AuthError{Message: "invalid token", Err: err}
	}

	profile, err := uc.ProfileRepo.FindByUserID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &NotFoundError{Resource: "profile"}
		}
		return nil, &PersistenceError{Op: "select profiles", Err: err}
	}

	email := NormalizeEmail(profile.Email)
	if email == "" {
		email = NormalizeEmail(identity.Email)
	}

	summary := &entity.ProfileSummary{
		Profile:       *profile,
		Appointments:  []entity.Appointment{},
		FunnelHistory: []entity.Lead{},
		Payments:      []entity.Payment{},
	}

	appointments, err := uc.AppointmentRepo.ListRecent(ctx, identity.UserID, email, profileAppointmentsLimit)
	if err != nil {
		return nil, &PersistenceError{Op: "select appointments", Err: err}
	}
	if appointments != nil {
		summary.Appointments = appointments
	}

	if email != "" {
		history, err := uc.LeadRepo.ListByEmail(ctx, email, profileHistoryLimit)
		if err != nil {
			return nil, &PersistenceError{Op: "select funnel_leads", Err: err}
		}
		if history != nil {
			summary.FunnelHistory = history
		}
	}

	if len(summary.FunnelHistory) > 0 {
		ids := make([]string, 0, len(summary.FunnelHistory))
		for _, l := range summary.FunnelHistory {
			ids = append(ids, l.ID)
		}
		payments, err := uc.PaymentRepo.ListByLeadIDs(ctx, ids, profilePaymentsLimit)
		if err != nil {
			return nil, &PersistenceError{Op: "select funnel_payments", Err: err}
		}
		if payments != nil {
			summary.Payments = payments
		}
	}

	return summary, nil
}
