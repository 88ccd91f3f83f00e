package handlers

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/dental-funnel/internal/entity"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/dentalink"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/mercadopago"
	"github.com/xavierca1/dental-funnel/internal/usecase"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	if args.Error(0) == nil {
		lead.ID = "lead-123"
	}
	return args.Error(0)
}

func (m *MockLeadRepository) ListByEmail(ctx context.Context, email string, limit int) ([]entity.Lead, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePreference(ctx context.Context, pref mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error) {
	args := m.Called(ctx, pref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.PreferenceResponse), args.Error(1)
}

func (m *MockPaymentGateway) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Payment), args.Error(1)
}

func (m *MockPaymentGateway) SearchPayments(ctx context.Context, externalReference string) ([]json.RawMessage, error) {
	args := m.Called(ctx, externalReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Upsert(ctx context.Context, p *entity.Payment) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) ListByLeadIDs(ctx context.Context, leadIDs []string, limit int) ([]entity.Payment, error) {
	args := m.Called(ctx, leadIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payment), args.Error(1)
}

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) ConfirmPayment(ctx context.Context, caseID string) (bool, error) {
	args := m.Called(ctx, caseID)
	return args.Bool(0), args.Error(1)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*usecase.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Identity), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) ListRecent(ctx context.Context, userID, email string, limit int) ([]entity.Appointment, error) {
	args := m.Called(ctx, userID, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) ListDentists(ctx context.Context) ([]dentalink.Dentist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dentalink.Dentist), args.Error(1)
}

func (m *MockScheduler) GetAvailableSlots(ctx context.Context, q dentalink.SlotQuery) ([]dentalink.Slot, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dentalink.Slot), args.Error(1)
}

func (m *MockScheduler) CreateAppointment(ctx context.Context, input dentalink.CreateAppointmentInput) (*dentalink.Appointment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dentalink.Appointment), args.Error(1)
}
