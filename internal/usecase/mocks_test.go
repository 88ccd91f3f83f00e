package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/dental-funnel/internal/entity"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/dentalink"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/mercadopago"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	if args.Error(0) == nil && lead.ID == "" {
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

// MockPatientSyncer
type MockPatientSyncer struct {
	mock.Mock
}

func (m *MockPatientSyncer) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockPatientSyncer) FindPatientByRUT(ctx context.Context, rut string) (*dentalink.Patient, error) {
	args := m.Called(ctx, rut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dentalink.Patient), args.Error(1)
}

func (m *MockPatientSyncer) CreatePatient(ctx context.Context, input dentalink.CreatePatientInput) (*dentalink.Patient, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dentalink.Patient), args.Error(1)
}

// MockPaymentGateway
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

// MockPaymentRepository
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

// MockCaseRepository
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) ConfirmPayment(ctx context.Context, caseID string) (bool, error) {
	args := m.Called(ctx, caseID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event entity.FunnelEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockTokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

// MockProfileRepository
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

// MockAppointmentRepository
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

// fakePaymentStore reproduz o upsert com guarda de provider_updated_at.
type fakePaymentStore struct {
	mu   sync.Mutex
	rows map[string]entity.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{rows: map[string]entity.Payment{}}
}

func (s *fakePaymentStore) Upsert(_ context.Context, p *entity.Payment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rows[p.ExternalPaymentReference]
	if ok && current.ProviderUpdatedAt != nil && p.ProviderUpdatedAt != nil &&
		p.ProviderUpdatedAt.Before(*current.ProviderUpdatedAt) {
		return false, nil
	}
	s.rows[p.ExternalPaymentReference] = *p
	return true, nil
}

func (s *fakePaymentStore) ListByLeadIDs(context.Context, []string, int) ([]entity.Payment, error) {
	return nil, nil
}

// fakeCaseStore reproduz o UPDATE ... WHERE status <> 'payment_confirmed'.
type fakeCaseStore struct {
	mu          sync.Mutex
	status      map[string]string
	transitions int
}

func (s *fakeCaseStore) ConfirmPayment(_ context.Context, caseID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status[caseID] == entity.CaseStatusPaymentConfirmed {
		return false, nil
	}
	s.status[caseID] = entity.CaseStatusPaymentConfirmed
	s.transitions++
	return true, nil
}
