package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/entity"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/dentalink"
)

type CaptureLeadUseCase struct {
	LeadRepo  entity.LeadRepositoryInterface
	Dentalink PatientSyncer
	Events    EventPublisher
	Metrics   FunnelMetrics
	Log       *zap.Logger
}

func NewCaptureLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	dentalinkClient PatientSyncer,
	events EventPublisher,
	metrics FunnelMetrics,
	log *zap.Logger,
) *CaptureLeadUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CaptureLeadUseCase{
		LeadRepo:  leadRepo,
		Dentalink: dentalinkClient,
		Events:    events,
		Metrics:   metrics,
		Log:       log,
	}
}

// Execute valida, tenta sincronizar com o Dentalink e grava o lead.
// O lead é gravado mesmo quando o Dentalink falha.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if verr := ValidateCaptureLeadInput(input); verr != nil {
		return nil, verr
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = NormalizeEmail(input.Email)
	input.Phone = DigitsOnly(input.Phone)
	input.RUT = strings.TrimSpace(input.RUT)

	sync := uc.syncPatient(ctx, input)
	if !sync.Synced {
		uc.Log.Warn("⚠️ lead não sincronizado com Dentalink",
			zap.String("email", input.Email),
			zap.String("reason", string(sync.Reason)),
			zap.String("detail", sync.Detail),
		)
	}

	origin := strings.TrimSpace(input.Origin)
	if origin == "" {
		origin = entity.LeadOriginWeb
	}

	lead := &entity.Lead{
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		RUT:               input.RUT,
		Reason:            strings.TrimSpace(input.Reason),
		Origin:            origin,
		ExternalPatientID: sync.ExternalPatientID,
		Status:            entity.LeadStatusLead,
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		uc.Log.Error("❌ falha ao gravar lead", zap.String("email", input.Email), zap.Error(err))
		return nil, &PersistenceError{Op: "insert funnel_leads", Err: err}
	}

	uc.Metrics.LeadCaptured(sync.Synced)
	uc.Log.Info("✅ lead capturado",
		zap.String("lead_id", lead.ID),
		zap.Bool("dentalink_synced", sync.Synced),
	)

	uc.publish(ctx, entity.FunnelEvent{
		Type:       entity.EventLeadCaptured,
		LeadID:     lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Reason:     lead.Reason,
		OccurredAt: time.Now().UTC(),
	})

	return &CaptureLeadOutput{
		LeadID: lead.ID,
		Status: lead.Status,
		Sync:   sync,
	}, nil
}

func (uc *CaptureLeadUseCase) syncPatient(ctx context.Context, input CaptureLeadInput) SyncResult {
	if uc.Dentalink == nil || !uc.Dentalink.Configured() {
		return SyncResult{Reason: SyncCredentialMissing, Detail: "dentalink token not configured"}
	}

	if input.RUT != "" {
		existing, err := uc.Dentalink.FindPatientByRUT(ctx, input.RUT)
		if err != nil {
			return uc.syncFailure(err)
		}
		if existing != nil {
			return SyncResult{Synced: true, ExternalPatientID: strconv.Itoa(existing.ID)}
		}
	}

	firstName, lastName := SplitName(input.Name)
	created, err := uc.Dentalink.CreatePatient(ctx, dentalink.CreatePatientInput{
		FirstName: firstName,
		LastName:  lastName,
		RUT:       input.RUT,
		Email:     input.Email,
		Phone:     input.Phone,
	})
	if err != nil {
		return uc.syncFailure(err)
	}

	return SyncResult{Synced: true, ExternalPatientID: strconv.Itoa(created.ID)}
}

func (uc *CaptureLeadUseCase) syncFailure(err error) SyncResult {
	uc.Metrics.IntegrationError("dentalink")

	var apiErr *dentalink.APIError
	switch {
	case errors.Is(err, dentalink.ErrNotConfigured):
		return SyncResult{Reason: SyncCredentialMissing, Detail: err.Error()}
	case errors.As(err, &apiErr):
		return SyncResult{Reason: SyncUpstreamRejected, Detail: err.Error()}
	default:
		return SyncResult{Reason: SyncNetworkError, Detail: err.Error()}
	}
}

func (uc *CaptureLeadUseCase) publish(ctx context.Context, event entity.FunnelEvent) {
	if uc.Events == nil {
		return
	}
	if err := uc.Events.Publish(ctx, event); err != nil {
		uc.Log.Warn("⚠️ falha ao publicar evento do funil", zap.String("type", event.Type), zap.Error(err))
	}
}

// SplitName separa o primeiro nome do resto (apellidos).
func SplitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
