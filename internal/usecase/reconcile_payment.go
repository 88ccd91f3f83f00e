package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

const NotificationTypePayment = "payment"

// MapPaymentStatus reduz o status do Mercado Pago a approved/pending/rejected.
// Qualquer valor fora de approved e pending vira rejected (inclusive in_process).
func MapPaymentStatus(providerStatus string) entity.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "approved":
		return entity.PaymentApproved
	case "pending":
		return entity.PaymentPending
	default:
		return entity.PaymentRejected
	}
}

type ReconcilePaymentUseCase struct {
	Gateway     PaymentGateway
	PaymentRepo entity.PaymentRepositoryInterface
	CaseRepo    entity.CaseRepositoryInterface
	Events      EventPublisher
	Metrics     FunnelMetrics
	Log         *zap.Logger
}

func NewReconcilePaymentUseCase(
	gateway PaymentGateway,
	paymentRepo entity.PaymentRepositoryInterface,
	caseRepo entity.CaseRepositoryInterface,
	events EventPublisher,
	metrics FunnelMetrics,
	log *zap.Logger,
) *ReconcilePaymentUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconcilePaymentUseCase{
		Gateway:     gateway,
		PaymentRepo: paymentRepo,
		CaseRepo:    caseRepo,
		Events:      events,
		Metrics:     metrics,
		Log:         log,
	}
}

// Execute busca o pagamento no provedor (o corpo do webhook nunca é confiável),
// grava pela referência externa e confirma o caso quando aprovado.
// Pode ser repetido quantas vezes o provedor reenviar.
func (uc *ReconcilePaymentUseCase) Execute(ctx context.Context, n PaymentNotification) (*ReconcileOutput, error) {
	if n.Type != NotificationTypePayment || strings.TrimSpace(n.PaymentID) == "" {
		uc.Log.Debug("webhook ignorado", zap.String("type", n.Type), zap.String("action", n.Action))
		return &ReconcileOutput{Ignored: true}, nil
	}

	mp, err := uc.Gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		uc.Metrics.IntegrationError("mercadopago")
		uc.Log.Error("❌ falha ao buscar pagamento", zap.String("payment_id", n.PaymentID), zap.Error(err))
		return nil, &UpstreamError{Service: "mercadopago", Err: err}
	}

	// Sem external_reference o pagamento é gravado mesmo assim (lead_id NULL),
	// mas não há caso para confirmar.
	caseID := strings.TrimSpace(mp.ExternalReference)
	if caseID == "" {
		uc.Log.Warn("⚠️ pagamento sem external_reference", zap.String("payment_id", n.PaymentID))
	}

	status := MapPaymentStatus(mp.Status)
	payment := &entity.Payment{
		LeadID:                   caseID,
		Amount:                   mp.TransactionAmount,
		Currency:                 mp.CurrencyID,
		Status:                   status,
		ExternalPaymentReference: strconv.FormatInt(mp.ID, 10),
		Method:                   mp.PaymentMethodID,
		ProviderUpdatedAt:        mp.LastUpdated(),
	}
	if payment.ExternalPaymentReference == "0" {
		payment.ExternalPaymentReference = n.PaymentID
	}

	applied, err := uc.PaymentRepo.Upsert(ctx, payment)
	if err != nil {
		uc.Log.Error("❌ falha ao gravar pagamento", zap.String("payment_id", n.PaymentID), zap.Error(err))
		return nil, &PersistenceError{Op: "upsert funnel_payments", Err: err}
	}

	out := &ReconcileOutput{
		PaymentID: payment.ExternalPaymentReference,
		Status:    string(status),
		Applied:   applied,
	}

	if !applied {
		uc.Log.Info("evento mais antigo que o registro atual, mantido",
			zap.String("payment_id", payment.ExternalPaymentReference),
			zap.String("status", string(status)),
		)
		return out, nil
	}

	uc.Metrics.PaymentReconciled(string(status))

	if status != entity.PaymentApproved || caseID == "" {
		uc.Log.Info("pagamento conciliado",
			zap.String("payment_id", payment.ExternalPaymentReference),
			zap.String("status", string(status)),
		)
		return out, nil
	}

	confirmed, err := uc.CaseRepo.ConfirmPayment(ctx, caseID)
	if err != nil {
		uc.Log.Error("❌ falha ao confirmar caso", zap.String("case_id", caseID), zap.Error(err))
		return nil, &PersistenceError{Op: "update second_opinions", Err: err}
	}
	out.CaseConfirmed = confirmed

	if confirmed {
		uc.Log.Info("✅ pagamento aprovado, caso confirmado",
			zap.String("case_id", caseID),
			zap.String("payment_id", payment.ExternalPaymentReference),
		)
		uc.publish(ctx, entity.FunnelEvent{
			Type:       entity.EventPaymentApproved,
			CaseID:     caseID,
			Email:      NormalizeEmail(mp.Payer.Email),
			Amount:     mp.TransactionAmount,
			Currency:   mp.CurrencyID,
			OccurredAt: time.Now().UTC(),
		})
	}

	return out, nil
}

func (uc *ReconcilePaymentUseCase) publish(ctx context.Context, event entity.FunnelEvent) {
	if uc.Events == nil {
		return
	}
	if err := uc.Events.Publish(ctx, event); err != nil {
		uc.Log.Warn("⚠️ falha ao publicar evento do funil", zap.String("type", event.Type), zap.Error(err))
	}
}
