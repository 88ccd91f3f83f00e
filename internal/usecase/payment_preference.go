package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/infra/integration/mercadopago"
)

const DefaultEvaluationTitle = "Evaluación dental"

// evaluationTitles é a tabela fechada tipo_evaluacion -> título do item.
var evaluationTitles = map[string]string{
	"basic":                 "Evaluación dental básica",
	"basic_plus_specialist": "Evaluación dental básica + especialista",
	"specialist":            "Evaluación con especialista",
	"second_opinion":        "Segunda opinión dental",
}

// EvaluationTitle nunca falha: tipos desconhecidos usam o título padrão.
func EvaluationTitle(evaluationType string) string {
	if title, ok := evaluationTitles[strings.TrimSpace(evaluationType)]; ok {
		return title
	}
	return DefaultEvaluationTitle
}

type PreferenceSettings struct {
	UnitPrice    float64
	Currency     string
	Installments int
	SiteURL      string
	PublicAPIURL string
}

type PaymentPreferenceUseCase struct {
	Gateway  PaymentGateway
	Settings PreferenceSettings
	Metrics  FunnelMetrics
	Log      *zap.Logger
}

func NewPaymentPreferenceUseCase(gateway PaymentGateway, settings PreferenceSettings, metrics FunnelMetrics, log *zap.Logger) *PaymentPreferenceUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentPreferenceUseCase{
		Gateway:  gateway,
		Settings: settings,
		Metrics:  metrics,
		Log:      log,
	}
}

// CreatePreference monta a preferência do Checkout Pro para o caso.
func (uc *PaymentPreferenceUseCase) CreatePreference(ctx context.Context, input CreatePreferenceInput) (*CreatePreferenceOutput, error) {
	caseID := strings.TrimSpace(input.CaseID)
	if caseID == "" {
		return nil, &ValidationError{Field: "case_id", Code: CodeMissingField, Message: "is required"}
	}

	title := EvaluationTitle(input.EvaluationType)
	returnURL := func(status string) string {
		return fmt.Sprintf("%s/pago/%s?case_id=%s", uc.Settings.SiteURL, status, url.QueryEscape(caseID))
	}

	pref := mercadopago.PreferenceRequest{
		Items: []mercadopago.Item{{
			ID:         caseID,
			Title:      title,
			Quantity:   1,
			UnitPrice:  uc.Settings.UnitPrice,
			CurrencyID: uc.Settings.Currency,
		}},
		BackURLs: mercadopago.BackURLs{
			Success: returnURL("exito"),
			Failure: returnURL("error"),
			Pending: returnURL("pendiente"),
		},
		AutoReturn:        "approved",
		ExternalReference: caseID,
		NotificationURL:   uc.Settings.PublicAPIURL + "/webhooks/mercadopago",
		PaymentMethods:    mercadopago.PaymentMethods{Installments: uc.Settings.Installments},
	}
	if email := NormalizeEmail(input.PayerEmail); email != "" {
		pref.Payer = &mercadopago.Payer{Email: email}
	}

	resp, err := uc.Gateway.CreatePreference(ctx, pref)
	if err != nil {
		uc.Metrics.IntegrationError("mercadopago")
		uc.Log.Error("❌ falha ao criar preferência", zap.String("case_id", caseID), zap.Error(err))
		return nil, &UpstreamError{Service: "mercadopago", Err: err}
	}

	uc.Log.Info("💳 preferência criada", zap.String("case_id", caseID), zap.String("preference_id", resp.ID))

	return &CreatePreferenceOutput{
		PreferenceID: resp.ID,
		InitPoint:    resp.InitPoint,
		Title:        title,
	}, nil
}

// CheckStatus consulta ao vivo os pagamentos do caso. Nada é cacheado.
func (uc *PaymentPreferenceUseCase) CheckStatus(ctx context.Context, caseID string) (*CheckStatusOutput, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, &ValidationError{Field: "case_id", Code: CodeMissingField, Message: "is required"}
	}

	payments, err := uc.Gateway.SearchPayments(ctx, caseID)
	if err != nil {
		uc.Metrics.IntegrationError("mercadopago")
		uc.Log.Error("❌ falha ao consultar pagamentos", zap.String("case_id", caseID), zap.Error(err))
		return nil, &UpstreamError{Service: "mercadopago", Err: err}
	}

	return &CheckStatusOutput{Payments: payments}, nil
}
