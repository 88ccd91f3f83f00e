package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/usecase"
)

const (
	actionCreatePreference = "create_preference"
	actionCheckStatus      = "check_status"
)

// CheckoutHandler trata POST /payments (preferência do Mercado Pago e consulta de status).
type CheckoutHandler struct {
	PaymentUC *usecase.PaymentPreferenceUseCase
	Log       *zap.Logger
}

func NewCheckoutHandler(uc *usecase.PaymentPreferenceUseCase, log *zap.Logger) *CheckoutHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutHandler{PaymentUC: uc, Log: log}
}

type checkoutRequest struct {
	Action         string `json:"action"`
	CaseID         string `json:"case_id"`
	EvaluationType string `json:"tipo_evaluacion"`
	Email          string `json:"email"`
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	action := strings.TrimSpace(req.Action)
	if action == "" {
		action = actionCreatePreference
	}

	switch action {
	case actionCreatePreference:
		out, err := h.PaymentUC.CreatePreference(r.Context(), usecase.CreatePreferenceInput{
			CaseID:         req.CaseID,
			EvaluationType: req.EvaluationType,
			PayerEmail:     req.Email,
		})
		if err != nil {
			writeUsecaseError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"init_point": out.InitPoint,
			"id":         out.PreferenceID,
		})

	case actionCheckStatus:
		out, err := h.PaymentUC.CheckStatus(r.Context(), req.CaseID)
		if err != nil {
			writeUsecaseError(w, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"payments": out.Payments,
		})

	default:
		writeErrorResponse(w, http.StatusBadRequest, "Unknown action")
	}
}
