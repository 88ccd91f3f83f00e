package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/usecase"
)

// WebhookHandler recebe as notificações do Mercado Pago.
type WebhookHandler struct {
	ReconcileUC *usecase.ReconcilePaymentUseCase
	Log         *zap.Logger
}

func NewWebhookHandler(uc *usecase.ReconcilePaymentUseCase, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{ReconcileUC: uc, Log: log}
}

type mercadoPagoEvent struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	Action string `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// Handle responde 200 para tudo que não precisa ser reenviado (eventos
// irrelevantes ou malformados) e 500 quando a conciliação falhou.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	notification := parseNotification(body, r)

	out, err := h.ReconcileUC.Execute(r.Context(), notification)
	if err != nil {
		h.Log.Error("❌ webhook mercadopago falhou",
			zap.String("payment_id", notification.PaymentID),
			zap.Error(err),
		)
		writeErrorResponse(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}

	if !out.Ignored {
		h.Log.Info("webhook mercadopago processado",
			zap.String("payment_id", out.PaymentID),
			zap.String("status", out.Status),
			zap.Bool("case_confirmed", out.CaseConfirmed),
		)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parseNotification aceita o corpo JSON (data.id string ou número) e, como
// fallback, os parâmetros de query type/topic e data.id/id.
func parseNotification(body []byte, r *http.Request) usecase.PaymentNotification {
	var n usecase.PaymentNotification

	var event mercadoPagoEvent
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &event) == nil {
		n.Type = firstNonEmpty(event.Type, event.Topic)
		n.Action = event.Action
		n.PaymentID = rawID(event.Data.ID)
	}

	q := r.URL.Query()
	if n.Type == "" {
		n.Type = firstNonEmpty(q.Get("type"), q.Get("topic"))
	}
	if n.PaymentID == "" {
		n.PaymentID = firstNonEmpty(q.Get("data.id"), q.Get("id"))
	}

	n.Type = strings.TrimSpace(n.Type)
	n.PaymentID = strings.TrimSpace(n.PaymentID)
	return n
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var num json.Number
	if json.Unmarshal(raw, &num) == nil {
		return num.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
