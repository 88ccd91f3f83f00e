package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// WhatsAppWebhookHandler faz o handshake de verificação da Meta e recebe
// eventos (sem roteamento nem respostas automáticas).
type WhatsAppWebhookHandler struct {
	VerifyToken string
	Log         *zap.Logger
}

func NewWhatsAppWebhookHandler(verifyToken string, log *zap.Logger) *WhatsAppWebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WhatsAppWebhookHandler{VerifyToken: verifyToken, Log: log}
}

func (h *WhatsAppWebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || !h.tokenMatches(token) {
		h.Log.Warn("🔒 verificação do webhook whatsapp recusada", zap.String("mode", mode))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, challenge)
}

func (h *WhatsAppWebhookHandler) tokenMatches(token string) bool {
	// token vazio no servidor nunca casa
	if h.VerifyToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.VerifyToken)) == 1
}

func (h *WhatsAppWebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))

	var envelope struct {
		Object string `json:"object"`
	}
	_ = json.Unmarshal(body, &envelope)

	h.Log.Info("📩 evento whatsapp recebido",
		zap.Int("bytes", len(body)),
		zap.String("object", envelope.Object),
	)

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "EVENT_RECEIVED")
}
