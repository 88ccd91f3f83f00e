package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/usecase"
)

type ProfileHandler struct {
	GetProfileUC *usecase.GetProfileUseCase
	Log          *zap.Logger
}

func NewProfileHandler(uc *usecase.GetProfileUseCase, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{GetProfileUC: uc, Log: log}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.GetProfileUC.Execute(r.Context(), bearerToken(r))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    summary,
	})
}

// bearerToken devolve "" quando o header não segue o formato "Bearer <token>".
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
