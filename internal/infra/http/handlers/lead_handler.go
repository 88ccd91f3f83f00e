package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/usecase"
)

type LeadHandler struct {
	CaptureLeadUC *usecase.CaptureLeadUseCase
	Log           *zap.Logger
}

func NewLeadHandler(uc *usecase.CaptureLeadUseCase, log *zap.Logger) *LeadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeadHandler{CaptureLeadUC: uc, Log: log}
}

type CaptureLeadData struct {
	LeadID          string `json:"lead_id"`
	Status          string `json:"status"`
	DentalinkSynced bool   `json:"dentalink_synced"`
	SyncDetail      string `json:"sync_detail,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool            `json:"success"`
	Data    CaptureLeadData `json:"data"`
}

// CaptureLead trata POST /leads. O rate limit por IP fica no middleware.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req usecase.CaptureLeadInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON", "code": usecase.CodeBadRequest})
		return
	}

	out, err := h.CaptureLeadUC.Execute(r.Context(), req)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}

	data := CaptureLeadData{
		LeadID:          out.LeadID,
		Status:          out.Status,
		DentalinkSynced: out.Sync.Synced,
	}
	if !out.Sync.Synced {
		data.SyncDetail = string(out.Sync.Reason)
	}

	writeJSON(w, http.StatusCreated, CaptureLeadResponse{Success: true, Data: data})
}
