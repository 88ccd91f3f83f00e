package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/infra/integration/dentalink"
)

// Scheduler é o subconjunto do cliente Dentalink usado pelo proxy de agenda.
type Scheduler interface {
	ListDentists(ctx context.Context) ([]dentalink.Dentist, error)
	GetAvailableSlots(ctx context.Context, q dentalink.SlotQuery) ([]dentalink.Slot, error)
	CreateAppointment(ctx context.Context, input dentalink.CreateAppointmentInput) (*dentalink.Appointment, error)
}

type SchedulingHandler struct {
	Dentalink Scheduler
	Log       *zap.Logger
}

func NewSchedulingHandler(client Scheduler, log *zap.Logger) *SchedulingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SchedulingHandler{Dentalink: client, Log: log}
}

func (h *SchedulingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch action := r.URL.Query().Get("action"); action {
	case "get_dentistas":
		dentists, err := h.Dentalink.ListDentists(r.Context())
		if err != nil {
			h.fail(w, action, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "dentistas": dentists})

	case "get_slots":
		q := r.URL.Query()
		query := dentalink.SlotQuery{
			DentistID: q.Get("dentista_id"),
			BranchID:  q.Get("sucursal_id"),
			Date:      q.Get("fecha"),
		}
		if query.DentistID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dentista_id is required", "code": "missing_field"})
			return
		}
		slots, err := h.Dentalink.GetAvailableSlots(r.Context(), query)
		if err != nil {
			h.fail(w, action, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "slots": slots})

	case "create_cita":
		if r.Method != http.MethodPost {
			writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		var input dentalink.CreateAppointmentInput
		if err := decodeJSON(w, r, &input); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		cita, err := h.Dentalink.CreateAppointment(r.Context(), input)
		if err != nil {
			h.fail(w, action, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "cita": cita})

	default:
		writeErrorResponse(w, http.StatusBadRequest, "Unknown action")
	}
}

func (h *SchedulingHandler) fail(w http.ResponseWriter, action string, err error) {
	h.Log.Error("❌ dentalink falhou", zap.String("action", action), zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "External service unavailable")
}
