package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger cobre *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionState cobre *amqp091.Connection.
type ConnectionState interface {
	IsClosed() bool
}

type HealthHandler struct {
	DB        Pinger
	RabbitMQ  ConnectionState
	Providers map[string]bool
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler recebe providers como nome -> configurado (dentalink, whatsapp, smtp...).
func NewHealthHandler(db Pinger, rabbitMQ ConnectionState, providers map[string]bool) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		Providers: providers,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	degraded := false

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.DB.PingContext(ctx)
		cancel()
		if err != nil {
			deps["database"] = "unhealthy"
			degraded = true
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
			degraded = true
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	for name, configured := range h.Providers {
		if configured {
			deps[name] = "configured"
		} else {
			deps[name] = "not configured"
		}
	}

	status, code := "healthy", http.StatusOK
	if degraded {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
