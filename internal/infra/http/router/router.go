package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/infra/http/handlers"
	"github.com/xavierca1/dental-funnel/internal/infra/http/middleware"
)

// Deps reúne os handlers já montados. LeadLimiter é opcional.
type Deps struct {
	Leads       *handlers.LeadHandler
	Checkout    *handlers.CheckoutHandler
	MPWebhook   *handlers.WebhookHandler
	WhatsApp    *handlers.WhatsAppWebhookHandler
	Profile     *handlers.ProfileHandler
	Scheduling  *handlers.SchedulingHandler
	Health      *handlers.HealthHandler
	LeadLimiter func(http.Handler) http.Handler

	AllowedOrigins []string
	Log            *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.LeadLimiter != nil {
			r.Use(d.LeadLimiter)
		}
		r.Post("/leads", d.Leads.CaptureLead)
	})

	r.Post("/payments", d.Checkout.Handle)
	r.Get("/profile", d.Profile.Get)

	r.Get("/scheduling", d.Scheduling.Handle)
	r.Post("/scheduling", d.Scheduling.Handle)

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/mercadopago", d.MPWebhook.Handle)
		r.Get("/whatsapp", d.WhatsApp.Verify)
		r.Post("/whatsapp", d.WhatsApp.Receive)
	})

	return r
}
