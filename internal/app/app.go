package app

import (
	"context"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/dental-funnel/internal/config"
	"github.com/xavierca1/dental-funnel/internal/infra/auth"
	"github.com/xavierca1/dental-funnel/internal/infra/database"
	"github.com/xavierca1/dental-funnel/internal/infra/http/handlers"
	"github.com/xavierca1/dental-funnel/internal/infra/http/middleware"
	"github.com/xavierca1/dental-funnel/internal/infra/http/router"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/dentalink"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/mercadopago"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/supabase"
	"github.com/xavierca1/dental-funnel/internal/infra/integration/whatsapp"
	"github.com/xavierca1/dental-funnel/internal/infra/mail"
	"github.com/xavierca1/dental-funnel/internal/infra/queue"
	"github.com/xavierca1/dental-funnel/internal/usecase"
)

// App é o grafo de dependências montado a partir da Config. Usado tanto pelo
// servidor HTTP quanto pela função Lambda.
type App struct {
	Handler http.Handler
	// Worker é nil quando RABBITMQ_URL não foi configurada.
	Worker *queue.Worker

	closers []func()
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{}

	// 1. Banco
	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no banco: %w", err)
	}
	a.closers = append(a.closers, func() { db.Close() })
	log.Info("✅ banco conectado")

	leadRepo := database.NewLeadRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	caseRepo := database.NewCaseRepository(db)
	profileRepo := database.NewProfileRepository(db)
	appointmentRepo := database.NewAppointmentRepository(db)

	// 2. Provedores externos
	dentalinkClient := dentalink.NewClient(cfg.DentalinkToken, cfg.DentalinkBaseURL, cfg.HTTPTimeout)
	mpClient := mercadopago.NewClient(cfg.MPAccessToken, cfg.MPBaseURL, cfg.HTTPTimeout)
	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.HTTPTimeout)
	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, cfg.WhatsAppBaseURL, cfg.WhatsAppLanguage, cfg.HTTPTimeout)
	verifier := auth.NewVerifier(cfg.SupabaseJWTSecret, supabaseClient)

	if !cfg.DentalinkEnabled() {
		log.Warn("⚠️ DENTALINK_TOKEN ausente: leads não serão sincronizados")
	}

	// 3. Fila (opcional). Sem RabbitMQ os eventos do funil são descartados.
	var (
		events     usecase.EventPublisher = queue.NoopProducer{}
		rabbitConn handlers.ConnectionState
	)
	if cfg.RabbitMQURL != "" {
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Warn("⚠️ RabbitMQ indisponível, notificações desligadas", zap.Error(err))
		} else {
			a.closers = append(a.closers, rmq.Close)
			events = queue.NewProducer(rmq.Ch)
			rabbitConn = rmq.Conn

			var clinic queue.ClinicNotifier
			if cfg.SMTPEnabled() {
				clinic = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.ClinicEmail)
			}
			a.Worker = queue.NewWorker(rmq.Ch, clinic, whatsappClient, cfg.WhatsAppTemplateLead, log.Named("worker"))
			log.Info("✅ RabbitMQ conectado", zap.String("queue", queue.QueueName))
		}
	}

	// 4. Redis (opcional) para o rate limit de /leads
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("⚠️ REDIS_URL inválida, rate limit em memória", zap.Error(err))
		} else {
			redisClient = goredis.NewClient(opts)
			a.closers = append(a.closers, func() { redisClient.Close() })
		}
	}

	// 5. Casos de uso
	metrics := middleware.FunnelRecorder{}
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, dentalinkClient, events, metrics, log)
	preferenceUC := usecase.NewPaymentPreferenceUseCase(mpClient, usecase.PreferenceSettings{
		UnitPrice:    cfg.EvaluationPrice,
		Currency:     cfg.EvaluationCurrency,
		Installments: cfg.MPInstallments,
		SiteURL:      cfg.SiteURL,
		PublicAPIURL: cfg.PublicAPIURL,
	}, metrics, log)
	reconcileUC := usecase.NewReconcilePaymentUseCase(mpClient, paymentRepo, caseRepo, events, metrics, log)
	profileUC := usecase.NewGetProfileUseCase(verifier, profileRepo, appointmentRepo, leadRepo, paymentRepo, log)

	// 6. Handlers e rotas
	a.Handler = router.NewRouter(router.Deps{
		Leads:      handlers.NewLeadHandler(captureLeadUC, log),
		Checkout:   handlers.NewCheckoutHandler(preferenceUC, log),
		MPWebhook:  handlers.NewWebhookHandler(reconcileUC, log),
		WhatsApp:   handlers.NewWhatsAppWebhookHandler(cfg.WhatsAppVerifyToken, log),
		Profile:    handlers.NewProfileHandler(profileUC, log),
		Scheduling: handlers.NewSchedulingHandler(dentalinkClient, log),
		Health: handlers.NewHealthHandler(db, rabbitConn, map[string]bool{
			"dentalink": cfg.DentalinkEnabled(),
			"whatsapp":  cfg.WhatsAppOutboundEnabled(),
			"smtp":      cfg.SMTPEnabled(),
			"redis":     redisClient != nil,
		}),
		LeadLimiter:    middleware.NewRateLimiter(redisClient, cfg.LeadRateLimit, cfg.LeadRateWindow, "rl:lead:", log).Handler,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	})

	return a, nil
}

// Close libera as conexões na ordem inversa da abertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
