package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda a configuração do processo. É montada uma vez no boot
// e injetada nos construtores; nenhum pacote lê os.Getenv por conta própria.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	// Mercado Pago
	MPAccessToken      string
	MPBaseURL          string
	EvaluationPrice    float64
	EvaluationCurrency string
	MPInstallments     int

	// Dentalink (opcional: sem token o sync fica desligado)
	DentalinkToken   string
	DentalinkBaseURL string

	// WhatsApp Cloud API
	WhatsAppVerifyToken  string
	WhatsAppAccessToken  string
	WhatsAppPhoneID      string
	WhatsAppBaseURL      string
	WhatsAppTemplateLead string
	WhatsAppLanguage     string

	// Supabase
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	SiteURL        string
	PublicAPIURL   string
	AllowedOrigins []string

	RabbitMQURL string
	RedisURL    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	ClinicEmail  string

	LeadRateLimit  int
	LeadRateWindow time.Duration
	HTTPTimeout    time.Duration
}

// Load lê o .env (se existir) e o ambiente. Segredos nunca têm valor padrão.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		MPAccessToken:      os.Getenv("MP_ACCESS_TOKEN"),
		MPBaseURL:          getEnv("MP_BASE_URL", "https://api.mercadopago.com"),
		EvaluationPrice:    getEnvAsFloat("EVALUATION_PRICE", 29990),
		EvaluationCurrency: getEnv("EVALUATION_CURRENCY", "CLP"),
		MPInstallments:     getEnvAsInt("MP_INSTALLMENTS", 3),

		DentalinkToken:   os.Getenv("DENTALINK_TOKEN"),
		DentalinkBaseURL: getEnv("DENTALINK_BASE_URL", "https://api.dentalink.healthatom.com/api/v1"),

		WhatsAppVerifyToken:  os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppAccessToken:  os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:      os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppBaseURL:      getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
		WhatsAppTemplateLead: getEnv("WHATSAPP_TEMPLATE_LEAD", "lead_bienvenida"),
		WhatsAppLanguage:     getEnv("WHATSAPP_TEMPLATE_LANGUAGE", "es"),

		SupabaseURL:       strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),

		SiteURL:        strings.TrimRight(getEnv("SITE_URL", "http://localhost:5173"), "/"),
		PublicAPIURL:   strings.TrimRight(getEnv("PUBLIC_API_URL", "http://localhost:8080"), "/"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-responder@clinica.cl"),
		ClinicEmail:  os.Getenv("CLINIC_EMAIL"),

		LeadRateLimit:  getEnvAsInt("LEAD_RATE_LIMIT", 10),
		LeadRateWindow: getEnvAsDuration("LEAD_RATE_WINDOW", time.Minute),
		HTTPTimeout:    getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
	}
}

// Validate falha quando algum segredo obrigatório está ausente.
func (c *Config) Validate() error {
	required := map[string]string{
		"DATABASE_URL":          c.DatabaseURL,
		"MP_ACCESS_TOKEN":       c.MPAccessToken,
		"WHATSAPP_VERIFY_TOKEN": c.WhatsAppVerifyToken,
		"SUPABASE_URL":          c.SupabaseURL,
		"SUPABASE_ANON_KEY":     c.SupabaseAnonKey,
	}

	var missing []string
	for _, key := range []string{"DATABASE_URL", "MP_ACCESS_TOKEN", "WHATSAPP_VERIFY_TOKEN", "SUPABASE_URL", "SUPABASE_ANON_KEY"} {
		if strings.TrimSpace(required[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required env: %s", strings.Join(missing, ", "))
	}

	if c.EvaluationPrice <= 0 {
		return errors.New("config: EVALUATION_PRICE must be positive")
	}
	if c.MPInstallments < 1 {
		return errors.New("config: MP_INSTALLMENTS must be >= 1")
	}
	return nil
}

func (c *Config) DentalinkEnabled() bool { return c.DentalinkToken != "" }

func (c *Config) WhatsAppOutboundEnabled() bool {
	return c.WhatsAppAccessToken != "" && c.WhatsAppPhoneID != ""
}

func (c *Config) SMTPEnabled() bool { return c.SMTPHost != "" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
