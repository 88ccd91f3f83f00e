package mercadopago

import (
	"encoding/json"
	"fmt"
	"time"
)

type Item struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	CurrencyID  string  `json:"currency_id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PaymentMethods struct {
	Installments int `json:"installments"`
}

type Payer struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type PreferenceRequest struct {
	Items               []Item         `json:"items"`
	Payer               *Payer         `json:"payer,omitempty"`
	BackURLs            BackURLs       `json:"back_urls"`
	AutoReturn          string         `json:"auto_return,omitempty"`
	ExternalReference   string         `json:"external_reference"`
	NotificationURL     string         `json:"notification_url,omitempty"`
	PaymentMethods      PaymentMethods `json:"payment_methods"`
	StatementDescriptor string         `json:"statement_descriptor,omitempty"`
}

type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point,omitempty"`
}

// Payment é o recurso /v1/payments/{id}. Só os campos usados na conciliação.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	PaymentMethodID   string  `json:"payment_method_id"`
	PaymentTypeID     string  `json:"payment_type_id"`
	DateLastUpdated   string  `json:"date_last_updated"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// LastUpdated interpreta date_last_updated. Devolve nil se vier vazio ou inválido.
func (p *Payment) LastUpdated() *time.Time {
	if p.DateLastUpdated == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, p.DateLastUpdated)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status %d: %s", e.StatusCode, e.Body)
}
