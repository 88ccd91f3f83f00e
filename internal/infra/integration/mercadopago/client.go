package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(accessToken, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: timeout},
	}
}

// CreatePreference cria a preferência do Checkout Pro e devolve o init_point.
func (c *Client) CreatePreference(ctx context.Context, pref PreferenceRequest) (*PreferenceResponse, error) {
	jsonBody, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: marshal preference: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	var out PreferenceResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment busca o pagamento pelo id. É a única fonte confiável de status.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	endpoint := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, url.PathEscape(paymentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	var out Payment
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPayments lista os pagamentos com o external_reference informado,
// exatamente como o Mercado Pago devolve.
func (c *Client) SearchPayments(ctx context.Context, externalReference string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("external_reference", externalReference)
	q.Set("sort", "date_created")
	q.Set("criteria", "desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	var out searchResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return []json.RawMessage{}, nil
	}
	return out.Results, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mercadopago: decode: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
}
