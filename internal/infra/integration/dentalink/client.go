package dentalink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotConfigured é devolvido quando o token do Dentalink não foi informado.
var ErrNotConfigured = errors.New("dentalink: token not configured")

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(token, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool { return c != nil && c.token != "" }

// FindPatientByRUT devolve nil, nil quando o paciente não existe.
func (c *Client) FindPatientByRUT(ctx context.Context, rut string) (*Patient, error) {
	filter, _ := json.Marshal(map[string]any{"rut": map[string]string{"eq": rut}})
	endpoint := fmt.Sprintf("%s/pacientes?q=%s", c.baseURL, url.QueryEscape(string(filter)))

	var out envelope[[]Patient]
	status, err := c.do(ctx, http.MethodGet, endpoint, nil, &out)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return &out.Data[0], nil
}

func (c *Client) CreatePatient(ctx context.Context, input CreatePatientInput) (*Patient, error) {
	payload := Patient{
		Nombre:    input.FirstName,
		Apellidos: input.LastName,
		RUT:       input.RUT,
		Email:     input.Email,
		Celular:   input.Phone,
	}

	var out envelope[Patient]
	if _, err := c.do(ctx, http.MethodPost, c.baseURL+"/pacientes", payload, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListDentists(ctx context.Context) ([]Dentist, error) {
	var out envelope[[]Dentist]
	if _, err := c.do(ctx, http.MethodGet, c.baseURL+"/dentistas", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []Dentist{}, nil
	}
	return out.Data, nil
}

func (c *Client) GetAvailableSlots(ctx context.Context, q SlotQuery) ([]Slot, error) {
	filter := map[string]any{}
	if q.Date != "" {
		filter["fecha"] = map[string]string{"eq": q.Date}
	}
	if q.BranchID != "" {
		filter["id_sucursal"] = map[string]string{"eq": q.BranchID}
	}
	raw, _ := json.Marshal(filter)

	endpoint := fmt.Sprintf("%s/dentistas/%s/agendas?q=%s",
		c.baseURL, url.PathEscape(q.DentistID), url.QueryEscape(string(raw)))

	var out envelope[[]Slot]
	if _, err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []Slot{}, nil
	}
	return out.Data, nil
}

func (c *Client) CreateAppointment(ctx context.Context, input CreateAppointmentInput) (*Appointment, error) {
	var out envelope[Appointment]
	if _, err := c.do(ctx, http.MethodPost, c.baseURL+"/citas", input, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, out any) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("dentalink: marshal: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("dentalink: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("dentalink: decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
