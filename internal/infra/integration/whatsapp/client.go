package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("whatsapp: access token or phone id not configured")

type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	language    string
	http        *http.Client
}

func NewClient(accessToken, phoneID, baseURL, language string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if language == "" {
		language = "es"
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     baseURL,
		language:    language,
		http:        &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.accessToken != "" && c.phoneID != ""
}

// SendTemplate envia uma mensagem de template aprovada pela Meta.
func (c *Client) SendTemplate(ctx context.Context, input SendMessageInput) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name": input.TemplateName,
			"language": map[string]string{
				"code": c.language,
			},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("whatsapp: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if result.Error != nil {
		return "", fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("whatsapp: api status %d", resp.StatusCode)
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
