package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultMailTimeout = 15 * time.Second

// MailClient delivers confirmation emails through a JSON mail API.
type MailClient struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewMailClient returns a client that posts to the given mail API endpoint.
func NewMailClient(apiKey, baseURL, from string) *MailClient {
	return &MailClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultMailTimeout},
	}
}

// DeliverConfirmation sends the confirmation email for msg. The confirmation
// URL is included verbatim; the token itself is not logged.
func (c *MailClient) DeliverConfirmation(ctx context.Context, msg *ConfirmationMessage) error {
	if c.APIKey == "" {
		return fmt.Errorf("mail: API key not configured")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("mail: base URL not configured")
	}
	name := msg.Name
	if name == "" {
		name = "there"
	}
	body := map[string]interface{}{
		"from":    c.From,
		"to":      msg.Email,
		"subject": fmt.Sprintf("Confirm your %s sign-in", msg.Provider),
		"text": fmt.Sprintf(
			"Hi %s,\n\nA %s identity was linked to your account. Confirm it within 30 minutes:\n\n%s\n\nIf this wasn't you, ignore this email and the link will expire.\n",
			name, msg.Provider, msg.ConfirmURL,
		),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
