package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.resend.com"

var ErrMissingAPIKey = errors.New("email API key is not configured")

// ResendClient sends emails through a Resend compatible HTTP API.
type ResendClient struct {
	httpClient *resty.Client
}

var _ port.Mailer = (*ResendClient)(nil)

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func NewResendClient(baseURL, apiKey string) (*ResendClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &ResendClient{httpClient: client}, nil
}

// Send returns the provider's message id.
func (c *ResendClient) Send(ctx context.Context, email port.Email) (string, error) {
	var out sendResponse
	var apiErr apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    email.From,
			To:      email.To,
			Subject: email.Subject,
			HTML:    email.HTML,
			Text:    email.Text,
			ReplyTo: email.ReplyTo,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("email request failed: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("email API error (%d): %s", resp.StatusCode(), msg)
	}
	return out.ID, nil
}
