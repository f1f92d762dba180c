package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// MailMessage is one message delivered to a disposable mailbox.
type MailMessage struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailClient provisions disposable mailboxes and reads their messages.
type MailClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewMailClient(baseURL string, client *http.Client, log *slog.Logger) *MailClient {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &MailClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  log.With(slog.String("provider", "mail")),
	}
}

// Provision creates a fresh mailbox and returns its address.
func (c *MailClient) Provision(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/generate", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("provision failed", slog.Any("error", err))
		}
		return "", fmt.Errorf("mailbox provision: %w", ErrUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("provision failed", slog.Int("status", resp.StatusCode))
		}
		return "", fmt.Errorf("mailbox provision: %w", ErrUnavailable)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Email) == "" {
		if c.logger != nil {
			c.logger.Error("decode failed", slog.Any("error", err))
		}
		return "", fmt.Errorf("mailbox provision: %w", ErrUnavailable)
	}
	return payload.Email, nil
}

// Messages lists the messages received by address.
func (c *MailClient) Messages(ctx context.Context, address string) ([]MailMessage, error) {
	query := url.Values{}
	query.Set("email", address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/messages?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("list messages failed", slog.Any("error", err))
		}
		return nil, fmt.Errorf("mailbox messages: %w", ErrUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("list messages failed", slog.Int("status", resp.StatusCode))
		}
		return nil, fmt.Errorf("mailbox messages: %w", ErrUnavailable)
	}
	var messages []MailMessage
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		if c.logger != nil {
			c.logger.Error("decode failed", slog.Any("error", err))
		}
		return nil, fmt.Errorf("mailbox messages: %w", ErrUnavailable)
	}
	return messages, nil
}
