// Package mailtrap delivers notifications through the Mailtrap HTTP API,
// either the production send endpoint or a sandbox inbox.
package mailtrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/skyops/aeromaint/pkg/mailer"
)

const (
	sendURL    = "https://send.api.mailtrap.io/api/send"
	sandboxURL = "https://sandbox.api.mailtrap.io/api/send"

	transportID = "mailtrap"

	requestTimeout = 30 * time.Second
)

// Config describes the Mailtrap API target.
type Config struct {
	Token     string
	FromName  string
	FromEmail string
	Sandbox   bool
	InboxID   string // required when Sandbox is true
	BaseURL   string // overrides the endpoint, mainly for tests
}

// Transport posts messages to the Mailtrap REST API.
type Transport struct {
	config     Config
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTransport validates the configuration and resolves the endpoint.
func NewTransport(config Config, logger *slog.Logger) (*Transport, error) {
	if strings.TrimSpace(config.Token) == "" {
		return nil, fmt.Errorf("mailtrap API token is required")
	}

	if config.Sandbox && strings.TrimSpace(config.InboxID) == "" {
		return nil, fmt.Errorf("mailtrap sandbox requires an inbox id")
	}

	endpoint := config.BaseURL
	if endpoint == "" {
		if config.Sandbox {
			endpoint = sandboxURL
		} else {
			endpoint = sendURL
		}
	}

	if config.Sandbox {
		endpoint = endpoint + "/" + config.InboxID
	}

	if config.FromEmail == "" {
		config.FromEmail = "maintenance@skyops.example"
	}

	if config.FromName == "" {
		config.FromName = "SkyOps Maintenance"
	}

	return &Transport{
		config:     config,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With("module", "mailer", "transport", transportID),
	}, nil
}

// Name returns the transport identifier.
func (t *Transport) Name() string {
	return transportID
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
	HTML    string    `json:"html,omitempty"`
}

type sendResponse struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids"`
	Errors     []string `json:"errors"`
}

// Send posts the message and returns the provider-assigned message id.
func (t *Transport) Send(ctx context.Context, msg mailer.Message) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    address{Email: t.config.FromEmail, Name: t.config.FromName},
		To:      []address{{Email: msg.To.Email, Name: msg.To.Name}},
		Subject: msg.Subject,
		Text:    msg.TextBody,
		HTML:    msg.HTMLBody,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+t.config.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mailtrap request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read mailtrap response: %w", err)
	}

	var parsed sendResponse

	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return "", fmt.Errorf("failed to parse mailtrap response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !parsed.Success {
		detail := strings.Join(parsed.Errors, "; ")
		if detail == "" {
			detail = resp.Status
		}

		return "", fmt.Errorf("mailtrap delivery to %s failed: %s", msg.To.Email, detail)
	}

	messageID := ""
	if len(parsed.MessageIDs) > 0 {
		messageID = parsed.MessageIDs[0]
	}

	t.logger.InfoContext(ctx, "email delivered",
		"to", msg.To.Email,
		"message_id", messageID,
		"sandbox", t.config.Sandbox,
	)

	return messageID, nil
}
