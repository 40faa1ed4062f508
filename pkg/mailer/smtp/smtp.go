// Package smtp delivers notifications over SMTP using go-mail. Presets
// cover the providers the dashboard is deployed against; any other relay
// can be configured directly.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/skyops/aeromaint/pkg/mailer"
)

const transportID = "smtp"

// Config describes an SMTP relay.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// GmailConfig returns the relay settings for a Gmail account.
func GmailConfig(username, password, fromEmail string) Config {
	return Config{
		Host:      "smtp.gmail.com",
		Port:      587,
		Username:  username,
		Password:  password,
		FromName:  "SkyOps Maintenance",
		FromEmail: fromEmail,
	}
}

// SendGridConfig returns the relay settings for SendGrid. The username is
// fixed by the provider.
func SendGridConfig(apiKey, fromEmail string) Config {
	return Config{
		Host:      "smtp.sendgrid.net",
		Port:      587,
		Username:  "apikey",
		Password:  apiKey,
		FromName:  "SkyOps Maintenance",
		FromEmail: fromEmail,
	}
}

// MailtrapConfig returns the relay settings for the Mailtrap sandbox SMTP
// endpoint.
func MailtrapConfig(username, password string) Config {
	return Config{
		Host:      "sandbox.smtp.mailtrap.io",
		Port:      587,
		Username:  username,
		Password:  password,
		FromName:  "SkyOps Maintenance",
		FromEmail: "maintenance@skyops.example",
	}
}

// Transport delivers messages through an SMTP relay.
type Transport struct {
	client *gomail.Client
	config Config
	logger *slog.Logger
}

// NewTransport validates the relay configuration and builds the client.
func NewTransport(config Config, logger *slog.Logger) (*Transport, error) {
	if strings.TrimSpace(config.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	if strings.TrimSpace(config.FromEmail) == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	client, err := gomail.NewClient(config.Host,
		gomail.WithPort(config.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(config.Username),
		gomail.WithPassword(config.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &Transport{
		client: client,
		config: config,
		logger: logger.With("module", "mailer", "transport", transportID),
	}, nil
}

// Name returns the transport identifier.
func (t *Transport) Name() string {
	return transportID
}

// Send delivers the message over the configured relay.
func (t *Transport) Send(ctx context.Context, msg mailer.Message) (string, error) {
	m := gomail.NewMsg()

	err := m.FromFormat(t.config.FromName, t.config.FromEmail)
	if err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}

	err = m.AddToFormat(msg.To.Name, msg.To.Email)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address %s: %w", msg.To.Email, err)
	}

	messageID := uuid.New().String() + "@" + t.config.Host
	m.SetMessageIDWithValue(messageID)
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)

	err = t.client.DialAndSendWithContext(ctx, m)
	if err != nil {
		return "", fmt.Errorf("smtp delivery to %s failed: %w", msg.To.Email, err)
	}

	t.logger.InfoContext(ctx, "email delivered",
		"to", msg.To.Email,
		"message_id", messageID,
	)

	return messageID, nil
}
