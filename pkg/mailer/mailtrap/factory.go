package mailtrap

import (
	"log/slog"

	"github.com/skyops/aeromaint/pkg/mailer"
)

// Factory builds the Mailtrap HTTP API transport.
type Factory struct{}

func (Factory) ID() string {
	return transportID
}

func (Factory) Create(config map[string]any, logger *slog.Logger) (mailer.Transport, error) {
	token, _ := config["token"].(string)
	sandbox, _ := config["sandbox"].(bool)
	inboxID, _ := config["inbox_id"].(string)
	fromEmail, _ := config["from_email"].(string)
	fromName, _ := config["from_name"].(string)

	return NewTransport(Config{
		Token:     token,
		Sandbox:   sandbox,
		InboxID:   inboxID,
		FromEmail: fromEmail,
		FromName:  fromName,
	}, logger)
}
