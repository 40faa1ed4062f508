// Package mailer defines the notification transport contract. Concrete
// transports live in subpackages and are registered by id, so the provider
// is a deployment choice rather than a code change.
package mailer

import (
	"context"
	"log/slog"

	"github.com/skyops/aeromaint/pkg/models"
)

// Message is a fully rendered notification ready for delivery.
type Message struct {
	To       models.Recipient
	Subject  string
	HTMLBody string
	TextBody string
}

// Transport delivers a single message and returns the provider message id.
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
	Name() string
}

// TransportFactory creates a transport from configuration.
type TransportFactory interface {
	Create(config map[string]any, logger *slog.Logger) (Transport, error)
	ID() string
}
