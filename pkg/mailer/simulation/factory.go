package simulation

import (
	"log/slog"

	"github.com/skyops/aeromaint/pkg/mailer"
)

// Factory registers the simulation transport.
type Factory struct{}

func (Factory) ID() string {
	return transportID
}

func (Factory) Create(config map[string]any, logger *slog.Logger) (mailer.Transport, error) {
	rate := defaultFailureRate
	if v, ok := config["failure_rate"].(float64); ok {
		rate = v
	}

	return NewTransportWithRate(logger, rate), nil
}
