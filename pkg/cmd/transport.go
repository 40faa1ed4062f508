package cmd

import (
	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/registry"
)

// NewTransport creates the notification transport named by provider.
// gmail and sendgrid are relay presets of the smtp transport but stay
// first-class provider names, so EMAIL_PROVIDER accepts
// simulation|gmail|sendgrid|mailtrap|smtp.
func NewTransport(reg *registry.Registry, provider string, config map[string]any) (mailer.Transport, error) {
	switch provider {
	case "gmail", "sendgrid":
		config["preset"] = provider
		provider = "smtp"
	}

	return reg.CreateTransport(provider, config)
}
