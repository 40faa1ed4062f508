package smtp

import (
	"fmt"
	"log/slog"

	"github.com/skyops/aeromaint/pkg/mailer"
)

// Factory builds an SMTP transport from provider configuration. The
// "preset" key selects a known relay; otherwise host and port are read
// directly.
type Factory struct{}

func (Factory) ID() string {
	return transportID
}

func (Factory) Create(config map[string]any, logger *slog.Logger) (mailer.Transport, error) {
	var cfg Config

	switch stringValue(config, "preset") {
	case "gmail":
		cfg = GmailConfig(
			stringValue(config, "username"),
			stringValue(config, "password"),
			stringValue(config, "from_email"),
		)
	case "sendgrid":
		cfg = SendGridConfig(
			stringValue(config, "api_key"),
			stringValue(config, "from_email"),
		)
	case "mailtrap":
		cfg = MailtrapConfig(
			stringValue(config, "username"),
			stringValue(config, "password"),
		)
	case "":
		cfg = Config{
			Host:      stringValue(config, "host"),
			Port:      intValue(config, "port"),
			Username:  stringValue(config, "username"),
			Password:  stringValue(config, "password"),
			FromName:  stringValue(config, "from_name"),
			FromEmail: stringValue(config, "from_email"),
		}
	default:
		return nil, fmt.Errorf("unknown smtp preset '%s'", stringValue(config, "preset"))
	}

	return NewTransport(cfg, logger)
}

func stringValue(config map[string]any, key string) string {
	v, _ := config[key].(string)

	return v
}

func intValue(config map[string]any, key string) int {
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
