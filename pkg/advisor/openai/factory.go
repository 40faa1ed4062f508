package openai

import (
	"log/slog"

	"github.com/skyops/aeromaint/pkg/advisor"
)

// Factory builds the model-backed engine from provider configuration.
type Factory struct{}

func (Factory) ID() string {
	return engineID
}

func (Factory) Create(config map[string]any, logger *slog.Logger) (advisor.Advisor, error) {
	apiKey, _ := config["api_key"].(string)
	model, _ := config["model"].(string)
	baseURL, _ := config["base_url"].(string)

	return NewClient(Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: baseURL,
	}, logger)
}
