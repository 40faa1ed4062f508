package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/skyops/aeromaint/pkg/advisor"
	"github.com/skyops/aeromaint/pkg/registry"
)

// NewAdvisor builds the recommendation engine. Without a usable OpenAI
// API key the deterministic engine runs alone (demo mode); with one, the
// model-backed engine runs first and the deterministic engine covers its
// failures.
func NewAdvisor(reg *registry.Registry, logger *slog.Logger, apiKey, model string) advisor.Advisor {
	fallback, err := reg.CreateAdvisor("heuristic", nil)
	if err != nil {
		panic(fmt.Errorf("failed to create heuristic advisor: %w", err))
	}

	if !usableAPIKey(apiKey) {
		logger.Info("No OpenAI API key configured, running heuristic engine only")

		return fallback
	}

	primary, err := reg.CreateAdvisor("openai", map[string]any{
		"api_key": apiKey,
		"model":   model,
	})
	if err != nil {
		logger.Warn("Failed to create OpenAI advisor, running heuristic engine only", "error", err)

		return fallback
	}

	return advisor.NewResilient(primary, fallback, logger)
}

// usableAPIKey filters out empty values and the placeholders that ship
// in sample .env files.
func usableAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	return !strings.HasPrefix(apiKey, "your-") && !strings.HasPrefix(apiKey, "sk-placeholder")
}
