package heuristic

import (
	"log/slog"

	"github.com/skyops/aeromaint/pkg/advisor"
)

// Factory registers the heuristic engine.
type Factory struct{}

func (Factory) ID() string {
	return engineID
}

func (Factory) Create(_ map[string]any, logger *slog.Logger) (advisor.Advisor, error) {
	return NewEngine(logger), nil
}
