// Package registry maps provider ids to factories for the pluggable
// pieces of the pipeline: email transports and recommendation engines.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/skyops/aeromaint/pkg/advisor"
	"github.com/skyops/aeromaint/pkg/mailer"
)

type Registry struct {
	logger             *slog.Logger
	transportFactories map[string]mailer.TransportFactory
	advisorFactories   map[string]advisor.Factory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:             logger,
		transportFactories: make(map[string]mailer.TransportFactory),
		advisorFactories:   make(map[string]advisor.Factory),
	}
}

func (r *Registry) RegisterTransport(factory mailer.TransportFactory) {
	r.transportFactories[factory.ID()] = factory
}

func (r *Registry) RegisterAdvisor(factory advisor.Factory) {
	r.advisorFactories[factory.ID()] = factory
}

func (r *Registry) CreateTransport(transportID string, config map[string]any) (mailer.Transport, error) {
	factory, ok := r.transportFactories[transportID]
	if !ok {
		return nil, fmt.Errorf("email transport '%s' not registered", transportID)
	}

	return factory.Create(config, r.logger)
}

func (r *Registry) CreateAdvisor(advisorID string, config map[string]any) (advisor.Advisor, error) {
	factory, ok := r.advisorFactories[advisorID]
	if !ok {
		return nil, fmt.Errorf("advisor '%s' not registered", advisorID)
	}

	return factory.Create(config, r.logger)
}

// AvailableTransports lists registered transport ids, sorted for stable
// error messages and logs.
func (r *Registry) AvailableTransports() []string {
	ids := make([]string, 0, len(r.transportFactories))
	for id := range r.transportFactories {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// AvailableAdvisors lists registered advisor ids.
func (r *Registry) AvailableAdvisors() []string {
	ids := make([]string, 0, len(r.advisorFactories))
	for id := range r.advisorFactories {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
