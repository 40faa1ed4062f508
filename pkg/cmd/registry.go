// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"

	"github.com/skyops/aeromaint/pkg/advisor/heuristic"
	"github.com/skyops/aeromaint/pkg/advisor/openai"
	"github.com/skyops/aeromaint/pkg/mailer/mailtrap"
	"github.com/skyops/aeromaint/pkg/mailer/simulation"
	"github.com/skyops/aeromaint/pkg/mailer/smtp"
	"github.com/skyops/aeromaint/pkg/registry"
)

func registerNativeTransports(reg *registry.Registry) {
	reg.RegisterTransport(simulation.Factory{})
	reg.RegisterTransport(smtp.Factory{})
	reg.RegisterTransport(mailtrap.Factory{})
}

func registerNativeAdvisors(reg *registry.Registry) {
	reg.RegisterAdvisor(heuristic.Factory{})
	reg.RegisterAdvisor(openai.Factory{})
}

func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)

	registerNativeTransports(reg)
	registerNativeAdvisors(reg)

	return reg
}
