package registry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/advisor/heuristic"
	"github.com/skyops/aeromaint/pkg/mailer/simulation"
)

func TestCreateTransport(t *testing.T) {
	r := NewRegistry(slog.Default())
	r.RegisterTransport(simulation.Factory{})

	transport, err := r.CreateTransport("simulation", nil)
	require.NoError(t, err)
	assert.Equal(t, "simulation", transport.Name())
}

func TestCreateTransport_NotRegistered(t *testing.T) {
	r := NewRegistry(slog.Default())

	_, err := r.CreateTransport("carrier-pigeon", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestCreateAdvisor(t *testing.T) {
	r := NewRegistry(slog.Default())
	r.RegisterAdvisor(heuristic.Factory{})

	engine, err := r.CreateAdvisor("heuristic", nil)
	require.NoError(t, err)
	assert.Equal(t, "heuristic", engine.Name())
}

func TestAvailableIDs(t *testing.T) {
	r := NewRegistry(slog.Default())
	r.RegisterTransport(simulation.Factory{})
	r.RegisterAdvisor(heuristic.Factory{})

	assert.Equal(t, []string{"simulation"}, r.AvailableTransports())
	assert.Equal(t, []string{"heuristic"}, r.AvailableAdvisors())
}
