package simulation

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/models"
)

func testMessage() mailer.Message {
	return mailer.Message{
		To:       models.Recipient{Name: "Ops", Email: "ops@skyops.example", Role: "operations_director"},
		Subject:  "Maintenance approved",
		TextBody: "body",
	}
}

func TestSend_UniqueMessageIDs(t *testing.T) {
	transport := NewTransportWithRate(slog.Default(), 0)

	seen := make(map[string]bool)

	for range 10 {
		id, err := transport.Send(context.Background(), testMessage())
		require.NoError(t, err)
		require.NotEmpty(t, id)

		assert.False(t, seen[id], "message id %s repeated", id)
		seen[id] = true
	}
}

func TestSend_ConcurrentSends(t *testing.T) {
	transport := NewTransportWithRate(slog.Default(), 0)

	const senders = 8

	ids := make(chan string, senders)

	var wg sync.WaitGroup

	for range senders {
		wg.Add(1)

		go func() {
			defer wg.Done()

			id, err := transport.Send(context.Background(), testMessage())
			assert.NoError(t, err)

			ids <- id
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "message id %s repeated", id)
		seen[id] = true
	}
}

func TestSend_AlwaysFailsAtFullRate(t *testing.T) {
	transport := NewTransportWithRate(slog.Default(), 1)

	_, err := transport.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ops@skyops.example")
}

func TestSend_RespectsContextCancellation(t *testing.T) {
	transport := NewTransportWithRate(slog.Default(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transport.Send(ctx, testMessage())
	require.ErrorIs(t, err, context.Canceled)
}

func TestName(t *testing.T) {
	assert.Equal(t, "simulation", NewTransport(slog.Default()).Name())
}
