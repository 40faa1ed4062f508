// Package simulation provides the default development transport. It
// delivers nothing, logs the rendered content, and fails a small fraction
// of sends so callers exercise their failure handling.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyops/aeromaint/pkg/mailer"
)

const (
	transportID = "simulation"

	defaultFailureRate = 0.05
	minLatency         = 10 * time.Millisecond
	maxLatency         = 50 * time.Millisecond
)

// Transport simulates email delivery. Send is safe for concurrent use;
// the request handlers and the reminder sweep share one instance.
type Transport struct {
	logger      *slog.Logger
	mu          sync.Mutex
	rng         *rand.Rand
	failureRate float64
}

// NewTransport creates a simulation transport with the default failure rate.
func NewTransport(logger *slog.Logger) *Transport {
	return NewTransportWithRate(logger, defaultFailureRate)
}

// NewTransportWithRate allows overriding the failure rate, mainly for tests.
func NewTransportWithRate(logger *slog.Logger, failureRate float64) *Transport {
	return &Transport{
		logger:      logger.With("module", "mailer", "transport", transportID),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		failureRate: failureRate,
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string {
	return transportID
}

// roll draws the latency and failure outcome for one send. rand.Rand is
// not safe for concurrent use, so draws are serialized.
func (t *Transport) roll() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	latency := minLatency + time.Duration(t.rng.Int63n(int64(maxLatency-minLatency)))

	return latency, t.rng.Float64() < t.failureRate
}

// Send pretends to deliver the message. Each send gets a unique message id.
func (t *Transport) Send(ctx context.Context, msg mailer.Message) (string, error) {
	latency, failed := t.roll()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if failed {
		return "", fmt.Errorf("simulated delivery failure to %s", msg.To.Email)
	}

	messageID := "sim-" + uuid.New().String()

	t.logger.InfoContext(ctx, "simulated email delivery",
		"to", msg.To.Email,
		"role", msg.To.Role,
		"subject", msg.Subject,
		"message_id", messageID,
	)
	t.logger.DebugContext(ctx, "simulated email content",
		"message_id", messageID,
		"text_body", msg.TextBody,
	)

	return messageID, nil
}
