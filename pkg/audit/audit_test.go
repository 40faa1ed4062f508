package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/channels/gochannel"
	"github.com/skyops/aeromaint/pkg/eventbus"
	"github.com/skyops/aeromaint/pkg/events"
)

func newAuditBus(t *testing.T) (eventbus.EventBus, *bytes.Buffer) {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	var buf bytes.Buffer

	logger := NewLogger(bus, slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, logger.Start(ctx))

	return bus, &buf
}

func waitForLog(t *testing.T, buf *bytes.Buffer, want string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bytes.Contains(buf.Bytes(), []byte(want)) {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("log line containing %q never appeared", want)
}

func TestAuditLogsApproval(t *testing.T) {
	bus, buf := newAuditBus(t)

	approved := events.RecommendationApproved{
		BaseEvent:        events.NewBaseEvent(events.RecommendationApprovedEvent),
		RecommendationID: "rec-1",
		TailNumber:       "N123AM",
		ApprovedBy:       "ops.director",
	}

	require.NoError(t, bus.Publish(context.Background(), "rec-1", approved))

	waitForLog(t, buf, "Recommendation approved")
	assert.Contains(t, buf.String(), "rec-1")
	assert.Contains(t, buf.String(), "ops.director")
}

func TestAuditLogsWorkflowCreated(t *testing.T) {
	bus, buf := newAuditBus(t)

	created := events.WorkflowCreated{
		BaseEvent:        events.NewBaseEvent(events.WorkflowCreatedEvent),
		WorkflowID:       "wf-rec-1",
		RecommendationID: "rec-1",
		TailNumber:       "N123AM",
	}

	require.NoError(t, bus.Publish(context.Background(), "rec-1", created))

	waitForLog(t, buf, "Workflow created")
	assert.Contains(t, buf.String(), "wf-rec-1")
}
