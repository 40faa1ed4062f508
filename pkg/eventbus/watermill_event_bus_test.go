package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/channels/gochannel"
	"github.com/skyops/aeromaint/pkg/events"
)

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)

	t.Cleanup(func() { _ = bus.Close() })

	received := make(chan *events.RecommendationApproved, 1)

	err = bus.Handle(events.RecommendationApprovedEvent, func(_ context.Context, event any) error {
		approved, ok := event.(*events.RecommendationApproved)
		require.True(t, ok)

		received <- approved

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	approved := events.RecommendationApproved{
		BaseEvent:        events.NewBaseEvent(events.RecommendationApprovedEvent),
		RecommendationID: "rec-1",
		TailNumber:       "N123AM",
		ApprovedBy:       "ops.director",
	}

	require.NoError(t, bus.Publish(ctx, "rec-1", approved))

	select {
	case got := <-received:
		assert.Equal(t, "rec-1", got.RecommendationID)
		assert.Equal(t, "ops.director", got.ApprovedBy)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypeIsAcked(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)

	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for this type; publish must still succeed.
	rejected := events.RecommendationRejected{
		BaseEvent:        events.NewBaseEvent(events.RecommendationRejectedEvent),
		RecommendationID: "rec-2",
	}

	require.NoError(t, bus.Publish(ctx, "rec-2", rejected))
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)

	t.Cleanup(func() { _ = bus.Close() })

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
