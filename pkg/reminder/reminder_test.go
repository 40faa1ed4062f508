package reminder

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/mailer/templates"
	"github.com/skyops/aeromaint/pkg/models"
	filepersistence "github.com/skyops/aeromaint/pkg/persistence/file"
	"github.com/skyops/aeromaint/pkg/services"
)

type recordingTransport struct {
	sent []mailer.Message
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) Send(_ context.Context, msg mailer.Message) (string, error) {
	r.sent = append(r.sent, msg)

	return "rec-msg", nil
}

func newSweeper(t *testing.T) (*Sweeper, *filepersistence.Persistence, *recordingTransport) {
	t.Helper()

	p := filepersistence.NewPersistence(t.TempDir())
	transport := &recordingTransport{}

	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	notifier := services.NewNotification(transport, renderer, nil, nil,
		noop.NewTracerProvider().Tracer("test"), slog.Default())

	return NewSweeper(p, notifier, DefaultThreshold, slog.Default()), p, transport
}

func saveRec(t *testing.T, p *filepersistence.Persistence, id string, status models.RecommendationStatus, age time.Duration) {
	t.Helper()

	created := time.Now().UTC().Add(-age)

	require.NoError(t, p.RecommendationRepository().Save(context.Background(), &models.Recommendation{
		ID:         id,
		TailNumber: "N123AM",
		Type:       models.MaintenanceTypeACheck,
		Status:     status,
		CreatedAt:  created,
		UpdatedAt:  created,
	}))
}

func TestSweep_RemindsOnlyStalePending(t *testing.T) {
	sweeper, p, transport := newSweeper(t)

	saveRec(t, p, "rec-stale", models.RecommendationStatusPending, 36*time.Hour)
	saveRec(t, p, "rec-fresh", models.RecommendationStatusPending, time.Hour)
	saveRec(t, p, "rec-done", models.RecommendationStatusApproved, 90*time.Hour)

	require.NoError(t, sweeper.Sweep(context.Background()))

	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].TextBody, "rec-stale")
	assert.Equal(t, "maintenance@skyops.example", transport.sent[0].To.Email)
}

func TestSweep_DoesNotRepeatWithinThreshold(t *testing.T) {
	sweeper, p, transport := newSweeper(t)

	saveRec(t, p, "rec-stale", models.RecommendationStatusPending, 36*time.Hour)

	require.NoError(t, sweeper.Sweep(context.Background()))
	require.NoError(t, sweeper.Sweep(context.Background()))
	require.Len(t, transport.sent, 1)

	sweeper.now = func() time.Time { return time.Now().UTC().Add(25 * time.Hour) }

	require.NoError(t, sweeper.Sweep(context.Background()))
	assert.Len(t, transport.sent, 2)
}

func TestSweep_EmptyStore(t *testing.T) {
	sweeper, _, transport := newSweeper(t)

	require.NoError(t, sweeper.Sweep(context.Background()))
	assert.Empty(t, transport.sent)
}

func TestSweep_ThresholdBoundary(t *testing.T) {
	sweeper, p, transport := newSweeper(t)
	sweeper.now = func() time.Time { return time.Now().UTC().Add(48 * time.Hour) }

	saveRec(t, p, "rec-1", models.RecommendationStatusPending, time.Hour)

	require.NoError(t, sweeper.Sweep(context.Background()))
	assert.Len(t, transport.sent, 1)
}

func TestStart_InvalidSchedule(t *testing.T) {
	sweeper, _, _ := newSweeper(t)

	err := sweeper.Start("not a schedule")
	require.Error(t, err)
}

func TestStartStop(t *testing.T) {
	sweeper, _, _ := newSweeper(t)

	require.NoError(t, sweeper.Start("@hourly"))
	sweeper.Stop()
}
