package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
	filepersistence "github.com/skyops/aeromaint/pkg/persistence/file"
)

func newWorkflowService(t *testing.T) (*Workflow, persistence.Persistence) {
	t.Helper()

	p := filepersistence.NewPersistence(t.TempDir())
	tracer := noop.NewTracerProvider().Tracer("test")

	return NewWorkflow(p, nil, tracer, slog.Default()), p
}

func approvedRec() *models.Recommendation {
	return &models.Recommendation{
		ID:            "rec-1",
		TailNumber:    "N123AM",
		Type:          models.MaintenanceTypeEngineInspect,
		EstimatedCost: 85000,
		Urgency:       models.UrgencyHigh,
		Status:        models.RecommendationStatusApproved,
		ApprovedBy:    "ops.director",
	}
}

func TestMaterialize(t *testing.T) {
	svc, _ := newWorkflowService(t)

	workflow, err := svc.Materialize(context.Background(), approvedRec())
	require.NoError(t, err)

	assert.Equal(t, "wf-rec-1", workflow.ID)
	assert.Equal(t, "rec-1", workflow.RecommendationID)
	assert.Equal(t, models.WorkflowStatusScheduled, workflow.Status)
	assert.Len(t, workflow.Assignments, 3)
	assert.NotEmpty(t, workflow.Bookings)
	assert.NotEmpty(t, workflow.Compliance)
	assert.Equal(t, 85000.0, workflow.WorkOrder.EstimatedCost)
	assert.Equal(t, "WO-REC1", workflow.WorkOrder.Number)
	assert.True(t, workflow.Calendar.EndAt.After(workflow.Calendar.StartAt))
}

func TestMaterialize_SecondAttemptConflicts(t *testing.T) {
	svc, _ := newWorkflowService(t)

	_, err := svc.Materialize(context.Background(), approvedRec())
	require.NoError(t, err)

	_, err = svc.Materialize(context.Background(), approvedRec())
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
}

func TestMaterialize_Persisted(t *testing.T) {
	svc, p := newWorkflowService(t)

	created, err := svc.Materialize(context.Background(), approvedRec())
	require.NoError(t, err)

	loaded, err := p.WorkflowRepository().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TailNumber, loaded.TailNumber)
	assert.Len(t, loaded.Assignments, len(created.Assignments))
}

func TestList_StatusHistogram(t *testing.T) {
	svc, p := newWorkflowService(t)

	_, err := svc.Materialize(context.Background(), approvedRec())
	require.NoError(t, err)

	other := approvedRec()
	other.ID = "rec-2"
	other.TailNumber = "N456AM"

	second, err := svc.Materialize(context.Background(), other)
	require.NoError(t, err)

	second.Status = models.WorkflowStatusInProgress
	require.NoError(t, p.WorkflowRepository().Save(context.Background(), second))

	list, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, list.TotalCount)
	assert.Equal(t, 1, list.StatusCounts[models.WorkflowStatusScheduled])
	assert.Equal(t, 1, list.StatusCounts[models.WorkflowStatusInProgress])
}

func TestList_FilterByTailNumber(t *testing.T) {
	svc, _ := newWorkflowService(t)

	_, err := svc.Materialize(context.Background(), approvedRec())
	require.NoError(t, err)

	list, err := svc.List(context.Background(), ListRequest{TailNumber: "N999ZZ"})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestList_InvalidStatus(t *testing.T) {
	svc, _ := newWorkflowService(t)

	_, err := svc.List(context.Background(), ListRequest{Status: "PAUSED"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}
