package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
)

func testRecommendation(id, tail string) *models.Recommendation {
	now := time.Now().UTC()

	return &models.Recommendation{
		ID:            id,
		TailNumber:    tail,
		Type:          models.MaintenanceTypeACheck,
		Confidence:    78,
		EstimatedCost: 12500,
		Urgency:       models.UrgencyMedium,
		Reasoning:     []string{"utilization above fleet average"},
		Status:        models.RecommendationStatusPending,
		GeneratedBy:   "heuristic",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRecommendationRepository_SaveAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RecommendationRepository()

	rec := testRecommendation("rec-1", "N123AM")
	require.NoError(t, repo.Save(ctx, rec))

	loaded, err := repo.GetByID(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "N123AM", loaded.TailNumber)
	assert.Equal(t, models.RecommendationStatusPending, loaded.Status)
	assert.Equal(t, []string{"utilization above fleet average"}, loaded.Reasoning)
}

func TestRecommendationRepository_GetByID_NotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.RecommendationRepository().GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsRecommendationNotFound(err))
}

func TestRecommendationRepository_List_Filters(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RecommendationRepository()

	recA := testRecommendation("rec-a", "N123AM")
	recB := testRecommendation("rec-b", "N77QS")
	recB.Status = models.RecommendationStatusApproved

	require.NoError(t, repo.Save(ctx, recA))
	require.NoError(t, repo.Save(ctx, recB))

	all, err := repo.List(ctx, persistence.RecommendationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTail, err := repo.List(ctx, persistence.RecommendationFilter{TailNumber: "N77QS"})
	require.NoError(t, err)
	require.Len(t, byTail, 1)
	assert.Equal(t, "rec-b", byTail[0].ID)

	pending := models.RecommendationStatusPending
	byStatus, err := repo.List(ctx, persistence.RecommendationFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "rec-a", byStatus[0].ID)
}

func TestRecommendationRepository_List_EmptyStore(t *testing.T) {
	p := NewPersistence(t.TempDir())

	recs, err := p.RecommendationRepository().List(context.Background(), persistence.RecommendationFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendationRepository_TransitionStatus(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RecommendationRepository()

	require.NoError(t, repo.Save(ctx, testRecommendation("rec-1", "N123AM")))

	updated, err := repo.TransitionStatus(
		ctx,
		"rec-1",
		models.RecommendationStatusPending,
		models.RecommendationStatusApproved,
		func(rec *models.Recommendation) {
			rec.ApprovedBy = "ops director"
		},
	)
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationStatusApproved, updated.Status)
	assert.Equal(t, "ops director", updated.ApprovedBy)

	// The transition is persisted, not just returned.
	loaded, err := repo.GetByID(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationStatusApproved, loaded.Status)
}

func TestRecommendationRepository_TransitionStatus_Conflict(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RecommendationRepository()

	require.NoError(t, repo.Save(ctx, testRecommendation("rec-1", "N123AM")))

	_, err := repo.TransitionStatus(ctx, "rec-1",
		models.RecommendationStatusPending, models.RecommendationStatusApproved, nil)
	require.NoError(t, err)

	// Second approval of the same id must conflict.
	_, err = repo.TransitionStatus(ctx, "rec-1",
		models.RecommendationStatusPending, models.RecommendationStatusApproved, nil)
	require.Error(t, err)
	assert.True(t, persistence.IsStatusConflict(err))
}

func TestRecommendationRepository_TransitionStatus_NotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.RecommendationRepository().TransitionStatus(context.Background(), "missing",
		models.RecommendationStatusPending, models.RecommendationStatusRejected, nil)
	require.Error(t, err)
	assert.True(t, persistence.IsRecommendationNotFound(err))
}

func TestWorkflowRepository_SaveAndList(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	now := time.Now().UTC()
	workflow := &models.ActiveWorkflow{
		ID:               models.WorkflowIDFor("rec-1"),
		RecommendationID: "rec-1",
		TailNumber:       "N123AM",
		Type:             models.MaintenanceTypeEngineInspect,
		Status:           models.WorkflowStatusScheduled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	require.NoError(t, repo.Save(ctx, workflow))

	loaded, err := repo.GetByID(ctx, "wf-rec-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", loaded.RecommendationID)

	scheduled := models.WorkflowStatusScheduled
	listed, err := repo.List(ctx, persistence.WorkflowFilter{Status: &scheduled})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	completed := models.WorkflowStatusCompleted
	empty, err := repo.List(ctx, persistence.WorkflowFilter{Status: &completed})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().GetByID(context.Background(), "wf-missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_HealthCheck(t *testing.T) {
	dir := t.TempDir()
	p := NewPersistence(dir)
	require.NoError(t, p.HealthCheck(context.Background()))

	missing := NewPersistence(dir + "/does-not-exist")
	assert.Error(t, missing.HealthCheck(context.Background()))
}
