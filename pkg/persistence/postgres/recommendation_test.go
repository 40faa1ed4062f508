package postgres

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
)

var recommendationRows = []string{
	"id", "tail_number", "type", "confidence", "estimated_cost", "urgency",
	"reasoning", "status", "generated_by", "approved_by", "approval_notes",
	"rejected_by", "rejection_reason", "created_at", "updated_at", "decided_at",
}

func newMockRepo(t *testing.T) (*RecommendationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return NewRecommendationRepository(db, slog.Default()), mock
}

func TestRecommendationRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT(.|\n)*FROM recommendations(.|\n)*WHERE id = \\$1").
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows(recommendationRows).AddRow(
			"rec-1", "N123AM", "A_CHECK", 78.0, 12500.0, "MEDIUM",
			[]byte(`["high utilization"]`), "PENDING", "heuristic",
			nil, nil, nil, nil, now, now, nil,
		))

	rec, err := repo.GetByID(context.Background(), "rec-1")
	require.NoError(t, err)

	assert.Equal(t, "N123AM", rec.TailNumber)
	assert.Equal(t, models.RecommendationStatusPending, rec.Status)
	assert.Equal(t, []string{"high utilization"}, rec.Reasoning)
	assert.Empty(t, rec.ApprovedBy)
	assert.Nil(t, rec.DecidedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT(.|\n)*FROM recommendations").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recommendationRows))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsRecommendationNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_List_StatusFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT(.|\n)*FROM recommendations(.|\n)*ORDER BY created_at DESC").
		WithArgs("", "PENDING").
		WillReturnRows(sqlmock.NewRows(recommendationRows).AddRow(
			"rec-1", "N123AM", "A_CHECK", 78.0, 12500.0, "MEDIUM",
			[]byte(`[]`), "PENDING", "heuristic",
			nil, nil, nil, nil, now, now, nil,
		))

	pending := models.RecommendationStatusPending

	recs, err := repo.List(context.Background(), persistence.RecommendationFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-1", recs[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_TransitionStatus_Conflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	// The conditional UPDATE matches no rows because the status already moved.
	mock.ExpectExec("UPDATE recommendations SET status").
		WithArgs("APPROVED", sqlmock.AnyArg(), "rec-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// The follow-up lookup finds the row, so the failure is a conflict.
	mock.ExpectQuery("SELECT(.|\n)*FROM recommendations").
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows(recommendationRows).AddRow(
			"rec-1", "N123AM", "A_CHECK", 78.0, 12500.0, "MEDIUM",
			[]byte(`[]`), "APPROVED", "heuristic",
			"ops", nil, nil, nil, now, now, now,
		))

	_, err := repo.TransitionStatus(context.Background(), "rec-1",
		models.RecommendationStatusPending, models.RecommendationStatusApproved, nil)
	require.Error(t, err)
	assert.True(t, persistence.IsStatusConflict(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_TransitionStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE recommendations SET status").
		WithArgs("REJECTED", sqlmock.AnyArg(), "missing", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery("SELECT(.|\n)*FROM recommendations").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recommendationRows))

	_, err := repo.TransitionStatus(context.Background(), "missing",
		models.RecommendationStatusPending, models.RecommendationStatusRejected, nil)
	require.Error(t, err)
	assert.True(t, persistence.IsRecommendationNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}
