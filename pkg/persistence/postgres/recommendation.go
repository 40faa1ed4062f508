package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
)

// RecommendationRepository handles recommendation-related database operations.
type RecommendationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRecommendationRepository creates a new recommendation repository.
func NewRecommendationRepository(db *sql.DB, logger *slog.Logger) *RecommendationRepository {
	return &RecommendationRepository{db: db, logger: logger}
}

const recommendationColumns = `
	id
  , tail_number
  , type
  , confidence
  , estimated_cost
  , urgency
  , reasoning
  , status
  , generated_by
  , approved_by
  , approval_notes
  , rejected_by
  , rejection_reason
  , created_at
  , updated_at
  , decided_at
`

// List returns recommendations matching the filter, newest first.
func (r *RecommendationRepository) List(ctx context.Context, filter persistence.RecommendationFilter) ([]*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE ($1 = '' OR tail_number = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`

	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}

	rows, err := r.db.QueryContext(ctx, query, filter.TailNumber, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	recs := make([]*models.Recommendation, 0)

	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		recs = append(recs, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, nil
}

// GetByID loads a single recommendation by id.
func (r *RecommendationRepository) GetByID(ctx context.Context, id string) (*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE id = $1
	`

	rec, err := scanRecommendation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", "recommendation", id, persistence.ErrRecommendationNotFound)
		}

		return nil, persistence.NewStoreError("GetByID", "recommendation", id, err)
	}

	return rec, nil
}

// Save upserts a recommendation row.
func (r *RecommendationRepository) Save(ctx context.Context, rec *models.Recommendation) error {
	reasoning, err := json.Marshal(rec.Reasoning)
	if err != nil {
		return persistence.NewStoreError("Save", "recommendation", rec.ID, err)
	}

	query := `
		INSERT INTO recommendations (` + recommendationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			approved_by = EXCLUDED.approved_by,
			approval_notes = EXCLUDED.approval_notes,
			rejected_by = EXCLUDED.rejected_by,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at = EXCLUDED.updated_at,
			decided_at = EXCLUDED.decided_at
	`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.TailNumber,
		string(rec.Type),
		rec.Confidence,
		rec.EstimatedCost,
		string(rec.Urgency),
		reasoning,
		string(rec.Status),
		rec.GeneratedBy,
		nullString(rec.ApprovedBy),
		nullString(rec.ApprovalNotes),
		nullString(rec.RejectedBy),
		nullString(rec.RejectionReason),
		rec.CreatedAt,
		rec.UpdatedAt,
		nullTime(rec.DecidedAt),
	)
	if err != nil {
		return persistence.NewStoreError("Save", "recommendation", rec.ID, err)
	}

	return nil
}

// TransitionStatus performs the status change as a single conditional UPDATE
// so concurrent approvals cannot both succeed.
func (r *RecommendationRepository) TransitionStatus(
	ctx context.Context,
	id string,
	from, to models.RecommendationStatus,
	mutate func(*models.Recommendation),
) (*models.Recommendation, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE recommendations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), now, id, string(from),
	)
	if err != nil {
		return nil, persistence.NewStoreError("TransitionStatus", "recommendation", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, persistence.NewStoreError("TransitionStatus", "recommendation", id, err)
	}

	if affected == 0 {
		// Distinguish missing row from status mismatch.
		_, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		return nil, persistence.NewStoreError("TransitionStatus", "recommendation", id, persistence.ErrStatusConflict)
	}

	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if mutate != nil {
		mutate(rec)

		err = r.Save(ctx, rec)
		if err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// scannable covers both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanRecommendation(row scannable) (*models.Recommendation, error) {
	var (
		rec             models.Recommendation
		reasoning       []byte
		approvedBy      sql.NullString
		approvalNotes   sql.NullString
		rejectedBy      sql.NullString
		rejectionReason sql.NullString
		decidedAt       sql.NullTime
	)

	err := row.Scan(
		&rec.ID,
		&rec.TailNumber,
		&rec.Type,
		&rec.Confidence,
		&rec.EstimatedCost,
		&rec.Urgency,
		&reasoning,
		&rec.Status,
		&rec.GeneratedBy,
		&approvedBy,
		&approvalNotes,
		&rejectedBy,
		&rejectionReason,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&decidedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(reasoning) > 0 {
		err = json.Unmarshal(reasoning, &rec.Reasoning)
		if err != nil {
			return nil, fmt.Errorf("failed to decode reasoning: %w", err)
		}
	}

	rec.ApprovedBy = approvedBy.String
	rec.ApprovalNotes = approvalNotes.String
	rec.RejectedBy = rejectedBy.String
	rec.RejectionReason = rejectionReason.String

	if decidedAt.Valid {
		t := decidedAt.Time
		rec.DecidedAt = &t
	}

	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
