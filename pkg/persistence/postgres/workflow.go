package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
)

// WorkflowRepository handles active-workflow database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , recommendation_id
  , tail_number
  , type
  , status
  , assignments
  , calendar
  , bookings
  , work_order
  , compliance
  , created_at
  , updated_at
`

// List returns workflows matching the filter, newest first.
func (r *WorkflowRepository) List(ctx context.Context, filter persistence.WorkflowFilter) ([]*models.ActiveWorkflow, error) {
	query := `SELECT ` + workflowColumns + `
		FROM active_workflows
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
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.ActiveWorkflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

// GetByID loads a single workflow by id.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.ActiveWorkflow, error) {
	query := `SELECT ` + workflowColumns + `
		FROM active_workflows
		WHERE id = $1
	`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", "workflow", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewStoreError("GetByID", "workflow", id, err)
	}

	return workflow, nil
}

// Save upserts a workflow row.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.ActiveWorkflow) error {
	assignments, err := json.Marshal(workflow.Assignments)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	calendar, err := json.Marshal(workflow.Calendar)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	bookings, err := json.Marshal(workflow.Bookings)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	workOrder, err := json.Marshal(workflow.WorkOrder)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	compliance, err := json.Marshal(workflow.Compliance)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	query := `
		INSERT INTO active_workflows (` + workflowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			assignments = EXCLUDED.assignments,
			calendar = EXCLUDED.calendar,
			bookings = EXCLUDED.bookings,
			work_order = EXCLUDED.work_order,
			compliance = EXCLUDED.compliance,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.RecommendationID,
		workflow.TailNumber,
		string(workflow.Type),
		string(workflow.Status),
		assignments,
		calendar,
		bookings,
		workOrder,
		compliance,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	return nil
}

func scanWorkflow(row scannable) (*models.ActiveWorkflow, error) {
	var (
		workflow    models.ActiveWorkflow
		assignments []byte
		calendar    []byte
		bookings    []byte
		workOrder   []byte
		compliance  []byte
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.RecommendationID,
		&workflow.TailNumber,
		&workflow.Type,
		&workflow.Status,
		&assignments,
		&calendar,
		&bookings,
		&workOrder,
		&compliance,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, field := range []struct {
		raw  []byte
		dest any
	}{
		{assignments, &workflow.Assignments},
		{calendar, &workflow.Calendar},
		{bookings, &workflow.Bookings},
		{workOrder, &workflow.WorkOrder},
		{compliance, &workflow.Compliance},
	} {
		if len(field.raw) == 0 {
			continue
		}

		err = json.Unmarshal(field.raw, field.dest)
		if err != nil {
			return nil, fmt.Errorf("failed to decode workflow field: %w", err)
		}
	}

	return &workflow, nil
}
