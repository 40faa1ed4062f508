package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skyops/aeromaint/pkg/eventbus"
	"github.com/skyops/aeromaint/pkg/events"
	"github.com/skyops/aeromaint/pkg/mailer/templates"
	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/otelhelper"
	"github.com/skyops/aeromaint/pkg/persistence"
)

// Default crew assignments for materialized workflows. The dashboard
// prototype shipped these as fixtures; they remain the deterministic
// defaults until crew rostering is integrated.
var defaultCrew = []struct {
	role     string
	assignee string
}{
	{"lead_technician", "John Smith"},
	{"inspector", "Sarah Chen"},
	{"parts_coordinator", "Mike Rodriguez"},
}

// Ground time blocked out per maintenance category.
var workDurations = map[models.MaintenanceType]time.Duration{
	models.MaintenanceTypeACheck:          2 * 24 * time.Hour,
	models.MaintenanceTypeBCheck:          5 * 24 * time.Hour,
	models.MaintenanceTypeEngineInspect:   7 * 24 * time.Hour,
	models.MaintenanceTypeAvionicsUpdate:  3 * 24 * time.Hour,
	models.MaintenanceTypeLandingGear:     4 * 24 * time.Hour,
	models.MaintenanceTypeInteriorRefresh: 5 * 24 * time.Hour,
}

// How soon the window opens, by urgency.
var leadTimes = map[models.Urgency]time.Duration{
	models.UrgencyCritical: 24 * time.Hour,
	models.UrgencyHigh:     3 * 24 * time.Hour,
	models.UrgencyMedium:   7 * 24 * time.Hour,
	models.UrgencyLow:      14 * 24 * time.Hour,
}

// Workflow materializes and lists active workflows.
type Workflow struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
	now         func() time.Time
}

// NewWorkflow creates the workflow service.
func NewWorkflow(
	p persistence.Persistence,
	bus eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Workflow {
	return &Workflow{
		persistence: p,
		eventBus:    bus,
		tracer:      tracer,
		logger:      logger.With("module", "services", "service", "workflow"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Materialize builds the execution bundle for an approved recommendation.
// The workflow id is derived from the recommendation id, so a repeated
// materialization attempt collides instead of duplicating.
func (s *Workflow) Materialize(ctx context.Context, rec *models.Recommendation) (*models.ActiveWorkflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "workflows.materialize",
		attribute.String(otelhelper.RecommendationIDKey, rec.ID),
		attribute.String(otelhelper.TailNumberKey, rec.TailNumber),
		attribute.String(otelhelper.MaintenanceTypeKey, string(rec.Type)),
	)
	defer span.End()

	workflowID := models.WorkflowIDFor(rec.ID)
	repo := s.persistence.WorkflowRepository()

	_, err := repo.GetByID(ctx, workflowID)
	if err == nil {
		err = persistence.NewStoreError("Materialize", "workflow", workflowID, persistence.ErrWorkflowAlreadyExists)
		otelhelper.SetError(span, err)

		return nil, err
	}

	if !persistence.IsWorkflowNotFound(err) {
		otelhelper.SetError(span, err)

		return nil, err
	}

	workflow := s.build(workflowID, rec)

	err = repo.Save(ctx, workflow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, workflow.ID, events.WorkflowCreated{
		BaseEvent:        events.NewBaseEvent(events.WorkflowCreatedEvent),
		WorkflowID:       workflow.ID,
		RecommendationID: rec.ID,
		TailNumber:       rec.TailNumber,
		MaintenanceType:  rec.Type,
	})

	s.logger.InfoContext(ctx, "workflow materialized",
		"workflow_id", workflow.ID,
		"recommendation_id", rec.ID,
		"tail_number", rec.TailNumber,
	)

	return workflow, nil
}

// build templates the sub-records from the recommendation. Sub-records are
// independent; no conflict detection runs against other workflows.
func (s *Workflow) build(workflowID string, rec *models.Recommendation) *models.ActiveWorkflow {
	now := s.now()
	typeLabel := templates.TypeLabel(rec.Type)

	start := now.Add(leadTimeFor(rec.Urgency))
	end := start.Add(durationFor(rec.Type))

	assignments := make([]models.TaskAssignment, 0, len(defaultCrew))
	for _, crew := range defaultCrew {
		assignments = append(assignments, models.TaskAssignment{
			ID:          uuid.New().String(),
			Role:        crew.role,
			Assignee:    crew.assignee,
			Description: fmt.Sprintf("%s for %s", typeLabel, rec.TailNumber),
			DueAt:       end,
		})
	}

	return &models.ActiveWorkflow{
		ID:               workflowID,
		RecommendationID: rec.ID,
		TailNumber:       rec.TailNumber,
		Type:             rec.Type,
		Status:           models.WorkflowStatusScheduled,
		Assignments:      assignments,
		Calendar: models.CalendarEvent{
			ID:       uuid.New().String(),
			Title:    fmt.Sprintf("%s: %s", rec.TailNumber, typeLabel),
			Location: "Hangar 3",
			StartAt:  start,
			EndAt:    end,
		},
		Bookings: []models.ResourceBooking{
			{
				ID:       uuid.New().String(),
				Resource: "Hangar 3, Bay 1",
				Kind:     "hangar_bay",
				StartAt:  start,
				EndAt:    end,
			},
			{
				ID:       uuid.New().String(),
				Resource: "Hydraulic lift L-2",
				Kind:     "ground_equipment",
				StartAt:  start,
				EndAt:    end,
			},
		},
		WorkOrder: models.WorkOrder{
			ID:            uuid.New().String(),
			Number:        workOrderNumber(rec.ID),
			Description:   fmt.Sprintf("%s on %s per approved recommendation", typeLabel, rec.TailNumber),
			EstimatedCost: rec.EstimatedCost,
			PartsRequired: []string{"per inspection findings"},
		},
		Compliance: []models.ComplianceEntry{
			{
				ID:         uuid.New().String(),
				Regulation: "14 CFR 91.409",
				Note:       fmt.Sprintf("%s scheduled for %s", typeLabel, rec.TailNumber),
				LoggedAt:   now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ListRequest filters the active workflow listing.
type ListRequest struct {
	TailNumber string
	Status     string
}

// List is the workflow listing plus its status histogram.
type List struct {
	Workflows    []*models.ActiveWorkflow      `json:"workflows"`
	TotalCount   int                           `json:"totalCount"`
	StatusCounts map[models.WorkflowStatus]int `json:"statusCounts"`
}

// List returns active workflows matching the filter.
func (s *Workflow) List(ctx context.Context, req ListRequest) (*List, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "workflows.list",
		attribute.String(otelhelper.TailNumberKey, req.TailNumber),
	)
	defer span.End()

	statusFilter, err := parseWorkflowStatusFilter(req.Status)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	workflows, err := s.persistence.WorkflowRepository().List(ctx, persistence.WorkflowFilter{
		TailNumber: req.TailNumber,
		Status:     statusFilter,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	counts := make(map[models.WorkflowStatus]int)
	for _, workflow := range workflows {
		counts[workflow.Status]++
	}

	return &List{
		Workflows:    workflows,
		TotalCount:   len(workflows),
		StatusCounts: counts,
	}, nil
}

func (s *Workflow) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	err := s.eventBus.Publish(ctx, key, event)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", event.GetType(),
			"error", err,
		)
	}
}

func durationFor(t models.MaintenanceType) time.Duration {
	if d, ok := workDurations[t]; ok {
		return d
	}

	return 3 * 24 * time.Hour
}

func leadTimeFor(u models.Urgency) time.Duration {
	if d, ok := leadTimes[u]; ok {
		return d
	}

	return 7 * 24 * time.Hour
}

// workOrderNumber derives a human-referenceable number from the
// recommendation id.
func workOrderNumber(recommendationID string) string {
	fragment := strings.ReplaceAll(recommendationID, "-", "")
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}

	return "WO-" + strings.ToUpper(fragment)
}

func parseWorkflowStatusFilter(raw string) (*models.WorkflowStatus, error) {
	if raw == "" {
		return nil, nil
	}

	status := models.WorkflowStatus(raw)
	switch status {
	case models.WorkflowStatusScheduled,
		models.WorkflowStatusInProgress,
		models.WorkflowStatusCompleted,
		models.WorkflowStatusCancelled:
		return &status, nil
	default:
		return nil, ErrInvalidStatusFilter
	}
}
