package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skyops/aeromaint/pkg/advisor"
	"github.com/skyops/aeromaint/pkg/eventbus"
	"github.com/skyops/aeromaint/pkg/events"
	"github.com/skyops/aeromaint/pkg/fleet"
	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/otelhelper"
	"github.com/skyops/aeromaint/pkg/persistence"
)

// Recommendation is the generator front door plus the approval gate.
type Recommendation struct {
	persistence persistence.Persistence
	advisor     advisor.Advisor
	fleet       fleet.Source
	eventBus    eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewRecommendation creates the recommendation service.
func NewRecommendation(
	p persistence.Persistence,
	adv advisor.Advisor,
	fleetSource fleet.Source,
	bus eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Recommendation {
	return &Recommendation{
		persistence: p,
		advisor:     adv,
		fleet:       fleetSource,
		eventBus:    bus,
		tracer:      tracer,
		logger:      logger.With("module", "services", "service", "recommendation"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Recommendation) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// OverviewRequest filters the recommendation overview.
type OverviewRequest struct {
	TailNumber string
	Status     string
}

// Overview is the dashboard payload for the recommendations view.
type Overview struct {
	Recommendations  []*models.Recommendation `json:"recommendations"`
	TotalCount       int                      `json:"totalCount"`
	PendingApprovals int                      `json:"pendingApprovals"`
	ActiveWorkflows  int                      `json:"activeWorkflows"`
}

// Overview returns the current recommendation list plus dashboard counts.
// When nothing is pending for the requested aircraft, a fresh generator
// run backfills the list first, so an empty store never yields an empty
// dashboard.
func (s *Recommendation) Overview(ctx context.Context, req OverviewRequest) (*Overview, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "recommendations.overview",
		attribute.String(otelhelper.TailNumberKey, req.TailNumber),
	)
	defer span.End()

	statusFilter, err := parseStatusFilter(req.Status)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	repo := s.persistence.RecommendationRepository()
	pendingStatus := models.RecommendationStatusPending

	pending, err := repo.List(ctx, persistence.RecommendationFilter{
		TailNumber: req.TailNumber,
		Status:     &pendingStatus,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if len(pending) == 0 {
		err = s.generate(ctx, req.TailNumber)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, err
		}

		pending, err = repo.List(ctx, persistence.RecommendationFilter{
			TailNumber: req.TailNumber,
			Status:     &pendingStatus,
		})
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, err
		}
	}

	recs, err := repo.List(ctx, persistence.RecommendationFilter{
		TailNumber: req.TailNumber,
		Status:     statusFilter,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	workflows, err := s.persistence.WorkflowRepository().List(ctx, persistence.WorkflowFilter{})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return &Overview{
		Recommendations:  recs,
		TotalCount:       len(recs),
		PendingApprovals: len(pending),
		ActiveWorkflows:  len(workflows),
	}, nil
}

// generate runs the advisor over the fleet snapshot and persists the
// fresh PENDING recommendations.
func (s *Recommendation) generate(ctx context.Context, tailNumber string) error {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "recommendations.generate",
		attribute.String(otelhelper.AdvisorEngineKey, s.advisor.Name()),
	)
	defer span.End()

	snapshot, schedule, err := s.fleet.Snapshot(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	if tailNumber != "" {
		filtered := make([]models.AircraftUtilization, 0, 1)

		for _, aircraft := range snapshot {
			if aircraft.TailNumber == tailNumber {
				filtered = append(filtered, aircraft)
			}
		}

		snapshot = filtered
	}

	if len(snapshot) == 0 {
		return nil
	}

	recs, err := s.advisor.Recommendations(ctx, snapshot, schedule)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	repo := s.persistence.RecommendationRepository()
	tails := make([]string, 0, len(recs))

	for _, rec := range recs {
		err = repo.Save(ctx, rec)
		if err != nil {
			otelhelper.SetError(span, err)

			return err
		}

		tails = append(tails, rec.TailNumber)
	}

	s.publish(ctx, "generator", events.RecommendationsGenerated{
		BaseEvent:   events.NewBaseEvent(events.RecommendationsGeneratedEvent),
		Engine:      s.advisor.Name(),
		Count:       len(recs),
		TailNumbers: tails,
	})

	s.logger.InfoContext(ctx, "recommendations generated",
		"engine", s.advisor.Name(),
		"count", len(recs),
	)

	return nil
}

// Approve moves a PENDING recommendation to APPROVED. A second decision
// on the same recommendation fails with a conflict.
func (s *Recommendation) Approve(ctx context.Context, id, approvedBy, notes string) (*models.Recommendation, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "recommendations.approve",
		attribute.String(otelhelper.RecommendationIDKey, id),
	)
	defer span.End()

	if id == "" {
		return nil, ErrRecommendationIDRequired
	}

	if approvedBy == "" {
		return nil, ErrApproverRequired
	}

	rec, err := s.persistence.RecommendationRepository().TransitionStatus(ctx, id,
		models.RecommendationStatusPending, models.RecommendationStatusApproved,
		func(rec *models.Recommendation) {
			now := time.Now().UTC()
			rec.ApprovedBy = approvedBy
			rec.ApprovalNotes = notes
			rec.DecidedAt = &now
		},
	)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, rec.ID, events.RecommendationApproved{
		BaseEvent:        events.NewBaseEvent(events.RecommendationApprovedEvent),
		RecommendationID: rec.ID,
		TailNumber:       rec.TailNumber,
		ApprovedBy:       approvedBy,
	})

	s.logger.InfoContext(ctx, "recommendation approved",
		"recommendation_id", rec.ID,
		"tail_number", rec.TailNumber,
		"approved_by", approvedBy,
	)

	return rec, nil
}

// Reject moves a PENDING recommendation to REJECTED. No workflow is
// materialized and no notification is sent.
func (s *Recommendation) Reject(ctx context.Context, id, rejectedBy, reason string) (*models.Recommendation, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "recommendations.reject",
		attribute.String(otelhelper.RecommendationIDKey, id),
	)
	defer span.End()

	if id == "" {
		return nil, ErrRecommendationIDRequired
	}

	if rejectedBy == "" {
		return nil, ErrRejecterRequired
	}

	rec, err := s.persistence.RecommendationRepository().TransitionStatus(ctx, id,
		models.RecommendationStatusPending, models.RecommendationStatusRejected,
		func(rec *models.Recommendation) {
			now := time.Now().UTC()
			rec.RejectedBy = rejectedBy
			rec.RejectionReason = reason
			rec.DecidedAt = &now
		},
	)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, rec.ID, events.RecommendationRejected{
		BaseEvent:        events.NewBaseEvent(events.RecommendationRejectedEvent),
		RecommendationID: rec.ID,
		TailNumber:       rec.TailNumber,
		RejectedBy:       rejectedBy,
		Reason:           reason,
	})

	s.logger.InfoContext(ctx, "recommendation rejected",
		"recommendation_id", rec.ID,
		"tail_number", rec.TailNumber,
		"rejected_by", rejectedBy,
	)

	return rec, nil
}

// publish is fire-and-forget; a bus failure never fails the operation.
func (s *Recommendation) publish(ctx context.Context, key string, event eventbus.Event) {
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

func parseStatusFilter(raw string) (*models.RecommendationStatus, error) {
	if raw == "" {
		return nil, nil
	}

	status := models.RecommendationStatus(raw)
	switch status {
	case models.RecommendationStatusPending,
		models.RecommendationStatusApproved,
		models.RecommendationStatusRejected:
		return &status, nil
	default:
		return nil, ErrInvalidStatusFilter
	}
}
