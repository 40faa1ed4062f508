// Package audit logs every pipeline lifecycle event as a structured
// line. It is a passive subscriber; nothing in the pipeline depends on
// it.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skyops/aeromaint/pkg/eventbus"
	"github.com/skyops/aeromaint/pkg/events"
)

type Logger struct {
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewLogger(eventBus eventbus.EventBus, logger *slog.Logger) *Logger {
	return &Logger{
		eventBus: eventBus,
		logger:   logger.With("module", "audit"),
	}
}

// Start registers the audit handlers and begins consuming. The consume
// loop runs until ctx is cancelled or the bus closes.
func (l *Logger) Start(ctx context.Context) error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.RecommendationsGeneratedEvent: l.handleRecommendationsGenerated,
		events.RecommendationApprovedEvent:   l.handleRecommendationApproved,
		events.RecommendationRejectedEvent:   l.handleRecommendationRejected,
		events.WorkflowCreatedEvent:          l.handleWorkflowCreated,
		events.NotificationDispatchedEvent:   l.handleNotificationDispatched,
		events.PendingReminderEvent:          l.handlePendingReminder,
	}

	for eventType, handler := range handlers {
		err := l.eventBus.Handle(eventType, handler)
		if err != nil {
			return fmt.Errorf("failed to register audit handler for %s: %w", eventType, err)
		}
	}

	return l.eventBus.Subscribe(ctx)
}

func (l *Logger) handleRecommendationsGenerated(ctx context.Context, event any) error {
	e, ok := event.(*events.RecommendationsGenerated)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	l.logger.InfoContext(ctx, "Recommendations generated",
		"event_id", e.ID,
		"engine", e.Engine,
		"count", e.Count,
		"tail_numbers", e.TailNumbers,
	)

	return nil
}

func (l *Logger) handleRecommendationApproved(ctx context.Context, event any) error {
	e, ok := event.(*events.RecommendationApproved)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	l.logger.InfoContext(ctx, "Recommendation approved",
		"event_id", e.ID,
		"recommendation_id", e.RecommendationID,
		"tail_number", e.TailNumber,
		"approved_by", e.ApprovedBy,
	)

	return nil
}

func (l *Logger) handleRecommendationRejected(ctx context.Context, event any) error {
	e, ok := event.(*events.RecommendationRejected)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	l.logger.InfoContext(ctx, "Recommendation rejected",
		"event_id", e.ID,
		"recommendation_id", e.RecommendationID,
		"tail_number", e.TailNumber,
		"rejected_by", e.RejectedBy,
		"reason", e.Reason,
	)

	return nil
}

func (l *Logger) handleWorkflowCreated(ctx context.Context, event any) error {
	e, ok := event.(*events.WorkflowCreated)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	l.logger.InfoContext(ctx, "Workflow created",
		"event_id", e.ID,
		"workflow_id", e.WorkflowID,
		"recommendation_id", e.RecommendationID,
		"tail_number", e.TailNumber,
		"maintenance_type", e.MaintenanceType,
	)

	return nil
}

func (l *Logger) handleNotificationDispatched(ctx context.Context, event any) error {
	e, ok := event.(*events.NotificationDispatched)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	l.logger.InfoContext(ctx, "Notifications dispatched",
		"event_id", e.ID,
		"workflow_id", e.WorkflowID,
		"transport", e.Transport,
		"sent", e.Sent,
		"failed", e.Failed,
	)

	return nil
}

func (l *Logger) handlePendingReminder(ctx context.Context, event any) error {
	e, ok := event.(*events.PendingReminder)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	l.logger.InfoContext(ctx, "Pending approval reminder",
		"event_id", e.ID,
		"recommendation_id", e.RecommendationID,
		"tail_number", e.TailNumber,
		"pending_for", e.PendingFor,
	)

	return nil
}
