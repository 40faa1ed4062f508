package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skyops/aeromaint/pkg/eventbus"
	"github.com/skyops/aeromaint/pkg/events"
	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/mailer/templates"
	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/otelhelper"
)

// Notification renders and dispatches workflow emails.
type Notification struct {
	transport  mailer.Transport
	renderer   *templates.Renderer
	recipients []models.Recipient
	eventBus   eventbus.EventPublisher
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewNotification creates the notification service. An empty recipient
// list falls back to the standing distribution list.
func NewNotification(
	transport mailer.Transport,
	renderer *templates.Renderer,
	recipients []models.Recipient,
	bus eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Notification {
	if len(recipients) == 0 {
		recipients = models.DefaultRecipients()
	}

	return &Notification{
		transport:  transport,
		renderer:   renderer,
		recipients: recipients,
		eventBus:   bus,
		tracer:     tracer,
		logger:     logger.With("module", "services", "service", "notification"),
	}
}

// DispatchApproval emails every recipient about the approved work,
// sequentially. Per-recipient failures are collected, never raised; the
// summary always satisfies Sent + len(Failures) == len(Recipients).
func (s *Notification) DispatchApproval(
	ctx context.Context,
	rec *models.Recommendation,
	workflow *models.ActiveWorkflow,
) *models.DispatchSummary {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "notifications.dispatch",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.TransportKey, s.transport.Name()),
	)
	defer span.End()

	summary := &models.DispatchSummary{
		Recipients: s.recipients,
		Failures:   make([]models.SendFailure, 0),
	}

	for _, recipient := range s.recipients {
		msg, err := s.renderer.Render(recipient, rec, workflow)
		if err != nil {
			summary.Failures = append(summary.Failures, models.SendFailure{
				Recipient: recipient,
				Error:     err.Error(),
			})

			s.logger.ErrorContext(ctx, "failed to render notification",
				"recipient", recipient.Email,
				"error", err,
			)

			continue
		}

		messageID, err := s.transport.Send(ctx, msg)
		if err != nil {
			summary.Failures = append(summary.Failures, models.SendFailure{
				Recipient: recipient,
				Error:     err.Error(),
			})

			s.logger.WarnContext(ctx, "notification delivery failed",
				"recipient", recipient.Email,
				"error", err,
			)

			continue
		}

		summary.Sent++

		s.logger.InfoContext(ctx, "notification delivered",
			"recipient", recipient.Email,
			"message_id", messageID,
		)
	}

	summary.Success = len(summary.Failures) == 0

	s.publish(ctx, workflow.ID, events.NotificationDispatched{
		BaseEvent:  events.NewBaseEvent(events.NotificationDispatchedEvent),
		WorkflowID: workflow.ID,
		Transport:  s.transport.Name(),
		Sent:       summary.Sent,
		Failed:     len(summary.Failures),
	})

	return summary
}

// DispatchPendingReminder nudges the maintenance manager about a
// recommendation that has sat undecided past the reminder threshold.
func (s *Notification) DispatchPendingReminder(
	ctx context.Context,
	rec *models.Recommendation,
	pendingFor time.Duration,
) error {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "notifications.reminder",
		attribute.String(otelhelper.RecommendationIDKey, rec.ID),
	)
	defer span.End()

	recipient := s.reminderRecipient()
	typeLabel := templates.TypeLabel(rec.Type)

	msg := mailer.Message{
		To:      recipient,
		Subject: fmt.Sprintf("Reminder: %s for %s awaits approval", typeLabel, rec.TailNumber),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nThe recommendation %s (%s for %s, urgency %s) has been pending for %s without a decision.\n\nPlease approve or reject it on the maintenance dashboard.\n",
			recipient.Name, rec.ID, typeLabel, rec.TailNumber, rec.Urgency, pendingFor.Round(time.Minute),
		),
	}

	_, err := s.transport.Send(ctx, msg)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("reminder delivery failed: %w", err)
	}

	s.publish(ctx, rec.ID, events.PendingReminder{
		BaseEvent:        events.NewBaseEvent(events.PendingReminderEvent),
		RecommendationID: rec.ID,
		TailNumber:       rec.TailNumber,
		PendingFor:       pendingFor,
	})

	return nil
}

// reminderRecipient prefers the maintenance manager role.
func (s *Notification) reminderRecipient() models.Recipient {
	for _, recipient := range s.recipients {
		if recipient.Role == "maintenance_manager" {
			return recipient
		}
	}

	return s.recipients[0]
}

func (s *Notification) publish(ctx context.Context, key string, event eventbus.Event) {
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
