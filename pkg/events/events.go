// Package events defines the lifecycle events emitted by the maintenance
// pipeline. Consumers range from the dashboard activity feed to external
// audit sinks; publishing is fire-and-forget from the services' view.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/skyops/aeromaint/pkg/models"
)

type EventType string

// Topic carries every pipeline event.
const Topic = "aeromaint.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RecommendationsGeneratedEvent EventType = "recommendations.generated"
	RecommendationApprovedEvent   EventType = "recommendation.approved"
	RecommendationRejectedEvent   EventType = "recommendation.rejected"
	WorkflowCreatedEvent          EventType = "workflow.created"
	NotificationDispatchedEvent   EventType = "notification.dispatched"
	PendingReminderEvent          EventType = "recommendation.pending-reminder"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// RecommendationsGenerated is emitted after an engine run, whether the
// primary or the fallback produced the list.
type RecommendationsGenerated struct {
	BaseEvent

	Engine      string   `json:"engine"`
	Count       int      `json:"count"`
	TailNumbers []string `json:"tail_numbers"`
}

func (e RecommendationsGenerated) GetType() EventType {
	return RecommendationsGeneratedEvent
}

type RecommendationApproved struct {
	BaseEvent

	RecommendationID string `json:"recommendation_id"`
	TailNumber       string `json:"tail_number"`
	ApprovedBy       string `json:"approved_by"`
}

func (e RecommendationApproved) GetType() EventType {
	return RecommendationApprovedEvent
}

type RecommendationRejected struct {
	BaseEvent

	RecommendationID string `json:"recommendation_id"`
	TailNumber       string `json:"tail_number"`
	RejectedBy       string `json:"rejected_by"`
	Reason           string `json:"reason,omitempty"`
}

func (e RecommendationRejected) GetType() EventType {
	return RecommendationRejectedEvent
}

type WorkflowCreated struct {
	BaseEvent

	WorkflowID       string                 `json:"workflow_id"`
	RecommendationID string                 `json:"recommendation_id"`
	TailNumber       string                 `json:"tail_number"`
	MaintenanceType  models.MaintenanceType `json:"maintenance_type"`
}

func (e WorkflowCreated) GetType() EventType {
	return WorkflowCreatedEvent
}

type NotificationDispatched struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	Transport  string `json:"transport"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
}

func (e NotificationDispatched) GetType() EventType {
	return NotificationDispatchedEvent
}

// PendingReminder is emitted by the sweep for recommendations that have sat
// undecided past the reminder threshold.
type PendingReminder struct {
	BaseEvent

	RecommendationID string        `json:"recommendation_id"`
	TailNumber       string        `json:"tail_number"`
	PendingFor       time.Duration `json:"pending_for"`
}

func (e PendingReminder) GetType() EventType {
	return PendingReminderEvent
}
