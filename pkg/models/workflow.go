package models

import "time"

// WorkflowStatus represents the execution state of a materialized workflow.
type WorkflowStatus string

const (
	WorkflowStatusScheduled  WorkflowStatus = "SCHEDULED"
	WorkflowStatusInProgress WorkflowStatus = "IN_PROGRESS"
	WorkflowStatusCompleted  WorkflowStatus = "COMPLETED"
	WorkflowStatusCancelled  WorkflowStatus = "CANCELLED"
)

// TaskAssignment is a unit of work assigned to a role on the maintenance team.
type TaskAssignment struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Assignee    string    `json:"assignee"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"due_at"`
}

// CalendarEvent blocks out the maintenance window on the operations calendar.
type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
}

// ResourceBooking reserves a physical resource (hangar bay, tooling, lift)
// for the maintenance window. No conflict detection is performed against
// other active workflows.
type ResourceBooking struct {
	ID       string    `json:"id"`
	Resource string    `json:"resource"`
	Kind     string    `json:"kind"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
}

// WorkOrder is the shop paperwork derived from the approved recommendation.
type WorkOrder struct {
	ID            string   `json:"id"`
	Number        string   `json:"number"`
	Description   string   `json:"description"`
	EstimatedCost float64  `json:"estimated_cost"`
	PartsRequired []string `json:"parts_required"`
}

// ComplianceEntry is an audit record tying the work to a regulation.
type ComplianceEntry struct {
	ID         string    `json:"id"`
	Regulation string    `json:"regulation"`
	Note       string    `json:"note"`
	LoggedAt   time.Time `json:"logged_at"`
}

// ActiveWorkflow tracks execution of an approved recommendation. Exactly one
// workflow is created per approval, keyed by a derived id.
type ActiveWorkflow struct {
	ID               string            `json:"id"`
	RecommendationID string            `json:"recommendation_id"`
	TailNumber       string            `json:"tail_number"`
	Type             MaintenanceType   `json:"type"`
	Status           WorkflowStatus    `json:"status"`
	Assignments      []TaskAssignment  `json:"assignments"`
	Calendar         CalendarEvent     `json:"calendar"`
	Bookings         []ResourceBooking `json:"bookings"`
	WorkOrder        WorkOrder         `json:"work_order"`
	Compliance       []ComplianceEntry `json:"compliance"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// WorkflowIDFor derives the workflow id for a recommendation. The mapping is
// stable so a second materialization attempt collides instead of duplicating.
func WorkflowIDFor(recommendationID string) string {
	return "wf-" + recommendationID
}
