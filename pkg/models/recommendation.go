// Package models defines the core domain models for the maintenance
// recommendation and approval pipeline.
package models

import "time"

// RecommendationStatus represents the lifecycle state of a maintenance recommendation.
type RecommendationStatus string

const (
	RecommendationStatusPending  RecommendationStatus = "PENDING"  // Awaiting an operator decision
	RecommendationStatusApproved RecommendationStatus = "APPROVED" // Terminal, workflow materialized
	RecommendationStatusRejected RecommendationStatus = "REJECTED" // Terminal, no workflow
)

// MaintenanceType identifies the category of suggested maintenance work.
type MaintenanceType string

const (
	MaintenanceTypeACheck          MaintenanceType = "A_CHECK"
	MaintenanceTypeBCheck          MaintenanceType = "B_CHECK"
	MaintenanceTypeEngineInspect   MaintenanceType = "ENGINE_INSPECTION"
	MaintenanceTypeAvionicsUpdate  MaintenanceType = "AVIONICS_UPDATE"
	MaintenanceTypeLandingGear     MaintenanceType = "LANDING_GEAR_SERVICE"
	MaintenanceTypeInteriorRefresh MaintenanceType = "INTERIOR_REFRESH"
)

// Urgency expresses how soon the suggested work should be scheduled.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// Confidence bounds for generated recommendations, in percent.
// Model-returned values outside this range are clamped into it.
const (
	ConfidenceFloor   = 50.0
	ConfidenceCeiling = 95.0
)

// Recommendation is a suggested maintenance action for one aircraft.
type Recommendation struct {
	ID              string               `json:"id"`
	TailNumber      string               `json:"tail_number"      validate:"required"`
	Type            MaintenanceType      `json:"type"             validate:"required"`
	Confidence      float64              `json:"confidence"`
	EstimatedCost   float64              `json:"estimated_cost"`
	Urgency         Urgency              `json:"urgency"`
	Reasoning       []string             `json:"reasoning"`
	Status          RecommendationStatus `json:"status"`
	GeneratedBy     string               `json:"generated_by"` // advisor engine id
	ApprovedBy      string               `json:"approved_by,omitempty"`
	ApprovalNotes   string               `json:"approval_notes,omitempty"`
	RejectedBy      string               `json:"rejected_by,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DecidedAt       *time.Time           `json:"decided_at,omitempty"`
}

// IsPending reports whether the recommendation still awaits a decision.
func (r *Recommendation) IsPending() bool {
	return r.Status == RecommendationStatusPending
}

// ClampConfidence forces a confidence value into the allowed range.
func ClampConfidence(v float64) float64 {
	if v < ConfidenceFloor {
		return ConfidenceFloor
	}

	if v > ConfidenceCeiling {
		return ConfidenceCeiling
	}

	return v
}
