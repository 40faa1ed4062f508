package web

import "github.com/skyops/aeromaint/pkg/models"

// Action identifiers accepted by the maintenance-schedule endpoint.
const (
	ActionAIRecommendations     = "ai-recommendations"
	ActionActiveWorkflows       = "active-workflows"
	ActionApproveRecommendation = "approve-recommendation"
	ActionRejectRecommendation  = "reject-recommendation"
)

// postRequest is the union body of the POST actions; per-action required
// fields are validated after the action dispatch.
type postRequest struct {
	Action           string `json:"action"           validate:"required"`
	RecommendationID string `json:"recommendationId"`
	ApprovedBy       string `json:"approvedBy"`
	ApprovalNotes    string `json:"approvalNotes"`
	RejectedBy       string `json:"rejectedBy"`
	RejectionReason  string `json:"rejectionReason"`
}

type approveRequest struct {
	RecommendationID string `validate:"required"`
	ApprovedBy       string `validate:"required"`
}

type rejectRequest struct {
	RecommendationID string `validate:"required"`
	RejectedBy       string `validate:"required"`
}

// envelope is the response wrapper used by every action.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// approvalData is the approve-recommendation response payload. The
// dashboard consumes activeWorkflow; workflow is kept as an alias for
// older clients.
type approvalData struct {
	Recommendation     *models.Recommendation  `json:"recommendation"`
	Workflow           *models.ActiveWorkflow  `json:"workflow"`
	ActiveWorkflow     *models.ActiveWorkflow  `json:"activeWorkflow"`
	EmailNotifications *models.DispatchSummary `json:"emailNotifications"`
	AutomatedActions   []string                `json:"automatedActions"`
}

type rejectionData struct {
	Recommendation *models.Recommendation `json:"recommendation"`
}
