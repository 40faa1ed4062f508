// Package web provides the HTTP handlers for the maintenance dashboard
// API. The endpoint is action-dispatched: one path, an action parameter,
// envelope responses.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/skyops/aeromaint/pkg/services"
)

type APIHandlers struct {
	recommendationService *services.Recommendation
	workflowService       *services.Workflow
	notificationService   *services.Notification
	validator             *validator.Validate
}

func NewAPIHandlers(
	recommendationService *services.Recommendation,
	workflowService *services.Workflow,
	notificationService *services.Notification,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		recommendationService: recommendationService,
		workflowService:       workflowService,
		notificationService:   notificationService,
		validator:             validator,
	}
}

// GetMaintenanceSchedule dispatches the GET actions.
func (h *APIHandlers) GetMaintenanceSchedule(c fiber.Ctx) error {
	switch c.Query("action") {
	case ActionAIRecommendations:
		return h.getRecommendations(c)
	case ActionActiveWorkflows:
		return h.getActiveWorkflows(c)
	default:
		return badRequest(c, "Unknown or missing action parameter")
	}
}

func (h *APIHandlers) getRecommendations(c fiber.Ctx) error {
	overview, err := h.recommendationService.Overview(c.Context(), services.OverviewRequest{
		TailNumber: c.Query("tailNumber"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(envelope{Success: true, Data: overview})
}

func (h *APIHandlers) getActiveWorkflows(c fiber.Ctx) error {
	list, err := h.workflowService.List(c.Context(), services.ListRequest{
		TailNumber: c.Query("aircraftId"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(envelope{Success: true, Data: list})
}

// PostMaintenanceSchedule dispatches the POST actions.
func (h *APIHandlers) PostMaintenanceSchedule(c fiber.Ctx) error {
	var req postRequest

	err := c.Bind().JSON(&req)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	switch req.Action {
	case ActionApproveRecommendation:
		return h.approveRecommendation(c, req)
	case ActionRejectRecommendation:
		return h.rejectRecommendation(c, req)
	default:
		return badRequest(c, "Unknown action: "+req.Action)
	}
}

// approveRecommendation runs the full approval pipeline: gate, workflow
// materialization, notification dispatch. Per-recipient email failures are
// reported in the payload, not as an HTTP error.
func (h *APIHandlers) approveRecommendation(c fiber.Ctx, req postRequest) error {
	err := h.validator.Struct(approveRequest{
		RecommendationID: req.RecommendationID,
		ApprovedBy:       req.ApprovedBy,
	})
	if err != nil {
		return badRequest(c, "recommendationId and approvedBy are required")
	}

	rec, err := h.recommendationService.Approve(c.Context(), req.RecommendationID, req.ApprovedBy, req.ApprovalNotes)
	if err != nil {
		return handleServiceError(c, err)
	}

	workflow, err := h.workflowService.Materialize(c.Context(), rec)
	if err != nil {
		return handleServiceError(c, err)
	}

	summary := h.notificationService.DispatchApproval(c.Context(), rec, workflow)

	return c.JSON(envelope{
		Success: true,
		Data: approvalData{
			Recommendation:     rec,
			Workflow:           workflow,
			ActiveWorkflow:     workflow,
			EmailNotifications: summary,
			AutomatedActions: []string{
				"workflow_created",
				"tasks_assigned",
				"calendar_blocked",
				"resources_booked",
				"work_order_opened",
				"compliance_logged",
				"notifications_dispatched",
			},
		},
	})
}

func (h *APIHandlers) rejectRecommendation(c fiber.Ctx, req postRequest) error {
	err := h.validator.Struct(rejectRequest{
		RecommendationID: req.RecommendationID,
		RejectedBy:       req.RejectedBy,
	})
	if err != nil {
		return badRequest(c, "recommendationId and rejectedBy are required")
	}

	rec, err := h.recommendationService.Reject(c.Context(), req.RecommendationID, req.RejectedBy, req.RejectionReason)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(envelope{Success: true, Data: rejectionData{Recommendation: rec}})
}

// HealthCheck reports persistence health alongside service status.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	detail, ok := h.recommendationService.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if !ok {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":      status,
		"persistence": detail,
		"timestamp":   time.Now().UTC(),
	})
}
