// Package services implements the pipeline behind the dashboard API:
// recommendation generation, the approval gate, workflow materialization,
// and notification dispatch.
package services

import (
	"errors"
	"fmt"

	"github.com/skyops/aeromaint/pkg/persistence"
)

// Business logic errors. Validation errors map to 400 responses,
// conflicts to 409.
var (
	ErrInvalidRequest           = errors.New("invalid request")
	ErrRecommendationIDRequired = errors.New("recommendation id is required")
	ErrApproverRequired         = errors.New("approver identity is required")
	ErrRejecterRequired         = errors.New("rejecter identity is required")
	ErrInvalidStatusFilter      = errors.New("invalid status filter")

	ErrAlreadyDecided = errors.New("recommendation already decided")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrRecommendationIDRequired) ||
		errors.Is(err, ErrApproverRequired) ||
		errors.Is(err, ErrRejecterRequired) ||
		errors.Is(err, ErrInvalidStatusFilter)
}

// IsConflictError checks if an error should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyDecided) ||
		persistence.IsStatusConflict(err) ||
		persistence.IsWorkflowAlreadyExists(err)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return persistence.IsRecommendationNotFound(err) ||
		persistence.IsWorkflowNotFound(err)
}
