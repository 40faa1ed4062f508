// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrRecommendationNotFound indicates a recommendation was not found by the given identifier.
	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrWorkflowNotFound indicates an active workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrStatusConflict indicates a status transition was attempted from a
	// status other than the expected one (e.g. approving twice).
	ErrStatusConflict = errors.New("recommendation status conflict")

	// ErrWorkflowAlreadyExists indicates a workflow with the same derived id already exists.
	ErrWorkflowAlreadyExists = errors.New("workflow already exists")
)

// StoreError wraps storage errors with operation context.
type StoreError struct {
	Op     string // Operation being performed (e.g. "GetByID", "Save")
	Entity string // "recommendation" or "workflow"
	ID     string // Record id if applicable
	Err    error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s operation failed for %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new store error with context.
func NewStoreError(op, entity, id string, err error) *StoreError {
	return &StoreError{Op: op, Entity: entity, ID: id, Err: err}
}

// IsRecommendationNotFound checks if an error indicates a recommendation was not found.
func IsRecommendationNotFound(err error) bool {
	return errors.Is(err, ErrRecommendationNotFound)
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsStatusConflict checks if an error indicates a conflicting status transition.
func IsStatusConflict(err error) bool {
	return errors.Is(err, ErrStatusConflict)
}

// IsWorkflowAlreadyExists checks if an error indicates a duplicate workflow id.
func IsWorkflowAlreadyExists(err error) bool {
	return errors.Is(err, ErrWorkflowAlreadyExists)
}
