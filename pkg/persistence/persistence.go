// Package persistence provides the data storage abstraction layer for
// recommendations and active workflows.
package persistence

import (
	"context"

	"github.com/skyops/aeromaint/pkg/models"
)

// RecommendationFilter narrows recommendation listings.
type RecommendationFilter struct {
	TailNumber string
	Status     *models.RecommendationStatus
}

// WorkflowFilter narrows workflow listings.
type WorkflowFilter struct {
	TailNumber string
	Status     *models.WorkflowStatus
}

// RecommendationRepository stores maintenance recommendations.
type RecommendationRepository interface {
	List(ctx context.Context, filter RecommendationFilter) ([]*models.Recommendation, error)
	GetByID(ctx context.Context, id string) (*models.Recommendation, error)
	Save(ctx context.Context, rec *models.Recommendation) error

	// TransitionStatus atomically moves a recommendation from one status to
	// another and applies the mutation. It returns ErrRecommendationNotFound
	// for unknown ids and ErrStatusConflict when the current status does not
	// match from.
	TransitionStatus(
		ctx context.Context,
		id string,
		from, to models.RecommendationStatus,
		mutate func(*models.Recommendation),
	) (*models.Recommendation, error)
}

// WorkflowRepository stores materialized active workflows.
type WorkflowRepository interface {
	List(ctx context.Context, filter WorkflowFilter) ([]*models.ActiveWorkflow, error)
	GetByID(ctx context.Context, id string) (*models.ActiveWorkflow, error)
	Save(ctx context.Context, workflow *models.ActiveWorkflow) error
}

// Persistence is the storage entry point. Implementations are selected by
// DATABASE_URL scheme (file://, postgres://, redis://).
type Persistence interface {
	RecommendationRepository() RecommendationRepository
	WorkflowRepository() WorkflowRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
