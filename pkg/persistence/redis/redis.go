// Package redis provides Redis-backed persistence for recommendations and
// workflows. Records are stored as JSON values under key prefixes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
)

const (
	recommendationPrefix = "aeromaint:recommendations:"
	workflowPrefix       = "aeromaint:workflows:"
)

// Persistence implements the persistence.Persistence interface using Redis.
type Persistence struct {
	client             *goredis.Client
	recommendationRepo *RecommendationRepository
	workflowRepo       *WorkflowRepository
}

// NewPersistence creates a Redis persistence layer from a redis:// URL.
func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{
		client:             client,
		recommendationRepo: &RecommendationRepository{client: client},
		workflowRepo:       &WorkflowRepository{client: client},
	}, nil
}

// RecommendationRepository returns the recommendation repository implementation.
func (p *Persistence) RecommendationRepository() persistence.RecommendationRepository {
	return p.recommendationRepo
}

// WorkflowRepository returns the workflow repository implementation.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// HealthCheck verifies the Redis connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close closes the Redis client.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}

// RecommendationRepository stores recommendations as JSON values.
// Transitions are guarded by an in-process mutex; the service is the only
// writer for a given deployment.
type RecommendationRepository struct {
	client *goredis.Client
	mu     sync.Mutex
}

// List returns recommendations matching the filter, newest first.
func (rr *RecommendationRepository) List(ctx context.Context, filter persistence.RecommendationFilter) ([]*models.Recommendation, error) {
	recs := make([]*models.Recommendation, 0)

	iter := rr.client.Scan(ctx, 0, recommendationPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := rr.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}

			return nil, fmt.Errorf("failed to load recommendation %s: %w", iter.Val(), err)
		}

		var rec models.Recommendation

		err = json.Unmarshal(data, &rec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode recommendation %s: %w", iter.Val(), err)
		}

		if filter.TailNumber != "" && rec.TailNumber != filter.TailNumber {
			continue
		}

		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}

		recs = append(recs, &rec)
	}

	err := iter.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendations: %w", err)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	return recs, nil
}

// GetByID loads a single recommendation by id.
func (rr *RecommendationRepository) GetByID(ctx context.Context, id string) (*models.Recommendation, error) {
	data, err := rr.client.Get(ctx, recommendationPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewStoreError("GetByID", "recommendation", id, persistence.ErrRecommendationNotFound)
		}

		return nil, persistence.NewStoreError("GetByID", "recommendation", id, err)
	}

	var rec models.Recommendation

	err = json.Unmarshal(data, &rec)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", "recommendation", id, err)
	}

	return &rec, nil
}

// Save writes a recommendation value.
func (rr *RecommendationRepository) Save(ctx context.Context, rec *models.Recommendation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return persistence.NewStoreError("Save", "recommendation", rec.ID, err)
	}

	err = rr.client.Set(ctx, recommendationPrefix+rec.ID, data, 0).Err()
	if err != nil {
		return persistence.NewStoreError("Save", "recommendation", rec.ID, err)
	}

	return nil
}

// TransitionStatus atomically moves a recommendation between statuses.
func (rr *RecommendationRepository) TransitionStatus(
	ctx context.Context,
	id string,
	from, to models.RecommendationStatus,
	mutate func(*models.Recommendation),
) (*models.Recommendation, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rec, err := rr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Status != from {
		return nil, persistence.NewStoreError("TransitionStatus", "recommendation", id, persistence.ErrStatusConflict)
	}

	rec.Status = to
	rec.UpdatedAt = time.Now().UTC()

	if mutate != nil {
		mutate(rec)
	}

	err = rr.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// WorkflowRepository stores active workflows as JSON values.
type WorkflowRepository struct {
	client *goredis.Client
}

// List returns workflows matching the filter, newest first.
func (wr *WorkflowRepository) List(ctx context.Context, filter persistence.WorkflowFilter) ([]*models.ActiveWorkflow, error) {
	workflows := make([]*models.ActiveWorkflow, 0)

	iter := wr.client.Scan(ctx, 0, workflowPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := wr.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}

			return nil, fmt.Errorf("failed to load workflow %s: %w", iter.Val(), err)
		}

		var workflow models.ActiveWorkflow

		err = json.Unmarshal(data, &workflow)
		if err != nil {
			return nil, fmt.Errorf("failed to decode workflow %s: %w", iter.Val(), err)
		}

		if filter.TailNumber != "" && workflow.TailNumber != filter.TailNumber {
			continue
		}

		if filter.Status != nil && workflow.Status != *filter.Status {
			continue
		}

		workflows = append(workflows, &workflow)
	}

	err := iter.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to scan workflows: %w", err)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

// GetByID loads a single workflow by id.
func (wr *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.ActiveWorkflow, error) {
	data, err := wr.client.Get(ctx, workflowPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewStoreError("GetByID", "workflow", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewStoreError("GetByID", "workflow", id, err)
	}

	var workflow models.ActiveWorkflow

	err = json.Unmarshal(data, &workflow)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", "workflow", id, err)
	}

	return &workflow, nil
}

// Save writes a workflow value.
func (wr *WorkflowRepository) Save(ctx context.Context, workflow *models.ActiveWorkflow) error {
	data, err := json.Marshal(workflow)
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	err = wr.client.Set(ctx, workflowPrefix+workflow.ID, data, 0).Err()
	if err != nil {
		return persistence.NewStoreError("Save", "workflow", workflow.ID, err)
	}

	return nil
}
