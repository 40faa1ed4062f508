package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
)

// RecommendationRepository handles recommendation-related file operations.
// A repository-level mutex guards status transitions so concurrent
// approvals of the same id cannot both succeed.
type RecommendationRepository struct {
	root string
	mu   sync.Mutex
}

// NewRecommendationRepository creates a new recommendation repository.
func NewRecommendationRepository(root string) *RecommendationRepository {
	return &RecommendationRepository{root: root}
}

func (rr *RecommendationRepository) dir() string {
	return filepath.Join(rr.root, "recommendations")
}

func (rr *RecommendationRepository) path(id string) string {
	return filepath.Join(rr.dir(), id+".json")
}

// List returns recommendations matching the filter, newest first.
func (rr *RecommendationRepository) List(ctx context.Context, filter persistence.RecommendationFilter) ([]*models.Recommendation, error) {
	root := os.DirFS(rr.dir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation files: %w", err)
	}

	recs := make([]*models.Recommendation, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-5] // Remove .json extension

		rec, err := rr.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load recommendation %s: %w", id, err)
		}

		if filter.TailNumber != "" && rec.TailNumber != filter.TailNumber {
			continue
		}

		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}

		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	return recs, nil
}

// GetByID loads a single recommendation by id.
func (rr *RecommendationRepository) GetByID(_ context.Context, id string) (*models.Recommendation, error) {
	data, err := os.ReadFile(rr.path(id))
	if err != nil {
		if os.IsNotExist(err) {
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

// Save writes a recommendation document, creating the directory on first use.
func (rr *RecommendationRepository) Save(_ context.Context, rec *models.Recommendation) error {
	err := os.MkdirAll(rr.dir(), 0o755)
	if err != nil {
		return persistence.NewStoreError("Save", "recommendation", rec.ID, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return persistence.NewStoreError("Save", "recommendation", rec.ID, err)
	}

	err = os.WriteFile(rr.path(rec.ID), data, 0o644)
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
