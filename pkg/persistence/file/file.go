// Package file provides file-based persistence for recommendations and
// workflows. Each record is stored as one JSON document under the root
// directory. It is the development default.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/skyops/aeromaint/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root               string
	recommendationRepo *RecommendationRepository
	workflowRepo       *WorkflowRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:               cleanRoot,
		recommendationRepo: NewRecommendationRepository(cleanRoot),
		workflowRepo:       NewWorkflowRepository(cleanRoot),
	}
}

// RecommendationRepository returns the recommendation repository implementation.
func (fp *Persistence) RecommendationRepository() persistence.RecommendationRepository {
	return fp.recommendationRepo
}

// WorkflowRepository returns the workflow repository implementation.
func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
