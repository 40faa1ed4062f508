// Package advisor turns fleet utilization data into maintenance
// recommendations. Engines are pluggable; the model-backed engine falls
// back to the deterministic one when the upstream call fails.
package advisor

import (
	"context"
	"log/slog"

	"github.com/skyops/aeromaint/pkg/models"
)

// Advisor generates maintenance recommendations for a fleet snapshot.
type Advisor interface {
	Recommendations(ctx context.Context, fleet []models.AircraftUtilization, schedule *models.ScheduleContext) ([]*models.Recommendation, error)
	Name() string
}

// Factory creates an advisor from configuration.
type Factory interface {
	Create(config map[string]any, logger *slog.Logger) (Advisor, error)
	ID() string
}

// Resilient wraps a primary advisor with a fallback. A primary failure is
// logged and the fallback result returned; the caller never sees the error
// unless both engines fail.
type Resilient struct {
	primary  Advisor
	fallback Advisor
	logger   *slog.Logger
}

// NewResilient builds the primary-with-fallback composite.
func NewResilient(primary, fallback Advisor, logger *slog.Logger) *Resilient {
	return &Resilient{primary: primary, fallback: fallback, logger: logger}
}

// Name identifies the composite by its primary engine.
func (r *Resilient) Name() string {
	return r.primary.Name()
}

// Recommendations tries the primary engine first.
func (r *Resilient) Recommendations(
	ctx context.Context,
	fleet []models.AircraftUtilization,
	schedule *models.ScheduleContext,
) ([]*models.Recommendation, error) {
	recs, err := r.primary.Recommendations(ctx, fleet, schedule)
	if err == nil {
		return recs, nil
	}

	r.logger.WarnContext(ctx, "primary advisor failed, using fallback",
		"primary", r.primary.Name(),
		"fallback", r.fallback.Name(),
		"error", err,
	)

	return r.fallback.Recommendations(ctx, fleet, schedule)
}
