// Package reminder periodically nudges the maintenance manager about
// recommendations that have sat undecided past a threshold. It is a small
// cron-driven sweep, not a task queue.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/skyops/aeromaint/pkg/models"
	"github.com/skyops/aeromaint/pkg/persistence"
	"github.com/skyops/aeromaint/pkg/services"
)

// DefaultThreshold is how long a recommendation may stay PENDING before
// the sweep starts reminding.
const DefaultThreshold = 24 * time.Hour

// Sweeper runs the pending-approval sweep on a cron schedule. A
// recommendation is reminded about at most once per threshold interval,
// so a frequent schedule does not turn into a reminder per run.
type Sweeper struct {
	persistence  persistence.Persistence
	notifier     *services.Notification
	threshold    time.Duration
	cron         *cron.Cron
	logger       *slog.Logger
	now          func() time.Time
	mu           sync.Mutex
	lastReminded map[string]time.Time
}

// NewSweeper creates the sweeper. A non-positive threshold falls back to
// the default.
func NewSweeper(
	p persistence.Persistence,
	notifier *services.Notification,
	threshold time.Duration,
	logger *slog.Logger,
) *Sweeper {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Sweeper{
		persistence:  p,
		notifier:     notifier,
		threshold:    threshold,
		logger:       logger.With("module", "reminder"),
		now:          func() time.Time { return time.Now().UTC() },
		lastReminded: make(map[string]time.Time),
	}
}

// Start schedules the sweep. The schedule uses standard cron syntax.
func (s *Sweeper) Start(schedule string) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(schedule, func() {
		err := s.Sweep(context.Background())
		if err != nil {
			s.logger.Error("reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("reminder sweep scheduled", "schedule", schedule, "threshold", s.threshold)

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}

	<-s.cron.Stop().Done()
}

// Sweep reminds about every PENDING recommendation older than the
// threshold. Delivery failures are logged per recommendation and do not
// stop the sweep. Only one sweep runs at a time.
func (s *Sweeper) Sweep(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := models.RecommendationStatusPending

	recs, err := s.persistence.RecommendationRepository().List(ctx, persistence.RecommendationFilter{
		Status: &pending,
	})
	if err != nil {
		return fmt.Errorf("failed to list pending recommendations: %w", err)
	}

	now := s.now()
	reminded := 0

	for _, rec := range recs {
		pendingFor := now.Sub(rec.CreatedAt)
		if pendingFor < s.threshold {
			continue
		}

		if last, ok := s.lastReminded[rec.ID]; ok && now.Sub(last) < s.threshold {
			continue
		}

		err = s.notifier.DispatchPendingReminder(ctx, rec, pendingFor)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to send reminder",
				"recommendation_id", rec.ID,
				"error", err,
			)

			continue
		}

		s.lastReminded[rec.ID] = now
		reminded++
	}

	if reminded > 0 {
		s.logger.InfoContext(ctx, "reminder sweep complete",
			"pending", len(recs),
			"reminded", reminded,
		)
	}

	return nil
}
