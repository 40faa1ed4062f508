// Package heuristic implements the deterministic recommendation engine.
// It scores each aircraft from its utilization summary alone, so the same
// fleet snapshot always yields the same suggestions.
package heuristic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skyops/aeromaint/pkg/models"
)

const engineID = "heuristic"

// Typical shop estimates per maintenance category, USD.
var estimatedCosts = map[models.MaintenanceType]float64{
	models.MaintenanceTypeACheck:          12500,
	models.MaintenanceTypeBCheck:          45000,
	models.MaintenanceTypeEngineInspect:   85000,
	models.MaintenanceTypeAvionicsUpdate:  30000,
	models.MaintenanceTypeLandingGear:     22000,
	models.MaintenanceTypeInteriorRefresh: 18000,
}

// Engine is the rule-based advisor used standalone or as the fallback
// behind a model-backed engine.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates the heuristic engine.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("module", "advisor", "engine", engineID),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return engineID
}

// Recommendations applies the scoring rules to each aircraft in turn.
func (e *Engine) Recommendations(
	ctx context.Context,
	fleet []models.AircraftUtilization,
	schedule *models.ScheduleContext,
) ([]*models.Recommendation, error) {
	recs := make([]*models.Recommendation, 0, len(fleet))

	for _, aircraft := range fleet {
		for _, suggestion := range e.evaluate(aircraft, schedule) {
			recs = append(recs, suggestion)
		}
	}

	e.logger.InfoContext(ctx, "generated recommendations",
		"fleet_size", len(fleet),
		"count", len(recs),
	)

	return recs, nil
}

type suggestion struct {
	maintenanceType models.MaintenanceType
	urgency         models.Urgency
	reasoning       []string
}

// evaluate maps one aircraft's utilization profile to zero or more
// suggestions. Heavy use drives inspections; quiet aircraft get the
// downtime-opportunity items.
func (e *Engine) evaluate(aircraft models.AircraftUtilization, schedule *models.ScheduleContext) []*models.Recommendation {
	risk := aircraft.RiskLevel
	if risk == "" {
		risk = models.DeriveRiskLevel(aircraft.UtilizationPct)
	}

	suggestions := make([]suggestion, 0, 2)

	switch {
	case aircraft.UtilizationPct >= 85:
		urgency := models.UrgencyHigh
		if aircraft.Trend == models.TrendIncreasing {
			urgency = models.UrgencyCritical
		}

		suggestions = append(suggestions, suggestion{
			maintenanceType: models.MaintenanceTypeACheck,
			urgency:         urgency,
			reasoning: []string{
				fmt.Sprintf("utilization at %.0f%% exceeds the 85%% inspection threshold", aircraft.UtilizationPct),
				fmt.Sprintf("usage trend is %s", aircraft.Trend),
			},
		})
	case aircraft.UtilizationPct >= 60:
		urgency := models.UrgencyMedium
		if aircraft.Trend == models.TrendDecreasing {
			urgency = models.UrgencyLow
		}

		suggestions = append(suggestions, suggestion{
			maintenanceType: models.MaintenanceTypeBCheck,
			urgency:         urgency,
			reasoning: []string{
				fmt.Sprintf("utilization at %.0f%% puts the airframe in the mid-cycle band", aircraft.UtilizationPct),
			},
		})
	case aircraft.Trend == models.TrendDecreasing:
		suggestions = append(suggestions, suggestion{
			maintenanceType: models.MaintenanceTypeInteriorRefresh,
			urgency:         models.UrgencyLow,
			reasoning: []string{
				fmt.Sprintf("utilization at %.0f%% and decreasing leaves ground time for cabin work", aircraft.UtilizationPct),
			},
		})
	default:
		suggestions = append(suggestions, suggestion{
			maintenanceType: models.MaintenanceTypeAvionicsUpdate,
			urgency:         models.UrgencyLow,
			reasoning: []string{
				fmt.Sprintf("utilization at %.0f%% allows scheduling a software and database refresh", aircraft.UtilizationPct),
			},
		})
	}

	if aircraft.FlightHours >= 1000 {
		suggestions = append(suggestions, suggestion{
			maintenanceType: models.MaintenanceTypeEngineInspect,
			urgency:         models.UrgencyHigh,
			reasoning: []string{
				fmt.Sprintf("%.0f flight hours accumulated since last recorded overhaul", aircraft.FlightHours),
			},
		})
	} else if aircraft.FlightHours >= 600 {
		suggestions = append(suggestions, suggestion{
			maintenanceType: models.MaintenanceTypeLandingGear,
			urgency:         models.UrgencyMedium,
			reasoning: []string{
				fmt.Sprintf("%.0f flight hours approaching the gear service interval", aircraft.FlightHours),
			},
		})
	}

	now := e.now()
	recs := make([]*models.Recommendation, 0, len(suggestions))

	for _, s := range suggestions {
		reasoning := s.reasoning
		if schedule != nil && schedule.Season != "" {
			reasoning = append(reasoning, fmt.Sprintf("%s season with %s demand factored into scheduling", schedule.Season, demandOrDefault(schedule)))
		}

		recs = append(recs, &models.Recommendation{
			ID:            uuid.New().String(),
			TailNumber:    aircraft.TailNumber,
			Type:          s.maintenanceType,
			Confidence:    confidenceFor(aircraft, risk),
			EstimatedCost: estimatedCosts[s.maintenanceType],
			Urgency:       s.urgency,
			Reasoning:     reasoning,
			Status:        models.RecommendationStatusPending,
			GeneratedBy:   engineID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return recs
}

// confidenceFor derives a score from utilization, trend, and risk, clamped
// into the allowed band.
func confidenceFor(aircraft models.AircraftUtilization, risk models.RiskLevel) float64 {
	score := 55.0 + aircraft.UtilizationPct*0.3

	switch aircraft.Trend {
	case models.TrendIncreasing:
		score += 8
	case models.TrendDecreasing:
		score -= 4
	case models.TrendStable:
	}

	if risk == models.RiskHigh {
		score += 5
	}

	return models.ClampConfidence(score)
}

func demandOrDefault(schedule *models.ScheduleContext) string {
	if schedule.DemandLevel == "" {
		return "normal"
	}

	return schedule.DemandLevel
}
