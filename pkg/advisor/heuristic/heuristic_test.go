package heuristic

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	return NewEngine(slog.Default())
}

func TestRecommendations_HighUtilization(t *testing.T) {
	engine := newTestEngine(t)

	recs, err := engine.Recommendations(context.Background(), []models.AircraftUtilization{
		{TailNumber: "N123AM", UtilizationPct: 92, FlightHours: 300, Trend: models.TrendIncreasing},
	}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, models.MaintenanceTypeACheck, recs[0].Type)
	assert.Equal(t, models.UrgencyCritical, recs[0].Urgency)
	assert.Equal(t, "N123AM", recs[0].TailNumber)
	assert.Equal(t, models.RecommendationStatusPending, recs[0].Status)
	assert.Equal(t, "heuristic", recs[0].GeneratedBy)
	assert.NotEmpty(t, recs[0].Reasoning)
}

func TestRecommendations_FlightHoursAddEngineInspection(t *testing.T) {
	engine := newTestEngine(t)

	recs, err := engine.Recommendations(context.Background(), []models.AircraftUtilization{
		{TailNumber: "N456AM", UtilizationPct: 70, FlightHours: 1150, Trend: models.TrendStable},
	}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, models.MaintenanceTypeBCheck, recs[0].Type)
	assert.Equal(t, models.MaintenanceTypeEngineInspect, recs[1].Type)
	assert.Equal(t, models.UrgencyHigh, recs[1].Urgency)
}

func TestRecommendations_QuietAircraftGetDowntimeWork(t *testing.T) {
	engine := newTestEngine(t)

	recs, err := engine.Recommendations(context.Background(), []models.AircraftUtilization{
		{TailNumber: "N789AM", UtilizationPct: 22, FlightHours: 120, Trend: models.TrendDecreasing},
	}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, models.MaintenanceTypeInteriorRefresh, recs[0].Type)
	assert.Equal(t, models.UrgencyLow, recs[0].Urgency)
}

func TestRecommendations_ConfidenceStaysInBand(t *testing.T) {
	engine := newTestEngine(t)

	fleet := []models.AircraftUtilization{
		{TailNumber: "N1", UtilizationPct: 0, FlightHours: 0, Trend: models.TrendDecreasing},
		{TailNumber: "N2", UtilizationPct: 100, FlightHours: 2000, Trend: models.TrendIncreasing},
	}

	recs, err := engine.Recommendations(context.Background(), fleet, nil)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Confidence, models.ConfidenceFloor)
		assert.LessOrEqual(t, rec.Confidence, models.ConfidenceCeiling)
	}
}

func TestRecommendations_Deterministic(t *testing.T) {
	engine := newTestEngine(t)
	fleet := []models.AircraftUtilization{
		{TailNumber: "N123AM", UtilizationPct: 75, FlightHours: 650, Trend: models.TrendStable},
	}

	first, err := engine.Recommendations(context.Background(), fleet, nil)
	require.NoError(t, err)

	second, err := engine.Recommendations(context.Background(), fleet, nil)
	require.NoError(t, err)

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Urgency, second[i].Urgency)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
		assert.Equal(t, first[i].EstimatedCost, second[i].EstimatedCost)
	}
}

func TestRecommendations_ScheduleContextAppendsReasoning(t *testing.T) {
	engine := newTestEngine(t)

	recs, err := engine.Recommendations(context.Background(), []models.AircraftUtilization{
		{TailNumber: "N123AM", UtilizationPct: 90, FlightHours: 100, Trend: models.TrendStable},
	}, &models.ScheduleContext{Season: "winter", DemandLevel: "high"})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Contains(t, recs[0].Reasoning[len(recs[0].Reasoning)-1], "winter")
}
