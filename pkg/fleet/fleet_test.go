package fleet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/aeromaint/pkg/models"
)

func TestFileSource_Snapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.json")

	require.NoError(t, os.WriteFile(path, []byte(`{
		"fleet": [
			{"tail_number": "N100XX", "model": "Citation M2", "utilization_pct": 88, "flight_hours": 420, "trend": "INCREASING"}
		],
		"schedule": {"season": "winter", "demand_level": "low"}
	}`), 0o644))

	fleet, schedule, err := NewFileSource(path).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, fleet, 1)

	assert.Equal(t, "N100XX", fleet[0].TailNumber)
	// Risk level missing from the file gets derived from utilization.
	assert.Equal(t, models.RiskHigh, fleet[0].RiskLevel)
	require.NotNil(t, schedule)
	assert.Equal(t, "winter", schedule.Season)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, _, err := NewFileSource("/nonexistent/fleet.json").Snapshot(context.Background())
	require.Error(t, err)
}

func TestDemoSource(t *testing.T) {
	fleet, schedule, err := NewDemoSource().Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, fleet, 3)
	require.NotNil(t, schedule)

	tails := make(map[string]bool)
	for _, aircraft := range fleet {
		tails[aircraft.TailNumber] = true
	}

	assert.Len(t, tails, 3, "tail numbers must be unique")
}
