// Package fleet supplies the utilization snapshot consumed by the
// recommendation generator. In production this would come from the
// operator's scheduling system; here a JSON file or the built-in demo
// fleet stands in.
package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/skyops/aeromaint/pkg/models"
)

// Source provides the current fleet snapshot and schedule context.
type Source interface {
	Snapshot(ctx context.Context) ([]models.AircraftUtilization, *models.ScheduleContext, error)
}

// snapshotFile is the on-disk shape consumed by FileSource.
type snapshotFile struct {
	Fleet    []models.AircraftUtilization `json:"fleet"`
	Schedule *models.ScheduleContext      `json:"schedule,omitempty"`
}

// FileSource reads the snapshot from a JSON file on every call, so the
// file can be edited without restarting the service.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed snapshot source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Snapshot loads and decodes the snapshot file.
func (s *FileSource) Snapshot(_ context.Context) ([]models.AircraftUtilization, *models.ScheduleContext, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read fleet snapshot: %w", err)
	}

	var file snapshotFile

	err = json.Unmarshal(data, &file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode fleet snapshot: %w", err)
	}

	for i := range file.Fleet {
		if file.Fleet[i].RiskLevel == "" {
			file.Fleet[i].RiskLevel = models.DeriveRiskLevel(file.Fleet[i].UtilizationPct)
		}
	}

	return file.Fleet, file.Schedule, nil
}

// StaticSource returns a fixed snapshot, used in demo mode and tests.
type StaticSource struct {
	fleet    []models.AircraftUtilization
	schedule *models.ScheduleContext
}

// NewStaticSource wraps a fixed snapshot.
func NewStaticSource(fleet []models.AircraftUtilization, schedule *models.ScheduleContext) *StaticSource {
	return &StaticSource{fleet: fleet, schedule: schedule}
}

// NewDemoSource returns the built-in charter fleet used when no snapshot
// file is configured.
func NewDemoSource() *StaticSource {
	return NewStaticSource([]models.AircraftUtilization{
		{TailNumber: "N123AM", Model: "Citation XLS+", UtilizationPct: 91, FlightHours: 1180, Trend: models.TrendIncreasing, RiskLevel: models.RiskHigh},
		{TailNumber: "N456AM", Model: "Phenom 300E", UtilizationPct: 72, FlightHours: 640, Trend: models.TrendStable, RiskLevel: models.RiskMedium},
		{TailNumber: "N789AM", Model: "King Air 350i", UtilizationPct: 24, FlightHours: 150, Trend: models.TrendDecreasing, RiskLevel: models.RiskLow},
	}, &models.ScheduleContext{Season: "summer", DemandLevel: "high"})
}

// Snapshot returns the wrapped snapshot.
func (s *StaticSource) Snapshot(_ context.Context) ([]models.AircraftUtilization, *models.ScheduleContext, error) {
	return s.fleet, s.schedule, nil
}
