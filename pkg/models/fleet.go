package models

// UtilizationTrend describes the direction of an aircraft's recent usage.
type UtilizationTrend string

const (
	TrendIncreasing UtilizationTrend = "INCREASING"
	TrendStable     UtilizationTrend = "STABLE"
	TrendDecreasing UtilizationTrend = "DECREASING"
)

// RiskLevel classifies how overdue-prone an aircraft currently is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// AircraftUtilization is the per-aircraft input consumed by the
// recommendation generator.
type AircraftUtilization struct {
	TailNumber     string           `json:"tail_number"     validate:"required"`
	Model          string           `json:"model"`
	UtilizationPct float64          `json:"utilization_pct" validate:"min=0,max=100"`
	FlightHours    float64          `json:"flight_hours"    validate:"min=0"`
	Trend          UtilizationTrend `json:"trend"`
	RiskLevel      RiskLevel        `json:"risk_level"`
}

// ScheduleContext is optional demand/seasonal context passed to the generator.
type ScheduleContext struct {
	Season      string `json:"season,omitempty"`
	DemandLevel string `json:"demand_level,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// DeriveRiskLevel maps utilization percentage to a risk classification.
func DeriveRiskLevel(utilizationPct float64) RiskLevel {
	switch {
	case utilizationPct >= 85:
		return RiskHigh
	case utilizationPct >= 60:
		return RiskMedium
	default:
		return RiskLow
	}
}
