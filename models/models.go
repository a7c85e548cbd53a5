// ABOUTME: Data models for simulation inputs, derived metrics, and API responses
// ABOUTME: JSON-serializable structures matching frontend expectations

package models

import (
	"math"
	"time"
)

// SimulationInputs is the full set of user-adjustable operating parameters.
// The engine treats any numeric record of this shape as valid input; range
// enforcement belongs to the UI controls (see Ranges).
type SimulationInputs struct {
	FleetSize           float64 `json:"fleet_size"`
	VehiclesPerOperator float64 `json:"vehicles_per_operator"`
	VehicleCost         float64 `json:"vehicle_cost"`
	OpsHoursPerDay      float64 `json:"ops_hours_per_day"`
	DeadheadPercent     float64 `json:"deadhead_percent"`
	VariableCostPerMile float64 `json:"variable_cost_per_mile"`
	RevenuePerMile      float64 `json:"revenue_per_mile"`
	UtilizationPercent  float64 `json:"utilization_percent"`
}

// Metrics holds the raw derived values. TotalCostPerMile may be +Inf and
// MarginPerMile -Inf when the input snapshot yields no paid miles; callers
// must test finiteness before formatting.
type Metrics struct {
	TotalCostPerMile float64
	MarginPerMile    float64
}

// Finite reports whether both metrics are representable numbers.
func (m Metrics) Finite() bool {
	return !math.IsInf(m.TotalCostPerMile, 0) && !math.IsInf(m.MarginPerMile, 0) &&
		!math.IsNaN(m.TotalCostPerMile) && !math.IsNaN(m.MarginPerMile)
}

// Fleet economics status labels.
const (
	StatusProfitable = "Profitable"
	StatusLosing     = "Losing"
	StatusUndefined  = "Undefined"
)

// MetricsResponse is the JSON-safe view of derived metrics. Non-finite
// values serialize as null, never as the string "Infinity"; Status carries
// the qualitative result so the UI can show a placeholder.
type MetricsResponse struct {
	TotalCostPerMile            *float64 `json:"total_cost_per_mile"`
	MarginPerMile               *float64 `json:"margin_per_mile"`
	BreakEvenUtilizationPercent *float64 `json:"break_even_utilization_percent"`
	Status                      string   `json:"status"`
}

// NewMetricsResponse converts raw metrics plus an optional break-even
// percentage into the serializable response form.
func NewMetricsResponse(m Metrics, breakEven *float64) MetricsResponse {
	resp := MetricsResponse{
		BreakEvenUtilizationPercent: breakEven,
		Status:                      StatusUndefined,
	}
	if !m.Finite() {
		return resp
	}
	total := m.TotalCostPerMile
	margin := m.MarginPerMile
	resp.TotalCostPerMile = &total
	resp.MarginPerMile = &margin
	if margin >= 0 {
		resp.Status = StatusProfitable
	} else {
		resp.Status = StatusLosing
	}
	return resp
}

// CurvePoint is one sample of the cost curve. IsCurrentPoint marks the
// single sample, if any, matching the live value of the swept variable.
type CurvePoint struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	IsCurrentPoint bool    `json:"is_current_point"`
}

// SweepRange describes the sampled interval for a curve request.
type SweepRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// InputRange describes the slider bounds for one input field, served to the
// UI so control limits live in exactly one place.
type InputRange struct {
	Field string  `json:"field"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Unit  string  `json:"unit"`
}

// Ranges returns the slider bounds for every simulation input.
func Ranges() []InputRange {
	return []InputRange{
		{Field: "fleet_size", Min: 500, Max: 10000, Step: 100, Unit: "vehicles"},
		{Field: "vehicles_per_operator", Min: 2, Max: 60, Step: 1, Unit: "vehicles/operator"},
		{Field: "vehicle_cost", Min: 50000, Max: 300000, Step: 5000, Unit: "currency"},
		{Field: "ops_hours_per_day", Min: 8, Max: 24, Step: 1, Unit: "hours"},
		{Field: "deadhead_percent", Min: 10, Max: 70, Step: 1, Unit: "percent"},
		{Field: "variable_cost_per_mile", Min: 0.20, Max: 2.00, Step: 0.05, Unit: "currency/mile"},
		{Field: "revenue_per_mile", Min: 1.00, Max: 5.00, Step: 0.05, Unit: "currency/mile"},
		{Field: "utilization_percent", Min: 10, Max: 90, Step: 1, Unit: "percent"},
	}
}

// SimulateRequest is the body of POST /api/v1/simulate.
type SimulateRequest struct {
	Inputs SimulationInputs `json:"inputs"`
}

// CurveRequest is the body of POST /api/v1/curve. Range may be omitted, in
// which case the handler substitutes the default sweep for the variable.
type CurveRequest struct {
	Inputs        SimulationInputs `json:"inputs"`
	SweptVariable string           `json:"swept_variable"`
	Range         *SweepRange      `json:"range,omitempty"`
}

// CurveResponse carries the sampled curve back to the chart.
type CurveResponse struct {
	SweptVariable string       `json:"swept_variable"`
	Range         SweepRange   `json:"range"`
	Points        []CurvePoint `json:"points"`
}

// EngineConstants echoes the fixed model parameters so the UI can label
// derived figures without hardcoding them a second time.
type EngineConstants struct {
	OperatorCostPerHour float64 `json:"operator_cost_per_hour"`
	VehicleLifetimeDays float64 `json:"vehicle_lifetime_days"`
	MaxMilesPerDay      float64 `json:"max_miles_per_day"`
}

// DefaultsResponse is the payload of GET /api/v1/defaults.
type DefaultsResponse struct {
	Inputs    SimulationInputs `json:"inputs"`
	Ranges    []InputRange     `json:"ranges"`
	Constants EngineConstants  `json:"constants"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
