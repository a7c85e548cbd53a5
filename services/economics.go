// ABOUTME: Unit-economics calculator for robotaxi fleet cost and margin analysis
// ABOUTME: Pure closed-form functions from an input snapshot to derived metrics

package services

import (
	"math"

	"github.com/rsheldon/robotaxi-economics/models"
)

// Process-wide model constants, not user-configurable.
const (
	// OperatorCostPerHour is the fully-loaded hourly cost of a remote operator.
	OperatorCostPerHour = 40.0
	// VehicleLifetimeDays amortizes the vehicle purchase over five years.
	VehicleLifetimeDays = 1825.0
	// MaxMilesPerDay is the theoretical ceiling at 100% utilization.
	MaxMilesPerDay = 300.0
	// maxDeadheadFraction caps deadhead before use so the paid-mile
	// denominator can never reach zero from rounding, whatever the caller
	// supplied. The UI slider stops at 70% but direct API callers do not.
	maxDeadheadFraction = 0.95
	// DisplayCostCeiling caps curve samples for charting.
	DisplayCostCeiling = 10.0
)

// SweepVariable identifies which input a curve request varies.
type SweepVariable string

const (
	SweepUtilization         SweepVariable = "utilization"
	SweepDeadhead            SweepVariable = "deadhead"
	SweepVehiclesPerOperator SweepVariable = "vehicles_per_operator"
)

// Valid reports whether v names a sweepable input.
func (v SweepVariable) Valid() bool {
	switch v {
	case SweepUtilization, SweepDeadhead, SweepVehiclesPerOperator:
		return true
	}
	return false
}

// DefaultSweepRange returns the chart's default sampling interval for a
// swept variable, matching the slider bounds for that input.
func DefaultSweepRange(v SweepVariable) models.SweepRange {
	switch v {
	case SweepDeadhead:
		return models.SweepRange{Min: 10, Max: 70, Step: 2}
	case SweepVehiclesPerOperator:
		return models.SweepRange{Min: 2, Max: 60, Step: 2}
	default:
		return models.SweepRange{Min: 10, Max: 90, Step: 2}
	}
}

// EconomicsCalculator computes cost, margin, and break-even metrics. It holds
// no state; every method is a total function of its input snapshot.
type EconomicsCalculator struct{}

// NewEconomicsCalculator creates a new calculator
func NewEconomicsCalculator() *EconomicsCalculator {
	return &EconomicsCalculator{}
}

// fixedDailyCost is the per-vehicle daily cost independent of miles driven:
// amortized vehicle cost plus the vehicle's share of a remote operator.
func fixedDailyCost(in models.SimulationInputs) float64 {
	vehicleCostPerDay := in.VehicleCost / VehicleLifetimeDays
	opsCostPerDay := OperatorCostPerHour * in.OpsHoursPerDay / in.VehiclesPerOperator
	return vehicleCostPerDay + opsCostPerDay
}

// deadheadFraction converts the percentage to a decimal, capped at the
// internal maximum.
func deadheadFraction(deadheadPercent float64) float64 {
	return math.Min(deadheadPercent/100, maxDeadheadFraction)
}

// paidMilesPerDay is the revenue-earning mileage implied by the snapshot.
func paidMilesPerDay(in models.SimulationInputs) float64 {
	milesPerDay := MaxMilesPerDay * (in.UtilizationPercent / 100)
	return milesPerDay * (1 - deadheadFraction(in.DeadheadPercent))
}

// ComputeMetrics maps an input snapshot to total cost and margin per paid
// mile. When the snapshot yields no paid miles the metrics are the +Inf/-Inf
// sentinels; no error path exists and nothing panics.
func (c *EconomicsCalculator) ComputeMetrics(in models.SimulationInputs) models.Metrics {
	paid := paidMilesPerDay(in)
	if paid <= 0 {
		return models.Metrics{
			TotalCostPerMile: math.Inf(1),
			MarginPerMile:    math.Inf(-1),
		}
	}

	totalCostPerMile := fixedDailyCost(in)/paid + in.VariableCostPerMile
	return models.Metrics{
		TotalCostPerMile: totalCostPerMile,
		MarginPerMile:    in.RevenuePerMile - totalCostPerMile,
	}
}

// BreakEvenUtilization solves margin == 0 for utilization with all other
// inputs held fixed, returning the percentage and true. It returns false
// when revenue never covers variable cost, when the paid-miles ratio is
// non-positive, or when the solution falls outside [0, 100].
func (c *EconomicsCalculator) BreakEvenUtilization(in models.SimulationInputs) (float64, bool) {
	spread := in.RevenuePerMile - in.VariableCostPerMile
	if spread <= 0 {
		return 0, false
	}

	paidRatio := 1 - deadheadFraction(in.DeadheadPercent)
	if paidRatio <= 0 {
		return 0, false
	}

	utilization := fixedDailyCost(in) / (MaxMilesPerDay * paidRatio * spread)
	percent := utilization * 100
	if percent < 0 || percent > 100 {
		return 0, false
	}
	return percent, true
}

// SampleCurve sweeps one input across rng and returns the total-cost-per-mile
// curve, one point per step from Min to Max inclusive. Sampled x values are
// computed as Min + i*Step rather than accumulated, so the sequence is
// deterministic and the final grid point is emitted even when repeated
// addition would drift past Max. Y is capped at DisplayCostCeiling for
// charting (this also maps the +Inf sentinel onto the ceiling). At most one
// point is flagged as the current configuration: the grid point nearest the
// live value, and only when it lies within half a step of it.
func (c *EconomicsCalculator) SampleCurve(in models.SimulationInputs, v SweepVariable, rng models.SweepRange) []models.CurvePoint {
	if !v.Valid() || rng.Step <= 0 || rng.Max < rng.Min {
		return nil
	}

	live := sweptValue(in, v)
	flagIdx := -1
	if i := int(math.Round((live - rng.Min) / rng.Step)); i >= 0 {
		x := rng.Min + float64(i)*rng.Step
		if math.Abs(x-live) <= rng.Step/2 {
			flagIdx = i
		}
	}

	tolerance := rng.Step / 2
	var points []models.CurvePoint
	for i := 0; ; i++ {
		x := rng.Min + float64(i)*rng.Step
		if x > rng.Max+tolerance {
			break
		}

		sample := in
		setSweptValue(&sample, v, x)
		m := c.ComputeMetrics(sample)

		points = append(points, models.CurvePoint{
			X:              x,
			Y:              math.Min(m.TotalCostPerMile, DisplayCostCeiling),
			IsCurrentPoint: i == flagIdx,
		})
	}
	return points
}

func sweptValue(in models.SimulationInputs, v SweepVariable) float64 {
	switch v {
	case SweepDeadhead:
		return in.DeadheadPercent
	case SweepVehiclesPerOperator:
		return in.VehiclesPerOperator
	default:
		return in.UtilizationPercent
	}
}

func setSweptValue(in *models.SimulationInputs, v SweepVariable, x float64) {
	switch v {
	case SweepDeadhead:
		in.DeadheadPercent = x
	case SweepVehiclesPerOperator:
		in.VehiclesPerOperator = x
	default:
		in.UtilizationPercent = x
	}
}

// BreakEvenPointer adapts BreakEvenUtilization's (value, ok) form to the
// nullable pointer the response models use.
func (c *EconomicsCalculator) BreakEvenPointer(in models.SimulationInputs) *float64 {
	p, ok := c.BreakEvenUtilization(in)
	if !ok {
		return nil
	}
	return &p
}
