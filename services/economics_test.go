package services

import (
	"math"
	"testing"

	"github.com/rsheldon/robotaxi-economics/models"
)

// scenarioInputs is the worked example from the capacity docs:
// fixedDailyCost = 170000/1825 + 40*20/5 = 93.15 + 160 = 253.15
// paidMilesPerDay = 300 * 0.40 * 0.56 = 67.2
// totalCostPerMile = 253.15/67.2 + 0.60 ≈ 4.37, margin ≈ -1.87
func scenarioInputs() models.SimulationInputs {
	return models.SimulationInputs{
		FleetSize:           2000,
		VehiclesPerOperator: 5,
		VehicleCost:         170000,
		OpsHoursPerDay:      20,
		DeadheadPercent:     44,
		VariableCostPerMile: 0.60,
		RevenuePerMile:      2.50,
		UtilizationPercent:  40,
	}
}

func TestComputeMetricsWorkedExample(t *testing.T) {
	calc := NewEconomicsCalculator()
	m := calc.ComputeMetrics(scenarioInputs())

	if m.TotalCostPerMile < 4.36 || m.TotalCostPerMile > 4.38 {
		t.Errorf("Expected TotalCostPerMile ~4.37, got %.4f", m.TotalCostPerMile)
	}
	if m.MarginPerMile > -1.86 || m.MarginPerMile < -1.88 {
		t.Errorf("Expected MarginPerMile ~-1.87, got %.4f", m.MarginPerMile)
	}

	resp := models.NewMetricsResponse(m, nil)
	if resp.Status != models.StatusLosing {
		t.Errorf("Expected status %q, got %q", models.StatusLosing, resp.Status)
	}
}

func TestComputeMetricsZeroUtilization(t *testing.T) {
	in := scenarioInputs()
	in.UtilizationPercent = 0

	m := NewEconomicsCalculator().ComputeMetrics(in)

	if !math.IsInf(m.TotalCostPerMile, 1) {
		t.Errorf("Expected TotalCostPerMile +Inf, got %v", m.TotalCostPerMile)
	}
	if !math.IsInf(m.MarginPerMile, -1) {
		t.Errorf("Expected MarginPerMile -Inf, got %v", m.MarginPerMile)
	}
	if m.Finite() {
		t.Error("Expected Finite() to be false for sentinel metrics")
	}
}

func TestComputeMetricsDeadheadClamp(t *testing.T) {
	in := scenarioInputs()
	in.DeadheadPercent = 99 // beyond the slider bound; clamped to 95 internally

	m := NewEconomicsCalculator().ComputeMetrics(in)

	if math.IsInf(m.TotalCostPerMile, 0) || math.IsNaN(m.TotalCostPerMile) {
		t.Fatalf("Expected finite TotalCostPerMile with clamped deadhead, got %v", m.TotalCostPerMile)
	}

	// Clamped 99 must compute identically to 95.
	in95 := in
	in95.DeadheadPercent = 95
	m95 := NewEconomicsCalculator().ComputeMetrics(in95)
	if m.TotalCostPerMile != m95.TotalCostPerMile {
		t.Errorf("Expected deadhead 99 to equal deadhead 95: %v vs %v", m.TotalCostPerMile, m95.TotalCostPerMile)
	}
}

func TestComputeMetricsFloorAtVariableCost(t *testing.T) {
	calc := NewEconomicsCalculator()
	cases := []models.SimulationInputs{
		scenarioInputs(),
		{FleetSize: 500, VehiclesPerOperator: 60, VehicleCost: 50000, OpsHoursPerDay: 8,
			DeadheadPercent: 10, VariableCostPerMile: 0.20, RevenuePerMile: 5.00, UtilizationPercent: 90},
		{FleetSize: 10000, VehiclesPerOperator: 2, VehicleCost: 300000, OpsHoursPerDay: 24,
			DeadheadPercent: 70, VariableCostPerMile: 2.00, RevenuePerMile: 1.00, UtilizationPercent: 10},
	}

	for i, in := range cases {
		m := calc.ComputeMetrics(in)
		if m.TotalCostPerMile < in.VariableCostPerMile {
			t.Errorf("Case %d: TotalCostPerMile %.4f below variable cost %.4f", i, m.TotalCostPerMile, in.VariableCostPerMile)
		}
	}
}

func TestComputeMetricsPure(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	first := calc.ComputeMetrics(in)
	second := calc.ComputeMetrics(in)

	if first != second {
		t.Errorf("Expected identical results for identical inputs: %+v vs %+v", first, second)
	}
}

func TestTotalCostMonotonicInUtilization(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	prev := math.Inf(1)
	for util := 10.0; util <= 90.0; util += 5 {
		in.UtilizationPercent = util
		m := calc.ComputeMetrics(in)
		if m.TotalCostPerMile >= prev {
			t.Errorf("Utilization %.0f: expected cost < %.4f, got %.4f", util, prev, m.TotalCostPerMile)
		}
		prev = m.TotalCostPerMile
	}
}

func TestTotalCostMonotonicInDeadhead(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	prev := 0.0
	for dd := 10.0; dd <= 90.0; dd += 5 {
		in.DeadheadPercent = dd
		m := calc.ComputeMetrics(in)
		if m.TotalCostPerMile <= prev {
			t.Errorf("Deadhead %.0f: expected cost > %.4f, got %.4f", dd, prev, m.TotalCostPerMile)
		}
		prev = m.TotalCostPerMile
	}
}

func TestBreakEvenUnreachableWhenSpreadNonPositive(t *testing.T) {
	calc := NewEconomicsCalculator()

	in := scenarioInputs()
	in.VariableCostPerMile = 2.50
	in.RevenuePerMile = 2.50
	if _, ok := calc.BreakEvenUtilization(in); ok {
		t.Error("Expected no break-even when revenue equals variable cost")
	}

	in.VariableCostPerMile = 3.00
	if _, ok := calc.BreakEvenUtilization(in); ok {
		t.Error("Expected no break-even when variable cost exceeds revenue")
	}
}

func TestBreakEvenOutsideRepresentableRange(t *testing.T) {
	// Expensive vehicle, one operator per two vehicles, thin spread: the
	// solve lands far above 100% utilization.
	in := models.SimulationInputs{
		FleetSize:           500,
		VehiclesPerOperator: 2,
		VehicleCost:         300000,
		OpsHoursPerDay:      24,
		DeadheadPercent:     70,
		VariableCostPerMile: 2.00,
		RevenuePerMile:      2.10,
		UtilizationPercent:  50,
	}

	if p, ok := NewEconomicsCalculator().BreakEvenUtilization(in); ok {
		t.Errorf("Expected break-even unreachable, got %.2f%%", p)
	}
}

func TestBreakEvenRoundTrip(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	p, ok := calc.BreakEvenUtilization(in)
	if !ok {
		t.Fatal("Expected a reachable break-even for the worked example")
	}
	if p < 0 || p > 100 {
		t.Fatalf("Break-even %.2f%% outside [0,100]", p)
	}

	in.UtilizationPercent = p
	m := calc.ComputeMetrics(in)
	if math.Abs(m.MarginPerMile) > 1e-9 {
		t.Errorf("Expected margin ~0 at break-even utilization %.4f%%, got %.12f", p, m.MarginPerMile)
	}
}

func TestSampleCurveOrderingAndFlag(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs() // utilization 40, exactly on the default grid

	points := calc.SampleCurve(in, SweepUtilization, models.SweepRange{Min: 10, Max: 90, Step: 2})
	if len(points) != 41 {
		t.Fatalf("Expected 41 points, got %d", len(points))
	}

	flags := 0
	for i, p := range points {
		if i > 0 && p.X <= points[i-1].X {
			t.Errorf("Point %d: x %.4f not strictly increasing after %.4f", i, p.X, points[i-1].X)
		}
		if p.Y > DisplayCostCeiling {
			t.Errorf("Point %d: y %.4f above display ceiling", i, p.Y)
		}
		if p.IsCurrentPoint {
			flags++
			if p.X != 40 {
				t.Errorf("Expected current point at x=40, got %.4f", p.X)
			}
		}
	}
	if flags != 1 {
		t.Errorf("Expected exactly one current point, got %d", flags)
	}

	// Final grid point must be emitted.
	if last := points[len(points)-1].X; last < 90 {
		t.Errorf("Expected final point at 90, got %.4f", last)
	}
}

func TestSampleCurveOffGridFlagsAtMostOne(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()
	in.UtilizationPercent = 41 // halfway between the 40 and 42 grid points

	points := calc.SampleCurve(in, SweepUtilization, models.SweepRange{Min: 10, Max: 90, Step: 2})

	flags := 0
	for _, p := range points {
		if p.IsCurrentPoint {
			flags++
		}
	}
	if flags > 1 {
		t.Errorf("Expected at most one current point, got %d", flags)
	}
}

func TestSampleCurveLiveValueOutsideRange(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()
	in.UtilizationPercent = 5 // below the sampled interval

	points := calc.SampleCurve(in, SweepUtilization, models.SweepRange{Min: 10, Max: 90, Step: 2})
	for _, p := range points {
		if p.IsCurrentPoint {
			t.Errorf("Expected no current point with live value outside range, flagged x=%.4f", p.X)
		}
	}
}

func TestSampleCurveCapsInfiniteSamples(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	// Sweeping utilization down to 0 produces the +Inf sentinel at x=0,
	// which must land on the display ceiling rather than leak into JSON.
	points := calc.SampleCurve(in, SweepUtilization, models.SweepRange{Min: 0, Max: 20, Step: 5})
	if len(points) == 0 {
		t.Fatal("Expected samples")
	}
	if points[0].X != 0 {
		t.Fatalf("Expected first sample at 0, got %.4f", points[0].X)
	}
	if points[0].Y != DisplayCostCeiling {
		t.Errorf("Expected capped y %.1f at zero utilization, got %.4f", DisplayCostCeiling, points[0].Y)
	}
}

func TestSampleCurveDeterministic(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()
	rng := models.SweepRange{Min: 10, Max: 70, Step: 2}

	first := calc.SampleCurve(in, SweepDeadhead, rng)
	second := calc.SampleCurve(in, SweepDeadhead, rng)

	if len(first) != len(second) {
		t.Fatalf("Expected identical lengths, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Point %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSampleCurveRejectsBadRequests(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	if pts := calc.SampleCurve(in, SweepVariable("fleet_size"), models.SweepRange{Min: 0, Max: 10, Step: 1}); pts != nil {
		t.Error("Expected nil for unknown swept variable")
	}
	if pts := calc.SampleCurve(in, SweepUtilization, models.SweepRange{Min: 10, Max: 90, Step: 0}); pts != nil {
		t.Error("Expected nil for zero step")
	}
	if pts := calc.SampleCurve(in, SweepUtilization, models.SweepRange{Min: 90, Max: 10, Step: 2}); pts != nil {
		t.Error("Expected nil for inverted range")
	}
}

func TestSampleCurveVehiclesPerOperatorSweep(t *testing.T) {
	calc := NewEconomicsCalculator()
	in := scenarioInputs()

	points := calc.SampleCurve(in, SweepVehiclesPerOperator, DefaultSweepRange(SweepVehiclesPerOperator))
	if len(points) == 0 {
		t.Fatal("Expected samples")
	}

	// Spreading one operator across more vehicles reduces per-mile cost.
	for i := 1; i < len(points); i++ {
		if points[i].Y >= points[i-1].Y {
			t.Errorf("Point %d: expected cost to fall as vehicles per operator rises (%.4f -> %.4f)",
				i, points[i-1].Y, points[i].Y)
		}
	}
}
