// ABOUTME: Named parameter bundles for the simulator's preset selector
// ABOUTME: Static map of preset name to a full SimulationInputs snapshot

package models

// DefaultInputs returns the snapshot loaded on first page render.
func DefaultInputs() SimulationInputs {
	return Presets()["baseline"]
}

// Presets returns the named parameter bundles offered by the UI. Every value
// lies within the slider bounds reported by Ranges.
func Presets() map[string]SimulationInputs {
	return map[string]SimulationInputs{
		"baseline": {
			FleetSize:           2000,
			VehiclesPerOperator: 5,
			VehicleCost:         170000,
			OpsHoursPerDay:      20,
			DeadheadPercent:     44,
			VariableCostPerMile: 0.60,
			RevenuePerMile:      2.50,
			UtilizationPercent:  40,
		},
		"lean-ops": {
			FleetSize:           1000,
			VehiclesPerOperator: 20,
			VehicleCost:         120000,
			OpsHoursPerDay:      22,
			DeadheadPercent:     30,
			VariableCostPerMile: 0.45,
			RevenuePerMile:      2.25,
			UtilizationPercent:  65,
		},
		"premium-fleet": {
			FleetSize:           500,
			VehiclesPerOperator: 8,
			VehicleCost:         250000,
			OpsHoursPerDay:      18,
			DeadheadPercent:     25,
			VariableCostPerMile: 0.85,
			RevenuePerMile:      4.50,
			UtilizationPercent:  55,
		},
		"downturn": {
			FleetSize:           5000,
			VehiclesPerOperator: 10,
			VehicleCost:         90000,
			OpsHoursPerDay:      16,
			DeadheadPercent:     60,
			VariableCostPerMile: 0.50,
			RevenuePerMile:      1.40,
			UtilizationPercent:  30,
		},
	}
}
