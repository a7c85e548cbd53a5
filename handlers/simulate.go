// ABOUTME: HTTP handlers for metric computation and curve sampling
// ABOUTME: Maps input snapshots to derived metrics and chart samples

package handlers

import (
	"net/http"

	"github.com/rsheldon/robotaxi-economics/models"
	"github.com/rsheldon/robotaxi-economics/services"
)

// Simulate computes derived metrics for an input snapshot. The engine
// accepts any numeric record; out-of-range values resolve to sentinel
// metrics rather than validation errors.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req models.SimulateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	metrics := h.econ.ComputeMetrics(req.Inputs)
	resp := models.NewMetricsResponse(metrics, h.econ.BreakEvenPointer(req.Inputs))
	h.writeJSON(w, http.StatusOK, resp)
}

// Curve samples the total-cost-per-mile curve over a swept variable.
func (h *Handler) Curve(w http.ResponseWriter, r *http.Request) {
	var req models.CurveRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	variable := services.SweepVariable(req.SweptVariable)
	if !variable.Valid() {
		h.writeError(w, "Unknown swept variable. Use utilization, deadhead, or vehicles_per_operator.", http.StatusBadRequest)
		return
	}

	rng := services.DefaultSweepRange(variable)
	if req.Range != nil {
		rng = *req.Range
	}

	points := h.econ.SampleCurve(req.Inputs, variable, rng)
	if points == nil {
		h.writeError(w, "Invalid sweep range: step must be positive and max must not precede min.", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, models.CurveResponse{
		SweptVariable: string(variable),
		Range:         rng,
		Points:        points,
	})
}

// Defaults returns the initial input snapshot, slider bounds, and the fixed
// model constants.
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.DefaultsResponse{
		Inputs: models.DefaultInputs(),
		Ranges: models.Ranges(),
		Constants: models.EngineConstants{
			OperatorCostPerHour: services.OperatorCostPerHour,
			VehicleLifetimeDays: services.VehicleLifetimeDays,
			MaxMilesPerDay:      services.MaxMilesPerDay,
		},
	})
}

// Presets returns the named parameter bundles.
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.Presets())
}
