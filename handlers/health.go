// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports advisor and result-log availability

package handlers

import "net/http"

// Health returns API health status including advisor and log availability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":       "ok",
		"advisor":      "not_configured",
		"advisory_log": "not_configured",
	}

	if h.advisor != nil && h.advisor.Enabled() {
		resp["advisor"] = "ok"
	}
	if h.store != nil {
		resp["advisory_log"] = "ok"
	}

	h.writeJSON(w, http.StatusOK, resp)
}
