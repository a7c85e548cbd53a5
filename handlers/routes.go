// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Advisor bool             // True for the advisory relay (stricter rate limit)
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Defaults
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/defaults", Handler: h.Defaults},
		{Method: http.MethodGet, Path: "/api/v1/presets", Handler: h.Presets},

		// Simulation
		{Method: http.MethodPost, Path: "/api/v1/simulate", Handler: h.Simulate},
		{Method: http.MethodPost, Path: "/api/v1/curve", Handler: h.Curve},

		// Advisory
		{Method: http.MethodPost, Path: "/api/v1/advisor", Handler: h.Advisory, Advisor: true},
		{Method: http.MethodGet, Path: "/api/v1/advisor/history", Handler: h.AdvisoryHistory},
	}
}
