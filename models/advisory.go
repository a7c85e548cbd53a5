// ABOUTME: Data models for advisory request, response, and history
// ABOUTME: Carries the parameter snapshot plus free-text question to the hosted model

package models

import "time"

// AdvisoryRequest is the body of POST /api/v1/advisor. The snapshot travels
// with the question so the commentary always reflects the state the user was
// looking at when they asked.
type AdvisoryRequest struct {
	Question string           `json:"question"`
	Inputs   SimulationInputs `json:"inputs"`
}

// AdvisoryResponse is the non-streaming advisory reply.
type AdvisoryResponse struct {
	Commentary string   `json:"commentary"`
	Model      string   `json:"model"`
	Metadata   Metadata `json:"metadata"`
}

// AdvisoryHistoryEntry is one past advisory exchange for the caller's session.
type AdvisoryHistoryEntry struct {
	Question   string    `json:"question"`
	Commentary string    `json:"commentary"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
}

// AdvisoryHistoryResponse is the payload of GET /api/v1/advisor/history.
type AdvisoryHistoryResponse struct {
	Entries []AdvisoryHistoryEntry `json:"entries"`
}
