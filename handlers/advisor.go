// ABOUTME: HTTP handlers for the advisory relay and history endpoints
// ABOUTME: Forwards questions plus the parameter snapshot to the hosted model

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rsheldon/robotaxi-economics/middleware"
	"github.com/rsheldon/robotaxi-economics/models"
	"github.com/rsheldon/robotaxi-economics/services"
	"github.com/rsheldon/robotaxi-economics/store"
)

const historyLimit = 20

// Advisory relays a question about the current snapshot to the hosted model.
// With ?stream=true the commentary is relayed as server-sent events ending
// with a [DONE] sentinel; otherwise a single JSON response is returned, with
// identical repeated questions answered from cache.
func (h *Handler) Advisory(w http.ResponseWriter, r *http.Request) {
	var req models.AdvisoryRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	question, err := services.ValidateQuestion(req.Question)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.advisor == nil || !h.advisor.Enabled() {
		h.writeError(w, "Advisory service not configured. Set ANTHROPIC_API_KEY to enable commentary.", http.StatusServiceUnavailable)
		return
	}

	sessionID := h.ensureSession(w, r)

	// Derived metrics travel with the question so the commentary matches
	// the exact state the user was looking at.
	metrics := models.NewMetricsResponse(
		h.econ.ComputeMetrics(req.Inputs),
		h.econ.BreakEvenPointer(req.Inputs),
	)

	if r.URL.Query().Get("stream") == "true" {
		h.streamAdvisory(w, r, sessionID, req.Inputs, metrics, question)
		return
	}

	cacheKey := "advisor:" + services.RequestKey(req.Inputs, question)
	if cached, found := h.cache.Get(cacheKey); found {
		h.writeJSON(w, http.StatusOK, models.AdvisoryResponse{
			Commentary: cached.(string),
			Model:      h.advisor.Model(),
			Metadata:   models.Metadata{Timestamp: time.Now(), Cached: true},
		})
		return
	}

	start := time.Now()
	commentary, err := h.advisor.Ask(r.Context(), req.Inputs, metrics, question)
	if err != nil {
		slog.Error("Advisory request failed", "error", err)
		h.writeError(w, "Advisory service temporarily unavailable", http.StatusBadGateway)
		return
	}

	h.cache.Set(cacheKey, commentary)
	h.logAdvisory(r, sessionID, question, req.Inputs, metrics, commentary, time.Since(start))

	h.writeJSON(w, http.StatusOK, models.AdvisoryResponse{
		Commentary: commentary,
		Model:      h.advisor.Model(),
		Metadata:   models.Metadata{Timestamp: time.Now(), Cached: false},
	})
}

// streamAdvisory relays commentary chunks as SSE data frames. Each frame is
// a JSON string so chunk newlines cannot break the event framing.
func (h *Handler) streamAdvisory(w http.ResponseWriter, r *http.Request, sessionID string, inputs models.SimulationInputs, metrics models.MetricsResponse, question string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, "Streaming not supported by this connection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	start := time.Now()
	commentary, err := h.advisor.Stream(r.Context(), inputs, metrics, question, func(chunk string) error {
		frame, merr := json.Marshal(chunk)
		if merr != nil {
			return merr
		}
		if _, werr := fmt.Fprintf(w, "data: %s\n\n", frame); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent; log and end the stream. The client sees
		// stream termination without the [DONE] sentinel.
		slog.Error("Advisory stream failed", "error", err, "session_id", sessionID)
		if errors.Is(err, r.Context().Err()) {
			return
		}
	} else {
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}

	if commentary != "" {
		h.logAdvisory(r, sessionID, question, inputs, metrics, commentary, time.Since(start))
	}
}

// logAdvisory appends the exchange to the result log. Failures are logged
// and swallowed; the advisory response never blocks on the log.
func (h *Handler) logAdvisory(r *http.Request, sessionID, question string, inputs models.SimulationInputs, metrics models.MetricsResponse, commentary string, latency time.Duration) {
	if h.store == nil {
		return
	}

	snapshot, err := json.Marshal(inputs)
	if err != nil {
		slog.Warn("Failed to encode advisory snapshot", "error", err)
		return
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		slog.Warn("Failed to encode advisory metrics", "error", err)
		return
	}

	rec := &store.AdvisoryRecord{
		SessionID:  sessionID,
		Question:   question,
		Snapshot:   snapshot,
		Metrics:    metricsJSON,
		Commentary: commentary,
		Model:      h.advisor.Model(),
		LatencyMs:  latency.Milliseconds(),
	}
	if err := h.store.Insert(r.Context(), rec); err != nil {
		slog.Warn("Failed to log advisory exchange", "error", err, "session_id", sessionID)
	}
}

// AdvisoryHistory returns recent advisory exchanges for the caller's session.
func (h *Handler) AdvisoryHistory(w http.ResponseWriter, r *http.Request) {
	resp := models.AdvisoryHistoryResponse{Entries: []models.AdvisoryHistoryEntry{}}

	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || !h.sessions.Valid(cookie.Value) || h.store == nil {
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	records, err := h.store.RecentBySession(r.Context(), cookie.Value, historyLimit)
	if err != nil {
		slog.Error("Failed to read advisory history", "error", err)
		h.writeError(w, "Failed to retrieve advisory history", http.StatusInternalServerError)
		return
	}

	for _, rec := range records {
		resp.Entries = append(resp.Entries, models.AdvisoryHistoryEntry{
			Question:   rec.Question,
			Commentary: rec.Commentary,
			Model:      rec.Model,
			CreatedAt:  rec.CreatedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}
