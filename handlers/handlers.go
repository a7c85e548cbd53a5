// ABOUTME: HTTP handlers for the simulator API endpoints
// ABOUTME: Wires config, cache, advisory client, session service, and result log

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rsheldon/robotaxi-economics/cache"
	"github.com/rsheldon/robotaxi-economics/config"
	"github.com/rsheldon/robotaxi-economics/middleware"
	"github.com/rsheldon/robotaxi-economics/models"
	"github.com/rsheldon/robotaxi-economics/services"
	"github.com/rsheldon/robotaxi-economics/store"
)

// Limit request body size to prevent memory exhaustion from oversized payloads
const maxRequestBodySize = 1 << 20 // 1MB

type Handler struct {
	cfg      *config.Config
	cache    *cache.Cache
	store    *store.Store
	advisor  *services.Advisor
	sessions *services.SessionService
	econ     *services.EconomicsCalculator
}

func NewHandler(cfg *config.Config, c *cache.Cache, st *store.Store, advisor *services.Advisor) *Handler {
	h := &Handler{
		cfg:     cfg,
		cache:   c,
		store:   st,
		advisor: advisor,
		econ:    services.NewEconomicsCalculator(),
	}

	if cfg != nil && c != nil {
		h.sessions = services.NewSessionService(c, time.Duration(cfg.SessionTTL)*time.Second)
	}

	return h
}

// ensureSession returns the caller's advisory session ID, issuing a new
// session and cookie when none exists. Must be called before the response
// body is written.
func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && h.sessions.Valid(cookie.Value) {
		h.sessions.Touch(cookie.Value)
		return cookie.Value
	}

	id := h.sessions.Issue()
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   h.cfg.SessionTTL,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// decodeBody decodes a JSON request body with the standard size limit,
// writing the error response itself when decoding fails.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	// MaxBytesReader only triggers on read, so decode before any state checks
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err.Error() == "http: request body too large" {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
