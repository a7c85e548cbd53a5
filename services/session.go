// ABOUTME: Anonymous session management for the advisory surface
// ABOUTME: Issues opaque session IDs used for rate-limit keys and history grouping

package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/rsheldon/robotaxi-economics/cache"
)

// SessionService tracks anonymous advisory sessions in the cache. Sessions
// carry no identity; they only group a browser's advisory history and give
// the rate limiter a stable key across IP changes.
type SessionService struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionService creates a session service with the given session lifetime.
func NewSessionService(c *cache.Cache, ttl time.Duration) *SessionService {
	return &SessionService{cache: c, ttl: ttl}
}

// Issue creates a new session and returns its ID.
func (s *SessionService) Issue() string {
	id := uuid.NewString()
	s.cache.SetWithTTL(sessionKey(id), time.Now(), s.ttl)
	return id
}

// Valid reports whether the ID belongs to a known live session.
func (s *SessionService) Valid(id string) bool {
	if err := ValidateSessionID(id); err != nil {
		return false
	}
	_, ok := s.cache.Get(sessionKey(id))
	return ok
}

// Touch extends a session's lifetime on activity.
func (s *SessionService) Touch(id string) {
	if s.Valid(id) {
		s.cache.SetWithTTL(sessionKey(id), time.Now(), s.ttl)
	}
}

func sessionKey(id string) string {
	return "session:" + id
}
