package service

import (
	"log/slog"
	"time"

	"streamlist/internal/domain"
	"streamlist/internal/store"
)

// SessionService persists the TMDB session and the user's selections.
type SessionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(cache *store.Store, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{store: cache, logger: logger}
}

// Load returns the stored session. Sessions older than the trust window
// are discarded and reported as absent.
func (s *SessionService) Load() (domain.Session, bool) {
	session, ok := s.store.Session()
	if !ok {
		return domain.Session{}, false
	}
	if session.Expired(time.Now()) {
		s.logger.Info("stored session expired, clearing")
		s.store.ClearSession()
		return domain.Session{}, false
	}
	return session, true
}

// Save stamps and persists the session.
func (s *SessionService) Save(session domain.Session) {
	session.SavedAt = time.Now().Unix()
	s.store.SaveSession(session)
}

// Logout clears the session and every cache tier.
func (s *SessionService) Logout() {
	s.store.ClearSession()
	s.store.InvalidateAll()
	s.logger.Info("logged out")
}
