package domain

import "time"

// sessionMaxAge bounds how long a stored session is trusted before the
// user has to log in again.
const sessionMaxAge = 30 * 24 * time.Hour

// Session is the locally persisted TMDB session plus the user's country
// and service selections.
type Session struct {
	BearerToken string     `json:"bearer_token"`
	SessionID   string     `json:"session_id"`
	AccountID   string     `json:"account_id"`
	Username    string     `json:"username"`
	Countries   []Country  `json:"countries"`
	Services    []Provider `json:"services"`
	SavedAt     int64      `json:"saved_at"` // unix seconds
}

// IsAuthenticated reports whether the session can make account requests.
func (s Session) IsAuthenticated() bool {
	return s.SessionID != "" && s.AccountID != ""
}

// HasSelection reports whether a search can run.
func (s Session) HasSelection() bool {
	return len(s.Countries) > 0 && len(s.Services) > 0
}

// Expired reports whether the stored session is too old to trust.
func (s Session) Expired(now time.Time) bool {
	return now.Sub(time.Unix(s.SavedAt, 0)) > sessionMaxAge
}
