package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotAuthenticated indicates no valid TMDB session is stored
	ErrNotAuthenticated = errors.New("not authenticated with TMDB")

	// ErrAuthFailed indicates the TMDB authentication handshake failed
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNoSelection indicates countries or services have not been chosen
	ErrNoSelection = errors.New("no countries or services selected")

	// ErrWatchlistUnavailable indicates a watchlist page request failed;
	// unlike per-movie availability failures this aborts the search
	ErrWatchlistUnavailable = errors.New("watchlist could not be retrieved")

	// ErrSearchRunning indicates a search is already in flight; only one
	// outstanding search is allowed per process
	ErrSearchRunning = errors.New("a search is already running")
)
