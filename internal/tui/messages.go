package tui

import "streamlist/internal/domain"

// Message types for the TUI

// ProgressMsg carries one progress snapshot from the running search.
type ProgressMsg struct {
	Progress domain.SearchProgress
}

// SearchDoneMsg signals that the search goroutine returned.
type SearchDoneMsg struct {
	Movies []domain.Movie
	Status domain.SearchStatus
	Err    error
}

// TickMsg drives the spinner animation.
type TickMsg struct{}

// ClearStatusMsg clears the transient status bar message.
type ClearStatusMsg struct{}
