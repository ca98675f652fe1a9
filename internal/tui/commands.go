package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"streamlist/internal/domain"
	"streamlist/internal/service"
)

// RunSearchCmd starts the watchlist search in a goroutine and resolves to
// SearchDoneMsg when the pipeline finishes. Incremental updates arrive on
// the progress channel.
func RunSearchCmd(ctx context.Context, search *service.SearchService, session domain.Session, progress chan<- domain.SearchProgress) tea.Cmd {
	return func() tea.Msg {
		movies, status, err := search.Search(ctx, session, NewChannelObserver(progress))
		return SearchDoneMsg{Movies: movies, Status: status, Err: err}
	}
}

// WaitForProgressCmd blocks on the next progress snapshot. The model
// re-issues it after every ProgressMsg.
func WaitForProgressCmd(progress <-chan domain.SearchProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-progress
		if !ok {
			return nil
		}
		return ProgressMsg{Progress: p}
	}
}

// TickCmd returns a command that ticks after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
