package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"streamlist/internal/domain"
	"streamlist/internal/tui/styles"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// View renders the whole application.
func (m Model) View() string {
	if m.Width == 0 {
		return "loading..."
	}

	var body string
	switch m.State {
	case StateSearching:
		body = m.renderSearching()
	case StateHelp:
		body = m.renderHelp()
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.Results.View(), m.Detail.View())
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)

	if m.FilterPanel.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.FilterPanel.View())
	}
	return view
}

func (m Model) renderHeader() string {
	title := styles.AccentStyle.Bold(true).Render("streamlist")
	user := ""
	if m.Session.Username != "" {
		user = styles.DimStyle.Render("  " + m.Session.Username)
	}

	right := ""
	if m.State == StateBrowsing {
		right = styles.DimStyle.Render(fmt.Sprintf("%d/%d movies · sort: %s",
			len(m.Visible), len(m.All), m.SortKey))
	}

	left := title + user
	pad := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func (m Model) renderSearching() string {
	p := m.Progress

	var b strings.Builder
	b.WriteString(RenderSpinner(m.SpinnerFrame))
	b.WriteString(" ")

	if p.Total == 0 {
		b.WriteString(styles.SubtitleStyle.Render("Fetching your watchlist..."))
	} else {
		b.WriteString(styles.SubtitleStyle.Render(
			fmt.Sprintf("Checking availability · %d/%d checked · %d found", p.Processed, p.Total, p.Found)))
		b.WriteString("\n\n")
		b.WriteString(renderBar(p.Processed, p.Total, m.Width*2/3))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("c cancel · q quit"))

	return lipgloss.Place(m.Width, m.Height-chromeHeight,
		lipgloss.Center, lipgloss.Center,
		b.String())
}

// renderBar draws a simple progress bar.
func renderBar(done, total, width int) string {
	if width < 10 {
		width = 10
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return styles.AccentStyle.Render(strings.Repeat("█", filled)) +
		styles.DimStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"j/↓, k/↑", "move selection"},
		{"g / G", "jump to top / bottom"},
		{"/", "fuzzy find by title"},
		{"f", "open filters (year, rating, genres, services)"},
		{"s", "cycle sort: relevance, year, rating, popularity, title"},
		{"esc", "clear title filter"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keyboard"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			styles.AccentStyle.Render(fmt.Sprintf("%-10s", row[0])),
			styles.SubtitleStyle.Render(row[1])))
	}

	return lipgloss.Place(m.Width, m.Height-chromeHeight,
		lipgloss.Center, lipgloss.Center,
		b.String())
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.State == StateSearching:
		left = styles.DimStyle.Render("searching...")
	case m.FinalStatus == domain.SearchCancelled:
		left = styles.DimStyle.Render("partial results")
	default:
		left = styles.DimStyle.Render("? help · q quit")
	}
	return left
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}
