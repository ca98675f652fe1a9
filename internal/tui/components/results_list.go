package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"streamlist/internal/domain"
	"streamlist/internal/tui/styles"
)

// Layout constants shared by bordered components
const (
	BorderWidth  = 2
	BorderHeight = 2

	scrollIndicatorLines = 2
)

// ResultsList is the scrollable column of movies with availability. It
// supports an incremental fuzzy filter on the title.
type ResultsList struct {
	movies []domain.Movie

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool

	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into movies, nil when no filter applies
}

// NewResultsList creates an empty results column.
func NewResultsList() *ResultsList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ResultsList{filterInput: ti, focused: true}
}

// SetMovies replaces the list contents, clamping the cursor and re-running
// any active title filter.
func (l *ResultsList) SetMovies(movies []domain.Movie) {
	l.movies = movies
	l.applyFilter()
	if l.cursor >= l.visibleCount() {
		l.cursor = l.visibleCount() - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

// SetSize updates the component dimensions.
func (l *ResultsList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.maxVisible = height - BorderHeight - scrollIndicatorLines
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
	l.clampOffset()
}

// SetFocused toggles the border highlight.
func (l *ResultsList) SetFocused(focused bool) { l.focused = focused }

// Selected returns the movie under the cursor.
func (l *ResultsList) Selected() (domain.Movie, bool) {
	idx := l.selectedIndex()
	if idx < 0 {
		return domain.Movie{}, false
	}
	return l.movies[idx], true
}

// FilterActive reports whether the title filter input is open.
func (l *ResultsList) FilterActive() bool { return l.filterActive }

// OpenFilter activates the title filter input.
func (l *ResultsList) OpenFilter() tea.Cmd {
	l.filterActive = true
	l.SetSize(l.width, l.height)
	return l.filterInput.Focus()
}

// CommitFilter blurs the input but keeps the current match set.
func (l *ResultsList) CommitFilter() {
	l.filterInput.Blur()
}

// CloseFilter deactivates and clears the title filter.
func (l *ResultsList) CloseFilter() {
	l.filterActive = false
	l.filterInput.Blur()
	l.filterInput.SetValue("")
	l.filteredIdx = nil
	l.cursor = 0
	l.offset = 0
	l.SetSize(l.width, l.height)
}

// UpdateFilter feeds a key event to the filter input.
func (l *ResultsList) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.applyFilter()
	l.cursor = 0
	l.offset = 0
	return cmd
}

func (l *ResultsList) applyFilter() {
	query := strings.TrimSpace(l.filterInput.Value())
	if !l.filterActive || query == "" {
		l.filteredIdx = nil
		return
	}

	titles := make([]string, len(l.movies))
	for i, m := range l.movies {
		titles[i] = m.Title
	}
	matches := fuzzy.Find(query, titles)

	l.filteredIdx = make([]int, len(matches))
	for i, m := range matches {
		l.filteredIdx[i] = m.Index
	}
}

func (l *ResultsList) visibleCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.movies)
}

func (l *ResultsList) selectedIndex() int {
	if l.visibleCount() == 0 {
		return -1
	}
	if l.filteredIdx != nil {
		return l.filteredIdx[l.cursor]
	}
	return l.cursor
}

// Cursor movement

func (l *ResultsList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clampOffset()
}

func (l *ResultsList) MoveDown() {
	if l.cursor < l.visibleCount()-1 {
		l.cursor++
	}
	l.clampOffset()
}

func (l *ResultsList) PageUp() {
	l.cursor -= l.maxVisible
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

func (l *ResultsList) PageDown() {
	l.cursor += l.maxVisible
	if l.cursor >= l.visibleCount() {
		l.cursor = l.visibleCount() - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

func (l *ResultsList) MoveToTop() {
	l.cursor = 0
	l.clampOffset()
}

func (l *ResultsList) MoveToBottom() {
	l.cursor = l.visibleCount() - 1
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

func (l *ResultsList) clampOffset() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.maxVisible > 0 && l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the column.
func (l *ResultsList) View() string {
	innerWidth := l.width - BorderWidth
	if innerWidth < 10 {
		innerWidth = 10
	}

	var b strings.Builder

	if l.filterActive {
		b.WriteString(l.filterInput.View())
		b.WriteString("\n")
	}

	count := l.visibleCount()
	if count == 0 {
		b.WriteString(styles.DimStyle.Render("no movies"))
	}

	if l.offset > 0 {
		b.WriteString(styles.DimStyle.Render("↑ more"))
	}
	b.WriteString("\n")

	end := l.offset + l.maxVisible
	if end > count {
		end = count
	}
	for row := l.offset; row < end; row++ {
		idx := row
		if l.filteredIdx != nil {
			idx = l.filteredIdx[row]
		}
		b.WriteString(l.renderRow(l.movies[idx], row == l.cursor, innerWidth))
		b.WriteString("\n")
	}

	if end < count {
		b.WriteString(styles.DimStyle.Render("↓ more"))
	}

	border := styles.InactiveBorder
	if l.focused {
		border = styles.ActiveBorder
	}
	return border.Width(innerWidth).Height(l.height - BorderHeight).Render(b.String())
}

func (l *ResultsList) renderRow(m domain.Movie, selected bool, width int) string {
	label := m.Title
	if year := m.ReleaseYear(); year > 0 {
		label = fmt.Sprintf("%s (%d)", m.Title, year)
	}
	rating := fmt.Sprintf("%.1f", m.VoteAverage)

	if width > len(rating)+2 {
		label = truncate(label, width-len(rating)-2)
	}

	pad := width - lipgloss.Width(label) - lipgloss.Width(rating)
	if pad < 1 {
		pad = 1
	}

	if selected {
		return styles.HighlightStyle.Width(width).Render(label + strings.Repeat(" ", pad) + rating)
	}
	return styles.TitleStyle.Render(label) + strings.Repeat(" ", pad) + styles.RatingStyle.Render(rating)
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
