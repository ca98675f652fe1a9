package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"streamlist/internal/domain"
	"streamlist/internal/filter"
	"streamlist/internal/service"
	"streamlist/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateSearching ApplicationState = iota
	StateBrowsing
	StateHelp
)

const (
	spinnerInterval = 100 * time.Millisecond
	statusLifetime  = 3 * time.Second

	// Vertical chrome: header line, blank line, footer line
	chromeHeight = 3

	listPercent  = 45
	minPaneWidth = 24
)

// sortCycle is the order the sort key steps through.
var sortCycle = []domain.SortKey{
	domain.SortRelevance,
	domain.SortYear,
	domain.SortRating,
	domain.SortPopularity,
	domain.SortTitle,
}

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Keys  KeyMap

	SearchSvc *service.SearchService
	Session   domain.Session
	Genres    domain.GenreTable

	// Search progress
	progressCh   chan domain.SearchProgress
	Progress     domain.SearchProgress
	FinalStatus  domain.SearchStatus
	SearchErr    error
	SpinnerFrame int

	// Results
	All       []domain.Movie // survivors, unfiltered
	Visible   []domain.Movie
	FilterCfg domain.FilterConfig
	SortKey   domain.SortKey

	// Components
	Results     *components.ResultsList
	Detail      *components.DetailPane
	FilterPanel *components.FilterPanel

	Width  int
	Height int

	StatusMsg   string
	StatusIsErr bool
}

// NewModel builds the application model. The genre table may be empty if
// the taxonomy could not be fetched; tags are simply not shown then.
func NewModel(search *service.SearchService, session domain.Session, genres domain.GenreTable) Model {
	return Model{
		State:       StateSearching,
		Keys:        DefaultKeyMap(),
		SearchSvc:   search,
		Session:     session,
		Genres:      genres,
		progressCh:  make(chan domain.SearchProgress, 64),
		FilterCfg:   domain.DefaultFilterConfig(),
		SortKey:     domain.SortRelevance,
		Results:     components.NewResultsList(),
		Detail:      components.NewDetailPane(genres),
		FilterPanel: components.NewFilterPanel(genres, session.Services),
	}
}

// Init starts the search pipeline and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		RunSearchCmd(context.Background(), m.SearchSvc, m.Session, m.progressCh),
		WaitForProgressCmd(m.progressCh),
		TickCmd(spinnerInterval),
	)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		if m.State == StateSearching {
			m.SpinnerFrame++
			return m, TickCmd(spinnerInterval)
		}
		return m, nil

	case ProgressMsg:
		m.Progress = msg.Progress
		if msg.Progress.Movies != nil {
			// Batch barrier: show the cumulative survivors immediately.
			m.All = msg.Progress.Movies
			m.refresh()
		}
		return m, WaitForProgressCmd(m.progressCh)

	case SearchDoneMsg:
		return m.handleSearchDone(msg)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleSearchDone(msg SearchDoneMsg) (tea.Model, tea.Cmd) {
	m.State = StateBrowsing
	m.FinalStatus = msg.Status
	m.SearchErr = msg.Err
	m.All = msg.Movies
	m.refresh()

	var cmd tea.Cmd
	switch msg.Status {
	case domain.SearchCancelled:
		m.StatusMsg = "search cancelled, showing partial results"
		cmd = ClearStatusCmd(statusLifetime)
	case domain.SearchFailed:
		m.StatusMsg = "search failed"
		if msg.Err != nil {
			m.StatusMsg = "search failed: " + msg.Err.Error()
		}
		m.StatusIsErr = true
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal layers swallow keys first.
	if m.FilterPanel.IsVisible() {
		return m.handleFilterPanelKey(msg)
	}
	if m.Results.FilterActive() && m.State == StateBrowsing {
		return m.handleTitleFindKey(msg)
	}

	switch m.State {
	case StateSearching:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			m.SearchSvc.Cancel()
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Cancel):
			m.SearchSvc.Cancel()
			m.StatusMsg = "cancelling after current batch..."
			return m, nil
		}

	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateBrowsing:
		return m.handleBrowsingKey(msg)
	}
	return m, nil
}

func (m Model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
	case key.Matches(msg, m.Keys.Up):
		m.Results.MoveUp()
		m.syncDetail()
	case key.Matches(msg, m.Keys.Down):
		m.Results.MoveDown()
		m.syncDetail()
	case key.Matches(msg, m.Keys.PageUp):
		m.Results.PageUp()
		m.syncDetail()
	case key.Matches(msg, m.Keys.PageDown):
		m.Results.PageDown()
		m.syncDetail()
	case key.Matches(msg, m.Keys.Home):
		m.Results.MoveToTop()
		m.syncDetail()
	case key.Matches(msg, m.Keys.End):
		m.Results.MoveToBottom()
		m.syncDetail()
	case key.Matches(msg, m.Keys.TitleFind):
		return m, m.Results.OpenFilter()
	case key.Matches(msg, m.Keys.Filter):
		return m, m.FilterPanel.Show(m.FilterCfg)
	case key.Matches(msg, m.Keys.Sort):
		m.cycleSort()
		return m, ClearStatusCmd(statusLifetime)
	case key.Matches(msg, m.Keys.Escape):
		m.Results.CloseFilter()
		m.syncDetail()
	}
	return m, nil
}

func (m Model) handleFilterPanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Escape):
		m.FilterPanel.Hide()
		return m, nil
	case key.Matches(msg, m.Keys.Confirm):
		m.FilterCfg = m.FilterPanel.Config()
		m.FilterPanel.Hide()
		m.refresh()
		return m, nil
	}
	return m, m.FilterPanel.Update(msg)
}

func (m Model) handleTitleFindKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Escape):
		m.Results.CloseFilter()
		m.syncDetail()
		return m, nil
	case key.Matches(msg, m.Keys.Confirm):
		m.Results.CommitFilter()
		m.syncDetail()
		return m, nil
	}
	cmd := m.Results.UpdateFilter(msg)
	m.syncDetail()
	return m, cmd
}

// cycleSort steps to the next sort key and re-sorts.
func (m *Model) cycleSort() {
	for i, k := range sortCycle {
		if k == m.SortKey {
			m.SortKey = sortCycle[(i+1)%len(sortCycle)]
			break
		}
	}
	m.refresh()
	m.StatusMsg = "sorted by " + string(m.SortKey)
	m.StatusIsErr = false
}

// refresh recomputes the visible slice from the full survivor set.
func (m *Model) refresh() {
	m.Visible = filter.Apply(m.All, m.FilterCfg, m.SortKey)
	m.Results.SetMovies(m.Visible)
	m.syncDetail()
}

func (m *Model) syncDetail() {
	if movie, ok := m.Results.Selected(); ok {
		m.Detail.SetMovie(movie)
	} else {
		m.Detail.Clear()
	}
}

func (m *Model) resize() {
	bodyHeight := m.Height - chromeHeight
	if bodyHeight < 4 {
		bodyHeight = 4
	}

	listWidth := m.Width * listPercent / 100
	if listWidth < minPaneWidth {
		listWidth = minPaneWidth
	}
	detailWidth := m.Width - listWidth
	if detailWidth < minPaneWidth {
		detailWidth = minPaneWidth
	}

	m.Results.SetSize(listWidth, bodyHeight)
	m.Detail.SetSize(detailWidth, bodyHeight)
}
