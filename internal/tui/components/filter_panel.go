package components

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"streamlist/internal/domain"
	"streamlist/internal/tui/styles"
)

const (
	fieldYearMin = iota
	fieldYearMax
	fieldRatingMin
	fieldRatingMax
	fieldCount
)

type toggleOption struct {
	id       int64
	label    string
	selected bool
}

// FilterPanel is the modal that edits the filter configuration: release
// year and rating bounds plus genre and service toggles.
type FilterPanel struct {
	visible bool

	inputs   [fieldCount]textinput.Model
	genres   []toggleOption
	services []toggleOption

	// cursor walks the inputs first, then genres, then services.
	cursor int

	width int
}

// NewFilterPanel builds the panel from the genre table and the user's
// selected services.
func NewFilterPanel(genres domain.GenreTable, services []domain.Provider) *FilterPanel {
	p := &FilterPanel{width: 44}

	labels := [fieldCount]string{"1900", "", "0.0", "10.0"}
	for i := range p.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 6
		ti.Width = 8
		ti.PromptStyle = styles.FilterPromptStyle
		p.inputs[i] = ti
	}

	for id, name := range genres {
		p.genres = append(p.genres, toggleOption{id: id, label: name})
	}
	sort.Slice(p.genres, func(i, j int) bool { return p.genres[i].label < p.genres[j].label })

	for _, svc := range services {
		p.services = append(p.services, toggleOption{id: svc.ID, label: svc.Name})
	}

	return p
}

// IsVisible reports whether the panel is shown.
func (p *FilterPanel) IsVisible() bool { return p.visible }

// Show opens the panel seeded from the active configuration.
func (p *FilterPanel) Show(cfg domain.FilterConfig) tea.Cmd {
	p.visible = true
	p.cursor = 0

	p.inputs[fieldYearMin].SetValue(strconv.Itoa(cfg.YearMin))
	p.inputs[fieldYearMax].SetValue(strconv.Itoa(cfg.YearMax))
	p.inputs[fieldRatingMin].SetValue(strconv.FormatFloat(cfg.RatingMin, 'f', 1, 64))
	p.inputs[fieldRatingMax].SetValue(strconv.FormatFloat(cfg.RatingMax, 'f', 1, 64))

	selectedGenres := make(map[int64]bool, len(cfg.GenreIDs))
	for _, id := range cfg.GenreIDs {
		selectedGenres[id] = true
	}
	for i := range p.genres {
		p.genres[i].selected = selectedGenres[p.genres[i].id]
	}

	selectedServices := make(map[int64]bool, len(cfg.ServiceIDs))
	for _, id := range cfg.ServiceIDs {
		selectedServices[id] = true
	}
	for i := range p.services {
		p.services[i].selected = selectedServices[p.services[i].id]
	}

	return p.focusRow()
}

// Hide closes the panel.
func (p *FilterPanel) Hide() {
	p.visible = false
	for i := range p.inputs {
		p.inputs[i].Blur()
	}
}

// Config reads the panel state back into a filter configuration. Blank
// or unparseable bounds fall back to the defaults.
func (p *FilterPanel) Config() domain.FilterConfig {
	cfg := domain.DefaultFilterConfig()

	if v, err := strconv.Atoi(strings.TrimSpace(p.inputs[fieldYearMin].Value())); err == nil {
		cfg.YearMin = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(p.inputs[fieldYearMax].Value())); err == nil {
		cfg.YearMax = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(p.inputs[fieldRatingMin].Value()), 64); err == nil {
		cfg.RatingMin = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(p.inputs[fieldRatingMax].Value()), 64); err == nil {
		cfg.RatingMax = v
	}

	for _, g := range p.genres {
		if g.selected {
			cfg.GenreIDs = append(cfg.GenreIDs, g.id)
		}
	}
	for _, s := range p.services {
		if s.selected {
			cfg.ServiceIDs = append(cfg.ServiceIDs, s.id)
		}
	}
	return cfg
}

func (p *FilterPanel) rowCount() int {
	return fieldCount + len(p.genres) + len(p.services)
}

func (p *FilterPanel) focusRow() tea.Cmd {
	for i := range p.inputs {
		p.inputs[i].Blur()
	}
	if p.cursor < fieldCount {
		return p.inputs[p.cursor].Focus()
	}
	return nil
}

// Update handles key events while the panel is open.
func (p *FilterPanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "shift+tab":
		if p.cursor > 0 {
			p.cursor--
		}
		return p.focusRow()
	case "down", "tab":
		if p.cursor < p.rowCount()-1 {
			p.cursor++
		}
		return p.focusRow()
	case " ":
		if p.cursor >= fieldCount {
			p.toggle(p.cursor - fieldCount)
			return nil
		}
	}

	if p.cursor < fieldCount {
		var cmd tea.Cmd
		p.inputs[p.cursor], cmd = p.inputs[p.cursor].Update(msg)
		return cmd
	}
	return nil
}

func (p *FilterPanel) toggle(i int) {
	if i < len(p.genres) {
		p.genres[i].selected = !p.genres[i].selected
		return
	}
	i -= len(p.genres)
	if i < len(p.services) {
		p.services[i].selected = !p.services[i].selected
	}
}

// View renders the panel.
func (p *FilterPanel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Filters"))
	b.WriteString("\n\n")

	inputLabels := [fieldCount]string{"Year from", "Year to", "Rating from", "Rating to"}
	for i := range p.inputs {
		marker := "  "
		if p.cursor == i {
			marker = styles.AccentStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, inputLabels[i], p.inputs[i].View()))
	}

	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Genres"))
	b.WriteString("\n")
	p.renderToggles(&b, p.genres, fieldCount, true)

	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Services"))
	b.WriteString("\n")
	p.renderToggles(&b, p.services, fieldCount+len(p.genres), false)

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("space toggle · enter apply · esc close"))

	return styles.ActiveBorder.
		Width(p.width).
		Padding(0, 1).
		Render(b.String())
}

func (p *FilterPanel) renderToggles(b *strings.Builder, options []toggleOption, base int, genre bool) {
	if len(options) == 0 {
		b.WriteString(styles.DimStyle.Render("  none"))
		b.WriteString("\n")
		return
	}
	for i, opt := range options {
		marker := "  "
		if p.cursor == base+i {
			marker = styles.AccentStyle.Render("> ")
		}
		check := "[ ]"
		if opt.selected {
			check = "[x]"
		}

		label := opt.label
		if genre {
			label = styles.GenreStyle(opt.label).Render(opt.label)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, check, label))
	}
}
