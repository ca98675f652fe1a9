package components

import (
	"fmt"
	"sort"
	"strings"

	"streamlist/internal/domain"
	"streamlist/internal/tui/styles"
)

// DetailPane shows the selected movie: metadata, genre tags and the
// per-country streaming availability.
type DetailPane struct {
	movie  domain.Movie
	genres domain.GenreTable
	empty  bool

	width  int
	height int
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(genres domain.GenreTable) *DetailPane {
	return &DetailPane{genres: genres, empty: true}
}

// SetSize updates the pane dimensions.
func (d *DetailPane) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetGenres swaps in the genre table once it is loaded.
func (d *DetailPane) SetGenres(genres domain.GenreTable) {
	d.genres = genres
}

// SetMovie sets the movie to display.
func (d *DetailPane) SetMovie(movie domain.Movie) {
	d.movie = movie
	d.empty = false
}

// Clear empties the pane.
func (d *DetailPane) Clear() {
	d.empty = true
}

// View renders the pane.
func (d *DetailPane) View() string {
	innerWidth := d.width - BorderWidth
	if innerWidth < 10 {
		innerWidth = 10
	}

	var b strings.Builder

	if d.empty {
		b.WriteString(styles.DimStyle.Render("nothing selected"))
	} else {
		d.renderMovie(&b)
	}

	return styles.InactiveBorder.
		Width(innerWidth).
		Height(d.height - BorderHeight).
		Padding(0, 1).
		Render(b.String())
}

func (d *DetailPane) renderMovie(b *strings.Builder) {
	m := d.movie

	b.WriteString(styles.TitleStyle.Render(m.Title))
	b.WriteString("\n")

	meta := fmt.Sprintf("★ %.1f", m.VoteAverage)
	if year := m.ReleaseYear(); year > 0 {
		meta = fmt.Sprintf("%d · %s", year, meta)
	}
	b.WriteString(styles.SubtitleStyle.Render(meta))
	b.WriteString("\n")

	if tags := d.genreTags(m.GenreIDs); tags != "" {
		b.WriteString(tags)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.Availability) == 0 {
		b.WriteString(styles.DimStyle.Render("not streaming on your services"))
		return
	}

	b.WriteString(styles.AccentStyle.Render("Streaming on"))
	b.WriteString("\n")

	codes := make([]string, 0, len(m.Availability))
	for code := range m.Availability {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		entry := m.Availability[code]
		name := entry.CountryName
		if name == "" {
			name = code
		}

		services := make([]string, len(entry.Services))
		for i, svc := range entry.Services {
			services[i] = svc.ProviderName
		}

		b.WriteString(styles.TitleStyle.Render(name))
		b.WriteString(styles.SubtitleStyle.Render("  " + strings.Join(services, ", ")))
		b.WriteString("\n")
		if entry.Link != "" {
			b.WriteString("  " + styles.LinkStyle.Render(entry.Link))
			b.WriteString("\n")
		}
	}
}

func (d *DetailPane) genreTags(ids []int64) string {
	if len(d.genres) == 0 || len(ids) == 0 {
		return ""
	}
	tags := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := d.genres[id]
		if !ok {
			continue
		}
		tags = append(tags, styles.GenreStyle(name).Render(name))
	}
	return strings.Join(tags, " · ")
}
