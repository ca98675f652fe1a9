package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	TMDBBlue  = lipgloss.Color("#01B4E4")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Amber     = lipgloss.Color("#D97706")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TMDBBlue)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(TMDBBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	RatingStyle = lipgloss.NewStyle().
			Foreground(Amber)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(TMDBBlue)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(TMDBBlue).
			Padding(0, 1)

	FilterPromptStyle = lipgloss.NewStyle().Foreground(TMDBBlue)
	FilterStyle       = lipgloss.NewStyle().Foreground(White)

	LinkStyle = lipgloss.NewStyle().
			Foreground(TMDBBlue).
			Underline(true)
)

// genreColors assigns each TMDB genre a stable display color.
var genreColors = map[string]lipgloss.Color{
	"Action":          lipgloss.Color("#DC2626"),
	"Adventure":       lipgloss.Color("#EA580C"),
	"Animation":       lipgloss.Color("#DB2777"),
	"Comedy":          lipgloss.Color("#D97706"),
	"Crime":           lipgloss.Color("#4B5563"),
	"Documentary":     lipgloss.Color("#7C3AED"),
	"Drama":           lipgloss.Color("#4F46E5"),
	"Family":          lipgloss.Color("#DB2777"),
	"Fantasy":         lipgloss.Color("#9333EA"),
	"History":         lipgloss.Color("#78716C"),
	"Horror":          lipgloss.Color("#525252"),
	"Music":           lipgloss.Color("#E11D48"),
	"Mystery":         lipgloss.Color("#2563EB"),
	"Romance":         lipgloss.Color("#DB2777"),
	"Science Fiction": lipgloss.Color("#0891B2"),
	"TV Movie":        lipgloss.Color("#6B7280"),
	"Thriller":        lipgloss.Color("#B91C1C"),
	"War":             lipgloss.Color("#374151"),
	"Western":         lipgloss.Color("#B45309"),
}

// genreFallback is cycled through for genres outside the known table.
var genreFallback = []lipgloss.Color{
	lipgloss.Color("#0D9488"),
	lipgloss.Color("#7C3AED"),
	lipgloss.Color("#B45309"),
	lipgloss.Color("#2563EB"),
	lipgloss.Color("#DB2777"),
	lipgloss.Color("#4B5563"),
}

// GenreStyle returns the tag style for a genre name. Unknown genres get a
// stable color derived from the name.
func GenreStyle(name string) lipgloss.Style {
	color, ok := genreColors[name]
	if !ok {
		hash := 0
		for _, r := range name {
			hash = int(r) + ((hash << 5) - hash)
		}
		if hash < 0 {
			hash = -hash
		}
		color = genreFallback[hash%len(genreFallback)]
	}
	return lipgloss.NewStyle().Foreground(color)
}
