package domain

import (
	"strconv"
	"time"
)

// Movie represents one watchlist entry from TMDB.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"` // "2006-01-02", may be empty
	GenreIDs    []int64 `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"` // 0-10 community rating
	Popularity  float64 `json:"popularity"`
	PosterPath  string  `json:"poster_path"`

	// Availability maps country code to matched streaming services.
	// Attached once by the availability resolver; countries with no
	// matching flatrate service are omitted entirely, never stored empty.
	Availability map[string]AvailabilityEntry `json:"availability,omitempty"`
}

// ReleaseYear extracts the year from ReleaseDate.
// Returns 0 when the date is missing or unparseable.
func (m Movie) ReleaseYear() int {
	if t, err := time.Parse("2006-01-02", m.ReleaseDate); err == nil {
		return t.Year()
	}
	if len(m.ReleaseDate) >= 4 {
		if y, err := strconv.Atoi(m.ReleaseDate[:4]); err == nil {
			return y
		}
	}
	return 0
}

// HasAvailability reports whether any selected country carried a match.
func (m Movie) HasAvailability() bool {
	return len(m.Availability) > 0
}

// ServiceMatch is one streaming service that carries a movie in a country,
// preserved in the order TMDB returned it.
type ServiceMatch struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// AvailabilityEntry holds the matched services for one country.
type AvailabilityEntry struct {
	Link        string         `json:"link"` // TMDB watch deep link
	Services    []ServiceMatch `json:"services"`
	CountryName string         `json:"country_name"`
}

// Country is a selectable watch region.
type Country struct {
	Code string `json:"iso_3166_1"`
	Name string `json:"english_name"`
}

// Provider is a selectable streaming service.
type Provider struct {
	ID       int64  `json:"provider_id"`
	Name     string `json:"provider_name"`
	LogoPath string `json:"logo_path"`
}

// GenreTable maps TMDB genre ids to display names.
type GenreTable map[int64]string
