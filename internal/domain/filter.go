package domain

import "time"

// SortKey selects the result ordering.
type SortKey string

const (
	SortRelevance  SortKey = "relevance" // voteAverage x releaseYear, descending
	SortYear       SortKey = "year"
	SortRating     SortKey = "rating"
	SortPopularity SortKey = "popularity"
	SortTitle      SortKey = "title"
)

// FilterConfig holds the user's result filters. Empty genre/service sets
// accept everything; non-empty sets use OR semantics within the set.
type FilterConfig struct {
	YearMin    int
	YearMax    int
	RatingMin  float64
	RatingMax  float64
	GenreIDs   []int64
	ServiceIDs []int64
}

// DefaultFilterConfig returns a configuration that accepts every movie.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		YearMin:   1900,
		YearMax:   time.Now().Year(),
		RatingMin: 0,
		RatingMax: 10,
	}
}
