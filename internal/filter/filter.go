// Package filter is the pure filter/sort engine applied after every
// batch and after any filter change.
package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"streamlist/internal/domain"
)

// Apply filters movies against cfg and orders the survivors by sortKey.
// The input slice is never mutated; calling Apply again on the same
// inputs yields the same output in the same order.
func Apply(movies []domain.Movie, cfg domain.FilterConfig, sortKey domain.SortKey) []domain.Movie {
	filtered := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if matches(m, cfg) {
			filtered = append(filtered, m)
		}
	}
	sortMovies(filtered, sortKey)
	return filtered
}

// matches applies every filter axis (AND across axes, OR within the
// genre and service sets).
func matches(m domain.Movie, cfg domain.FilterConfig) bool {
	// A missing or unparseable release date has no year and can never
	// satisfy the numeric range.
	year := m.ReleaseYear()
	if year == 0 {
		return false
	}
	if year < cfg.YearMin || year > cfg.YearMax {
		return false
	}

	if m.VoteAverage < cfg.RatingMin || m.VoteAverage > cfg.RatingMax {
		return false
	}

	if len(cfg.GenreIDs) > 0 && !hasAnyGenre(m, cfg.GenreIDs) {
		return false
	}

	if len(cfg.ServiceIDs) > 0 && !hasAnyService(m, cfg.ServiceIDs) {
		return false
	}

	return true
}

func hasAnyGenre(m domain.Movie, genreIDs []int64) bool {
	for _, want := range genreIDs {
		for _, got := range m.GenreIDs {
			if got == want {
				return true
			}
		}
	}
	return false
}

func hasAnyService(m domain.Movie, serviceIDs []int64) bool {
	for _, entry := range m.Availability {
		for _, svc := range entry.Services {
			for _, want := range serviceIDs {
				if svc.ProviderID == want {
					return true
				}
			}
		}
	}
	return false
}

// sortMovies orders in place. All sorts are stable: ties keep input
// order.
func sortMovies(movies []domain.Movie, sortKey domain.SortKey) {
	switch sortKey {
	case domain.SortYear:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].ReleaseDate > movies[j].ReleaseDate
		})
	case domain.SortRating:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].VoteAverage > movies[j].VoteAverage
		})
	case domain.SortPopularity:
		sort.SliceStable(movies, func(i, j int) bool {
			return movies[i].Popularity > movies[j].Popularity
		})
	case domain.SortTitle:
		c := collate.New(language.English)
		sort.SliceStable(movies, func(i, j int) bool {
			return c.CompareString(movies[i].Title, movies[j].Title) < 0
		})
	default: // relevance
		sort.SliceStable(movies, func(i, j int) bool {
			return relevance(movies[i]) > relevance(movies[j])
		})
	}
}

// relevance is a deliberately simple composite score.
func relevance(m domain.Movie) float64 {
	return m.VoteAverage * float64(m.ReleaseYear())
}
