package tmdb

import "streamlist/internal/domain"

type watchlistResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int64 `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
	PosterPath  string  `json:"poster_path"`
}

func (r movieResult) toDomain() domain.Movie {
	return domain.Movie{
		ID:          r.ID,
		Title:       r.Title,
		ReleaseDate: r.ReleaseDate,
		GenreIDs:    r.GenreIDs,
		VoteAverage: r.VoteAverage,
		Popularity:  r.Popularity,
		PosterPath:  r.PosterPath,
	}
}

// CountryOffers is one country's slice of the watch/providers payload.
// Only flatrate (subscription) offers matter here; rental and purchase
// listings are ignored.
type CountryOffers struct {
	Link     string                `json:"link"`
	Flatrate []domain.ServiceMatch `json:"flatrate"`
}

type providersResponse struct {
	ID      int64                    `json:"id"`
	Results map[string]CountryOffers `json:"results"`
}

type genreListResponse struct {
	Genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type regionsResponse struct {
	Results []struct {
		ISO31661    string `json:"iso_3166_1"`
		EnglishName string `json:"english_name"`
	} `json:"results"`
}

type providerCatalogResponse struct {
	Results []struct {
		ProviderID   int64  `json:"provider_id"`
		ProviderName string `json:"provider_name"`
		LogoPath     string `json:"logo_path"`
	} `json:"results"`
}

type tokenResponse struct {
	Success      bool   `json:"success"`
	RequestToken string `json:"request_token"`
	StatusMsg    string `json:"status_message"`
}

type sessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	StatusMsg string `json:"status_message"`
}

type accountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
