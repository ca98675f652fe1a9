package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"streamlist/internal/domain"
	"streamlist/internal/ratelimit"
)

const (
	// BaseURL is the production TMDB API root.
	BaseURL = "https://api.themoviedb.org/3"

	// ImageBaseURL prefixes poster and logo paths.
	ImageBaseURL = "https://image.tmdb.org/t/p/original"

	defaultTimeout = 30 * time.Second
)

// Client talks to the TMDB v3 API with bearer-token auth. Every request
// passes through the shared rate limiter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// NewClient creates a TMDB API client.
func NewClient(baseURL, token string, limiter *ratelimit.Limiter, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.DefaultPerSecond)
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// doRequest performs a rate-limited authenticated request and decodes the
// JSON response into dest. Failures are returned as-is; there is no retry
// beyond the limiter's own admission wait.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	return c.limiter.Execute(ctx, func() error {
		var reqBody *bytes.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return err
			}
			reqBody = bytes.NewReader(encoded)
		} else {
			reqBody = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.Debug("tmdb request", "method", method, "path", path)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("tmdb request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			return domain.ErrAuthFailed
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("tmdb %s failed: %s", path, resp.Status)
		}

		if dest == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, query, nil, dest)
}

// WatchlistPage fetches one page of the account's movie watchlist, oldest
// first. An empty result slice marks the end of pagination.
func (c *Client) WatchlistPage(ctx context.Context, accountID, sessionID string, page int) ([]domain.Movie, error) {
	query := url.Values{}
	query.Set("language", "en-US")
	query.Set("page", strconv.Itoa(page))
	query.Set("sort_by", "created_at.asc")
	query.Set("session_id", sessionID)

	var payload watchlistResponse
	path := fmt.Sprintf("/account/%s/watchlist/movies", accountID)
	if err := c.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}

	movies := make([]domain.Movie, len(payload.Results))
	for i, r := range payload.Results {
		movies[i] = r.toDomain()
	}
	return movies, nil
}

// MovieProviders fetches the full per-country provider data for a movie.
func (c *Client) MovieProviders(ctx context.Context, movieID int64) (map[string]CountryOffers, error) {
	var payload providersResponse
	path := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// Genres fetches the movie genre taxonomy.
func (c *Client) Genres(ctx context.Context) (domain.GenreTable, error) {
	query := url.Values{}
	query.Set("language", "en")

	var payload genreListResponse
	if err := c.get(ctx, "/genre/movie/list", query, &payload); err != nil {
		return nil, err
	}

	genres := make(domain.GenreTable, len(payload.Genres))
	for _, g := range payload.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// Regions lists the countries TMDB tracks watch providers for.
func (c *Client) Regions(ctx context.Context) ([]domain.Country, error) {
	query := url.Values{}
	query.Set("language", "en-US")

	var payload regionsResponse
	if err := c.get(ctx, "/watch/providers/regions", query, &payload); err != nil {
		return nil, err
	}

	countries := make([]domain.Country, len(payload.Results))
	for i, r := range payload.Results {
		countries[i] = domain.Country{Code: r.ISO31661, Name: r.EnglishName}
	}
	return countries, nil
}

// MovieProviderCatalog lists the movie streaming services available in the
// given regions, deduplicated by provider id and sorted by name.
func (c *Client) MovieProviderCatalog(ctx context.Context, regions []string) ([]domain.Provider, error) {
	seen := make(map[int64]domain.Provider)
	for _, region := range regions {
		query := url.Values{}
		query.Set("language", "en-US")
		query.Set("watch_region", region)

		var payload providerCatalogResponse
		if err := c.get(ctx, "/watch/providers/movie", query, &payload); err != nil {
			return nil, err
		}
		for _, p := range payload.Results {
			if _, ok := seen[p.ProviderID]; !ok {
				seen[p.ProviderID] = domain.Provider{ID: p.ProviderID, Name: p.ProviderName, LogoPath: p.LogoPath}
			}
		}
	}

	providers := make([]domain.Provider, 0, len(seen))
	for _, p := range seen {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].Name < providers[j].Name
	})
	return providers, nil
}
