package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"streamlist/internal/domain"
	"streamlist/internal/store"
)

// catalogClient is the slice of the TMDB client the selection flow needs.
type catalogClient interface {
	Regions(ctx context.Context) ([]domain.Country, error)
	MovieProviderCatalog(ctx context.Context, regions []string) ([]domain.Provider, error)
}

// SelectionService populates the country and service pickers and applies
// the user's choices to the session.
type SelectionService struct {
	client catalogClient
	store  *store.Store
	logger *slog.Logger

	mu        sync.Mutex
	countries []domain.Country // memoized for the process lifetime
}

// NewSelectionService creates a new selection service
func NewSelectionService(client catalogClient, cache *store.Store, logger *slog.Logger) *SelectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SelectionService{client: client, store: cache, logger: logger}
}

// Countries lists the selectable watch regions.
func (s *SelectionService) Countries(ctx context.Context) ([]domain.Country, error) {
	s.mu.Lock()
	cached := s.countries
	s.mu.Unlock()
	if len(cached) > 0 {
		return cached, nil
	}

	countries, err := s.client.Regions(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.countries = countries
	s.mu.Unlock()
	return countries, nil
}

// Services lists the streaming services selectable for the chosen
// countries, deduplicated across countries and sorted by name.
func (s *SelectionService) Services(ctx context.Context, countries []domain.Country) ([]domain.Provider, error) {
	regions := make([]string, len(countries))
	for i, c := range countries {
		regions[i] = c.Code
	}
	return s.client.MovieProviderCatalog(ctx, regions)
}

// Apply replaces the session's selections. A changed selection clears
// only the per-movie availability tier: the cached matches depend on the
// selection, the watchlist and genre snapshots do not. Reports whether
// anything changed.
func (s *SelectionService) Apply(session *domain.Session, countries []domain.Country, services []domain.Provider) bool {
	changed := countriesChanged(session.Countries, countries) || providersChanged(session.Services, services)

	session.Countries = countries
	session.Services = services

	if changed {
		s.store.InvalidateAvailability()
		s.logger.Info("selection changed, availability cache cleared",
			"countries", len(countries), "services", len(services))
	}
	return changed
}

func countriesChanged(old, new []domain.Country) bool {
	if len(old) != len(new) {
		return true
	}
	for i := range old {
		if old[i].Code != new[i].Code {
			return true
		}
	}
	return false
}

func providersChanged(old, new []domain.Provider) bool {
	if len(old) != len(new) {
		return true
	}
	for i := range old {
		if old[i].ID != new[i].ID {
			return true
		}
	}
	return false
}

// FilterCountries narrows the picker list with fuzzy matching on the
// country name. An empty query returns the input unchanged.
func FilterCountries(countries []domain.Country, query string) []domain.Country {
	query = strings.TrimSpace(query)
	if query == "" {
		return countries
	}

	names := make([]string, len(countries))
	byName := make(map[string]domain.Country, len(countries))
	for i, c := range countries {
		names[i] = c.Name
		byName[c.Name] = c
	}

	matches := fuzzy.RankFindFold(query, names)
	sort.Sort(matches)

	results := make([]domain.Country, 0, len(matches))
	for _, m := range matches {
		results = append(results, byName[m.Target])
	}
	return results
}

// providerIndex implements sahilm/fuzzy.Source over provider names.
type providerIndex []domain.Provider

func (idx providerIndex) String(i int) string { return idx[i].Name }
func (idx providerIndex) Len() int            { return len(idx) }

// FilterProviders narrows the picker list with fuzzy matching on the
// provider name. An empty query returns the input unchanged.
func FilterProviders(providers []domain.Provider, query string) []domain.Provider {
	query = strings.TrimSpace(query)
	if query == "" {
		return providers
	}

	matches := sahilm.FindFrom(query, providerIndex(providers))

	results := make([]domain.Provider, 0, len(matches))
	for _, m := range matches {
		results = append(results, providers[m.Index])
	}
	return results
}
