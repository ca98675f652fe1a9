package service

import (
	"context"
	"log/slog"

	"streamlist/internal/domain"
	"streamlist/internal/store"
	"streamlist/internal/tmdb"
)

// providersClient is the slice of the TMDB client the resolver needs.
type providersClient interface {
	MovieProviders(ctx context.Context, movieID int64) (map[string]tmdb.CountryOffers, error)
}

// AvailabilityService resolves which selected services carry a movie in
// which selected countries, one cached record per movie.
type AvailabilityService struct {
	client providersClient
	store  *store.Store
	logger *slog.Logger
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(client providersClient, cache *store.Store, logger *slog.Logger) *AvailabilityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityService{client: client, store: cache, logger: logger}
}

// Resolve returns the per-country availability map for one movie, from
// the per-movie cache tier when fresh. "No availability" is itself a
// cacheable fact: the resulting map is written back even when empty.
// Network or parse failures degrade to an empty map for this movie only
// and never abort the batch.
func (s *AvailabilityService) Resolve(ctx context.Context, session domain.Session, movieID int64) map[string]domain.AvailabilityEntry {
	if cached, ok := s.store.Availability(movieID); ok {
		return cached
	}

	offers, err := s.client.MovieProviders(ctx, movieID)
	if err != nil {
		s.logger.Warn("availability fetch failed", "movie", movieID, "error", err)
		offers = nil
	}

	matches := Match(offers, session.Countries, session.Services)
	s.store.SaveAvailability(movieID, matches)
	return matches
}

// Match intersects each selected country's flatrate offers against the
// selected services. A country appears in the result only when at least
// one service matches; matched services keep TMDB's order.
func Match(offers map[string]tmdb.CountryOffers, countries []domain.Country, services []domain.Provider) map[string]domain.AvailabilityEntry {
	selected := make(map[int64]bool, len(services))
	for _, svc := range services {
		selected[svc.ID] = true
	}

	matches := make(map[string]domain.AvailabilityEntry)
	for _, country := range countries {
		offer, ok := offers[country.Code]
		if !ok {
			continue
		}

		var matched []domain.ServiceMatch
		for _, svc := range offer.Flatrate {
			if selected[svc.ProviderID] {
				matched = append(matched, svc)
			}
		}
		if len(matched) == 0 {
			continue
		}

		matches[country.Code] = domain.AvailabilityEntry{
			Link:        offer.Link,
			Services:    matched,
			CountryName: country.Name,
		}
	}
	return matches
}
