package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"streamlist/internal/domain"
	"streamlist/internal/log"
	"streamlist/internal/tmdb"
)

// fakeProvidersClient returns canned offers per movie and counts calls.
type fakeProvidersClient struct {
	mu     sync.Mutex
	offers map[int64]map[string]tmdb.CountryOffers
	err    error
	calls  []int64
}

func (f *fakeProvidersClient) MovieProviders(_ context.Context, movieID int64) (map[string]tmdb.CountryOffers, error) {
	f.mu.Lock()
	f.calls = append(f.calls, movieID)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.offers[movieID], nil
}

func (f *fakeProvidersClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestMatch_IntersectsFlatrateWithSelection(t *testing.T) {
	offers := map[string]tmdb.CountryOffers{
		"US": {
			Link: "https://example.org/us",
			Flatrate: []domain.ServiceMatch{
				{ProviderID: 8, ProviderName: "Netflix"},
				{ProviderID: 9, ProviderName: "Prime Video"},
			},
		},
		"DE": {
			Flatrate: []domain.ServiceMatch{
				{ProviderID: 337, ProviderName: "Disney Plus"},
			},
		},
	}
	countries := []domain.Country{
		{Code: "US", Name: "United States"},
		{Code: "DE", Name: "Germany"},
		{Code: "FR", Name: "France"},
	}
	services := []domain.Provider{
		{ID: 9, Name: "Prime Video"},
		{ID: 350, Name: "Apple TV+"},
	}

	matches := Match(offers, countries, services)

	// Only the US intersection is non-empty; DE's lone offer is not
	// selected and FR has no offer at all.
	if len(matches) != 1 {
		t.Fatalf("expected 1 country, got %d: %v", len(matches), matches)
	}
	entry, ok := matches["US"]
	if !ok {
		t.Fatalf("expected US entry, got %v", matches)
	}
	if entry.CountryName != "United States" || entry.Link != "https://example.org/us" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if len(entry.Services) != 1 || entry.Services[0].ProviderID != 9 {
		t.Fatalf("expected only Prime Video to match, got %+v", entry.Services)
	}
}

func TestMatch_NoOffersYieldsEmptyMap(t *testing.T) {
	matches := Match(nil, []domain.Country{{Code: "US"}}, []domain.Provider{{ID: 8}})
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", matches)
	}
}

func TestAvailability_ResolveCachesResult(t *testing.T) {
	client := &fakeProvidersClient{offers: map[int64]map[string]tmdb.CountryOffers{
		550: {"US": {Flatrate: []domain.ServiceMatch{{ProviderID: 8, ProviderName: "Netflix"}}}},
	}}
	svc := NewAvailabilityService(client, newTestStore(t), log.NullLogger())
	session := testSession()

	first := svc.Resolve(context.Background(), session, 550)
	if len(first) != 1 {
		t.Fatalf("expected availability in 1 country, got %v", first)
	}

	second := svc.Resolve(context.Background(), session, 550)
	if len(second) != 1 {
		t.Fatalf("expected cached availability, got %v", second)
	}
	if client.callCount() != 1 {
		t.Fatalf("expected 1 network call, got %d", client.callCount())
	}
}

func TestAvailability_EmptyResultIsCached(t *testing.T) {
	// The movie streams nowhere the user selected; that fact is still a
	// cache entry, not a miss.
	client := &fakeProvidersClient{offers: map[int64]map[string]tmdb.CountryOffers{
		550: {"JP": {Flatrate: []domain.ServiceMatch{{ProviderID: 337}}}},
	}}
	cache := newTestStore(t)
	svc := NewAvailabilityService(client, cache, log.NullLogger())

	got := svc.Resolve(context.Background(), testSession(), 550)
	if len(got) != 0 {
		t.Fatalf("expected no availability, got %v", got)
	}

	cached, ok := cache.Availability(550)
	if !ok {
		t.Fatalf("empty availability must be cached as a hit")
	}
	if len(cached) != 0 {
		t.Fatalf("expected empty cached map, got %v", cached)
	}

	svc.Resolve(context.Background(), testSession(), 550)
	if client.callCount() != 1 {
		t.Fatalf("expected cached empty result to skip network, got %d calls", client.callCount())
	}
}

func TestAvailability_FetchFailureDegradesToEmpty(t *testing.T) {
	client := &fakeProvidersClient{err: errors.New("timeout")}
	cache := newTestStore(t)
	svc := NewAvailabilityService(client, cache, log.NullLogger())

	got := svc.Resolve(context.Background(), testSession(), 603)
	if len(got) != 0 {
		t.Fatalf("expected empty map on failure, got %v", got)
	}
	if _, ok := cache.Availability(603); !ok {
		t.Fatalf("failure result should still be cached")
	}
}
