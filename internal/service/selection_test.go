package service

import (
	"context"
	"testing"

	"streamlist/internal/domain"
	"streamlist/internal/log"
)

type fakeCatalogClient struct {
	countries    []domain.Country
	providers    []domain.Provider
	regionCalls  int
	catalogCalls int
}

func (f *fakeCatalogClient) Regions(context.Context) ([]domain.Country, error) {
	f.regionCalls++
	return f.countries, nil
}

func (f *fakeCatalogClient) MovieProviderCatalog(_ context.Context, _ []string) ([]domain.Provider, error) {
	f.catalogCalls++
	return f.providers, nil
}

func TestSelection_CountriesMemoized(t *testing.T) {
	client := &fakeCatalogClient{countries: []domain.Country{
		{Code: "US", Name: "United States"},
		{Code: "SE", Name: "Sweden"},
	}}
	svc := NewSelectionService(client, newTestStore(t), log.NullLogger())

	first, err := svc.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	second, err := svc.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("unexpected country lists: %v / %v", first, second)
	}
	if client.regionCalls != 1 {
		t.Fatalf("expected 1 regions fetch, got %d", client.regionCalls)
	}
}

func TestSelection_ApplyInvalidatesOnlyAvailability(t *testing.T) {
	cache := newTestStore(t)
	cache.SaveWatchlist(movieList(1, 2))
	cache.SaveGenres(domain.GenreTable{28: "Action"})
	cache.SaveAvailability(550, map[string]domain.AvailabilityEntry{
		"US": {Services: []domain.ServiceMatch{{ProviderID: 8}}},
	})

	svc := NewSelectionService(&fakeCatalogClient{}, cache, log.NullLogger())
	session := testSession()

	changed := svc.Apply(&session,
		[]domain.Country{{Code: "US"}, {Code: "SE"}},
		session.Services)
	if !changed {
		t.Fatalf("expected selection change to be reported")
	}

	if _, ok := cache.Availability(550); ok {
		t.Fatalf("availability tier should be cleared on selection change")
	}
	if _, ok := cache.Watchlist(); !ok {
		t.Fatalf("watchlist tier must survive a selection change")
	}
	if _, ok := cache.Genres(); !ok {
		t.Fatalf("genre tier must survive a selection change")
	}
}

func TestSelection_ApplyUnchangedKeepsCache(t *testing.T) {
	cache := newTestStore(t)
	cache.SaveAvailability(550, map[string]domain.AvailabilityEntry{})

	svc := NewSelectionService(&fakeCatalogClient{}, cache, log.NullLogger())
	session := testSession()

	changed := svc.Apply(&session, session.Countries, session.Services)
	if changed {
		t.Fatalf("identical selection must not report a change")
	}
	if _, ok := cache.Availability(550); !ok {
		t.Fatalf("availability cache must survive an unchanged selection")
	}
}

func TestSelection_ApplyDetectsReorder(t *testing.T) {
	svc := NewSelectionService(&fakeCatalogClient{}, newTestStore(t), log.NullLogger())
	session := domain.Session{
		Countries: []domain.Country{{Code: "US"}, {Code: "SE"}},
	}

	changed := svc.Apply(&session,
		[]domain.Country{{Code: "SE"}, {Code: "US"}}, nil)
	if !changed {
		t.Fatalf("element-wise comparison should flag reordered selections")
	}
}

func TestFilterCountries(t *testing.T) {
	countries := []domain.Country{
		{Code: "US", Name: "United States"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "SE", Name: "Sweden"},
	}

	if got := FilterCountries(countries, ""); len(got) != 3 {
		t.Fatalf("empty query should pass everything, got %d", len(got))
	}

	got := FilterCountries(countries, "united")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for %q, got %v", "united", got)
	}
	for _, c := range got {
		if c.Code == "SE" {
			t.Fatalf("Sweden should not match %q", "united")
		}
	}
}

func TestFilterProviders(t *testing.T) {
	providers := []domain.Provider{
		{ID: 8, Name: "Netflix"},
		{ID: 9, Name: "Amazon Prime Video"},
		{ID: 337, Name: "Disney Plus"},
	}

	if got := FilterProviders(providers, "  "); len(got) != 3 {
		t.Fatalf("blank query should pass everything, got %d", len(got))
	}

	got := FilterProviders(providers, "netflix")
	if len(got) != 1 || got[0].ID != 8 {
		t.Fatalf("expected Netflix only, got %v", got)
	}
}
