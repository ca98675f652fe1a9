package service

import (
	"context"
	"errors"
	"testing"

	"streamlist/internal/domain"
	"streamlist/internal/log"
	"streamlist/internal/store"
)

// fakeWatchlistClient serves canned pages and records every request.
type fakeWatchlistClient struct {
	pages [][]domain.Movie
	calls []int
	err   error
	errAt int // page that fails, 0 means never
}

func (f *fakeWatchlistClient) WatchlistPage(_ context.Context, _, _ string, page int) ([]domain.Movie, error) {
	f.calls = append(f.calls, page)
	if f.errAt != 0 && page == f.errAt {
		return nil, f.err
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("", log.NullLogger())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

func testSession() domain.Session {
	return domain.Session{
		SessionID: "sess",
		AccountID: "42",
		Countries: []domain.Country{{Code: "US", Name: "United States"}},
		Services:  []domain.Provider{{ID: 8, Name: "Netflix"}},
	}
}

func movieList(ids ...int64) []domain.Movie {
	movies := make([]domain.Movie, len(ids))
	for i, id := range ids {
		movies[i] = domain.Movie{ID: id, Title: "M", ReleaseDate: "2020-01-01"}
	}
	return movies
}

func TestWatchlist_FetchesSequentialPages(t *testing.T) {
	client := &fakeWatchlistClient{pages: [][]domain.Movie{
		movieList(1, 2),
		movieList(3),
	}}
	svc := NewWatchlistService(client, newTestStore(t), log.NullLogger())

	got, err := svc.Fetch(context.Background(), testSession(), NewCancelToken())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(got))
	}
	// Pages are requested strictly in order, through the first empty one.
	want := []int{1, 2, 3}
	if len(client.calls) != len(want) {
		t.Fatalf("expected %v page requests, got %v", want, client.calls)
	}
	for i, page := range want {
		if client.calls[i] != page {
			t.Fatalf("expected %v page requests, got %v", want, client.calls)
		}
	}
}

func TestWatchlist_CacheHitSkipsNetwork(t *testing.T) {
	cache := newTestStore(t)
	cache.SaveWatchlist(movieList(1, 2))

	client := &fakeWatchlistClient{}
	svc := NewWatchlistService(client, cache, log.NullLogger())

	got, err := svc.Fetch(context.Background(), testSession(), NewCancelToken())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected cached watchlist, got %d movies", len(got))
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no page requests on cache hit, got %v", client.calls)
	}
}

func TestWatchlist_CancelReturnsPartialWithoutCaching(t *testing.T) {
	client := &fakeWatchlistClient{pages: [][]domain.Movie{
		movieList(1, 2),
		movieList(3, 4),
	}}
	cache := newTestStore(t)
	svc := NewWatchlistService(client, cache, log.NullLogger())

	cancel := NewCancelToken()
	cancel.Cancel()

	got, err := svc.Fetch(context.Background(), testSession(), cancel)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no movies when cancelled before page 1, got %d", len(got))
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no page requests after cancel, got %v", client.calls)
	}
	if _, ok := cache.Watchlist(); ok {
		t.Fatalf("partial watchlist must not be cached")
	}
}

func TestWatchlist_PageFailureAborts(t *testing.T) {
	pageErr := errors.New("boom")
	client := &fakeWatchlistClient{
		pages: [][]domain.Movie{movieList(1, 2), movieList(3)},
		err:   pageErr,
		errAt: 2,
	}
	cache := newTestStore(t)
	svc := NewWatchlistService(client, cache, log.NullLogger())

	_, err := svc.Fetch(context.Background(), testSession(), NewCancelToken())
	if !errors.Is(err, pageErr) {
		t.Fatalf("expected page error to propagate, got %v", err)
	}
	if _, ok := cache.Watchlist(); ok {
		t.Fatalf("failed fetch must not cache partial results")
	}
}
