package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"streamlist/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", nil, nil)
}

func TestWatchlistPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/42/watchlist/movies" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("sort_by") != "created_at.asc" || q.Get("session_id") != "sess" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{
			"page": 2,
			"results": [
				{"id": 550, "title": "Fight Club", "release_date": "1999-10-15",
				 "genre_ids": [18], "vote_average": 8.4, "popularity": 61.4,
				 "poster_path": "/fc.jpg"}
			],
			"total_pages": 2
		}`))
	})

	movies, err := client.WatchlistPage(context.Background(), "42", "sess", 2)
	if err != nil {
		t.Fatalf("WatchlistPage: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
	m := movies[0]
	if m.ID != 550 || m.Title != "Fight Club" || m.ReleaseYear() != 1999 {
		t.Fatalf("unexpected movie: %+v", m)
	}
	if len(m.GenreIDs) != 1 || m.GenreIDs[0] != 18 {
		t.Fatalf("unexpected genres: %v", m.GenreIDs)
	}
}

func TestWatchlistPage_EmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": 3, "results": [], "total_pages": 2}`))
	})

	movies, err := client.WatchlistPage(context.Background(), "42", "sess", 3)
	if err != nil {
		t.Fatalf("WatchlistPage: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("expected empty page, got %d movies", len(movies))
	}
}

func TestMovieProviders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550/watch/providers" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 550,
			"results": {
				"US": {
					"link": "https://www.themoviedb.org/movie/550/watch?locale=US",
					"flatrate": [
						{"provider_id": 8, "provider_name": "Netflix", "logo_path": "/n.jpg"}
					]
				}
			}
		}`))
	})

	offers, err := client.MovieProviders(context.Background(), 550)
	if err != nil {
		t.Fatalf("MovieProviders: %v", err)
	}
	us, ok := offers["US"]
	if !ok {
		t.Fatalf("expected US offers, got %v", offers)
	}
	if len(us.Flatrate) != 1 || us.Flatrate[0].ProviderID != 8 || us.Flatrate[0].ProviderName != "Netflix" {
		t.Fatalf("unexpected flatrate: %+v", us.Flatrate)
	}
}

func TestGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 35, "name": "Comedy"}]}`))
	})

	genres, err := client.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if genres[28] != "Action" || genres[35] != "Comedy" {
		t.Fatalf("unexpected table: %v", genres)
	}
}

func TestMovieProviderCatalog_DedupesAndSorts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("watch_region") {
		case "US":
			w.Write([]byte(`{"results": [
				{"provider_id": 8, "provider_name": "Netflix", "logo_path": "/n.jpg"},
				{"provider_id": 9, "provider_name": "Amazon Prime Video", "logo_path": "/a.jpg"}
			]}`))
		case "SE":
			w.Write([]byte(`{"results": [
				{"provider_id": 8, "provider_name": "Netflix", "logo_path": "/n.jpg"},
				{"provider_id": 76, "provider_name": "Viaplay", "logo_path": "/v.jpg"}
			]}`))
		default:
			t.Errorf("unexpected region %q", r.URL.Query().Get("watch_region"))
		}
	})

	providers, err := client.MovieProviderCatalog(context.Background(), []string{"US", "SE"})
	if err != nil {
		t.Fatalf("MovieProviderCatalog: %v", err)
	}
	if len(providers) != 3 {
		t.Fatalf("expected 3 deduplicated providers, got %d", len(providers))
	}
	want := []string{"Amazon Prime Video", "Netflix", "Viaplay"}
	for i, name := range want {
		if providers[i].Name != name {
			t.Fatalf("expected name order %v, got %+v", want, providers)
		}
	}
}

func TestDoRequest_UnauthorizedMapsToAuthFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Genres(context.Background())
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDoRequest_ServerErrorPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.MovieProviders(context.Background(), 550)
	if err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestAuthFlow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/authentication/token/new":
			w.Write([]byte(`{"success": true, "request_token": "tok123"}`))
		case "/authentication/session/new":
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			w.Write([]byte(`{"success": true, "session_id": "sess456"}`))
		case "/account":
			if r.URL.Query().Get("session_id") != "sess456" {
				t.Errorf("unexpected session query %v", r.URL.Query())
			}
			w.Write([]byte(`{"id": 42, "username": "alice"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})

	ctx := context.Background()

	token, err := client.RequestToken(ctx)
	if err != nil || token != "tok123" {
		t.Fatalf("RequestToken: %q, %v", token, err)
	}
	if got := AuthorizationURL(token); got != "https://www.themoviedb.org/authenticate/tok123" {
		t.Fatalf("unexpected authorization URL %q", got)
	}

	session, err := client.CreateSession(ctx, token)
	if err != nil || session != "sess456" {
		t.Fatalf("CreateSession: %q, %v", session, err)
	}

	accountID, username, err := client.Account(ctx, session)
	if err != nil || accountID != "42" || username != "alice" {
		t.Fatalf("Account: %q, %q, %v", accountID, username, err)
	}
}

func TestRequestToken_RejectedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "status_message": "nope"}`))
	})

	_, err := client.RequestToken(context.Background())
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}
