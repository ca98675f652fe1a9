package service

import (
	"context"
	"fmt"
	"log/slog"

	"streamlist/internal/domain"
	"streamlist/internal/store"
)

// watchlistClient is the slice of the TMDB client the fetcher needs.
type watchlistClient interface {
	WatchlistPage(ctx context.Context, accountID, sessionID string, page int) ([]domain.Movie, error)
}

// WatchlistService retrieves the complete paginated watchlist, serving it
// from the cache when the snapshot is still fresh.
type WatchlistService struct {
	client watchlistClient
	store  *store.Store
	logger *slog.Logger
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(client watchlistClient, cache *store.Store, logger *slog.Logger) *WatchlistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchlistService{client: client, store: cache, logger: logger}
}

// Fetch returns the account's full watchlist. A fresh cache snapshot is
// returned with zero network calls; otherwise pages are requested strictly
// sequentially from page 1 until an empty page. The cancel token is
// checked before every page request; a cancelled fetch returns the
// partial list but never caches it. Any page failure propagates and
// aborts the search.
func (s *WatchlistService) Fetch(ctx context.Context, session domain.Session, cancel *CancelToken) ([]domain.Movie, error) {
	if cached, ok := s.store.Watchlist(); ok {
		s.logger.Debug("watchlist cache hit", "count", len(cached))
		return cached, nil
	}

	var all []domain.Movie
	for page := 1; ; page++ {
		if cancel.Cancelled() {
			s.logger.Info("watchlist fetch cancelled", "pages", page-1, "count", len(all))
			return all, nil
		}

		movies, err := s.client.WatchlistPage(ctx, session.AccountID, session.SessionID, page)
		if err != nil {
			s.logger.Error("watchlist page failed", "page", page, "error", err)
			return nil, fmt.Errorf("watchlist page %d: %w", page, err)
		}
		if len(movies) == 0 {
			break
		}
		all = append(all, movies...)
	}

	if len(all) > 0 {
		s.store.SaveWatchlist(all)
	}
	s.logger.Info("watchlist fetched", "count", len(all))
	return all, nil
}
