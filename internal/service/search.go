package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"streamlist/internal/domain"
	"streamlist/internal/store"
)

// DefaultBatchSize is how many movies are resolved concurrently between
// synchronization points.
const DefaultBatchSize = 15

// genreClient is the slice of the TMDB client the orchestrator needs.
type genreClient interface {
	Genres(ctx context.Context) (domain.GenreTable, error)
}

// SearchService drives the watchlist fetcher and availability resolver:
// it splits the watchlist into fixed-size batches, resolves each batch
// concurrently, keeps only movies with availability, and exposes results
// incrementally through the observer. One search may be outstanding at a
// time.
type SearchService struct {
	watchlist    *WatchlistService
	availability *AvailabilityService
	client       genreClient
	store        *store.Store
	logger       *slog.Logger
	batchSize    int

	mu        sync.Mutex
	searching bool
	cancel    *CancelToken
	progress  domain.SearchProgress
}

// NewSearchService creates a new search service
func NewSearchService(watchlist *WatchlistService, availability *AvailabilityService, client genreClient, cache *store.Store, batchSize int, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SearchService{
		watchlist:    watchlist,
		availability: availability,
		client:       client,
		store:        cache,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Searching reports whether a search is currently in flight.
func (s *SearchService) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Cancel requests cooperative cancellation of the current search. It is
// honored between watchlist pages and between batches; a started batch
// always runs to completion.
func (s *SearchService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel.Cancel()
	}
}

// Progress returns the latest progress snapshot.
func (s *SearchService) Progress() domain.SearchProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Genres returns the genre table, serving a fresh cached copy when one
// exists.
func (s *SearchService) Genres(ctx context.Context) (domain.GenreTable, error) {
	if cached, ok := s.store.Genres(); ok {
		return cached, nil
	}
	genres, err := s.client.Genres(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SaveGenres(genres)
	return genres, nil
}

// Search runs the full pipeline for the given session and returns the
// movies with availability, together with the terminal status. Partial
// results accumulated before a cancellation are returned, not rolled
// back.
func (s *SearchService) Search(ctx context.Context, session domain.Session, observer domain.SearchObserver) ([]domain.Movie, domain.SearchStatus, error) {
	s.mu.Lock()
	if s.searching {
		s.mu.Unlock()
		return nil, domain.SearchFailed, domain.ErrSearchRunning
	}
	cancel := NewCancelToken()
	s.searching = true
	s.cancel = cancel
	s.progress = domain.SearchProgress{Status: domain.SearchRunning}
	s.mu.Unlock()

	results, status, err := s.run(ctx, session, cancel, observer)

	s.mu.Lock()
	s.searching = false
	s.cancel = nil
	s.progress.Status = status
	s.progress.Err = err
	s.mu.Unlock()

	if observer != nil {
		observer.OnProgress(domain.SearchProgress{
			Total:     s.progress.Total,
			Processed: s.progress.Processed,
			Found:     len(results),
			Movies:    results,
			Status:    status,
			Err:       err,
		})
	}
	return results, status, err
}

func (s *SearchService) run(ctx context.Context, session domain.Session, cancel *CancelToken, observer domain.SearchObserver) ([]domain.Movie, domain.SearchStatus, error) {
	// The genre table only feeds presentation and filters; a fetch
	// failure is not fatal to the search.
	if _, err := s.Genres(ctx); err != nil {
		s.logger.Warn("genre table unavailable", "error", err)
	}

	watchlist, err := s.watchlist.Fetch(ctx, session, cancel)
	if err != nil {
		return nil, domain.SearchFailed, fmt.Errorf("%w: %s", domain.ErrWatchlistUnavailable, err)
	}
	if cancel.Cancelled() {
		return nil, domain.SearchCancelled, nil
	}

	s.setTotal(len(watchlist))
	if len(watchlist) == 0 {
		return nil, domain.SearchCompleted, nil
	}

	var results []domain.Movie
	for start := 0; start < len(watchlist); start += s.batchSize {
		// Cancellation is polled only at batch boundaries.
		if cancel.Cancelled() {
			s.logger.Info("search cancelled", "processed", s.Progress().Processed, "found", len(results))
			return results, domain.SearchCancelled, nil
		}

		end := start + s.batchSize
		if end > len(watchlist) {
			end = len(watchlist)
		}
		batch := watchlist[start:end]

		// Resolve the whole batch concurrently; the batch boundary is a
		// hard synchronization point.
		p := pool.New().WithMaxGoroutines(len(batch))
		for i := range batch {
			movie := &batch[i]
			p.Go(func() {
				movie.Availability = s.availability.Resolve(ctx, session, movie.ID)
				s.advance(observer)
			})
		}
		p.Wait()

		for _, movie := range batch {
			if movie.HasAvailability() {
				results = append(results, movie)
			}
		}
		s.emitBatch(observer, results)
	}

	s.logger.Info("search complete", "total", len(watchlist), "found", len(results))
	return results, domain.SearchCompleted, nil
}

func (s *SearchService) setTotal(total int) {
	s.mu.Lock()
	s.progress.Total = total
	s.mu.Unlock()
}

// advance bumps the processed counter after one resolved movie.
func (s *SearchService) advance(observer domain.SearchObserver) {
	s.mu.Lock()
	s.progress.Processed++
	snapshot := s.progress
	s.mu.Unlock()

	if observer != nil {
		observer.OnProgress(snapshot)
	}
}

// emitBatch publishes the cumulative survivors after a batch barrier.
func (s *SearchService) emitBatch(observer domain.SearchObserver, results []domain.Movie) {
	movies := make([]domain.Movie, len(results))
	copy(movies, results)

	s.mu.Lock()
	s.progress.Found = len(movies)
	snapshot := s.progress
	snapshot.Movies = movies
	s.mu.Unlock()

	if observer != nil {
		observer.OnProgress(snapshot)
	}
}
