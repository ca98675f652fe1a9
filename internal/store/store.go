package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"streamlist/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Default tier lifetimes, matched to how often each data source changes:
// the watchlist changes often, catalog licensing changes rarely, the genre
// taxonomy almost never.
const (
	DefaultWatchlistTTL    = time.Hour
	DefaultAvailabilityTTL = 24 * time.Hour
	DefaultGenreTTL        = 7 * 24 * time.Hour
)

// Bucket names
var (
	bucketWatchlist    = []byte("watchlist")
	bucketAvailability = []byte("availability")
	bucketGenres       = []byte("genres")
	bucketSession      = []byte("session")
)

// record wraps a cached payload with its absolute expiry. A record is
// valid iff now < ExpiresAt; expired and absent records read identically
// as cache misses. ExpiresAt == 0 means the record never expires.
type record struct {
	Payload   json.RawMessage `json:"payload"`
	ExpiresAt int64           `json:"expires_at"` // unix milliseconds
}

// Store holds the three cache tiers plus the session record, backed by
// BoltDB. The in-memory copy is authoritative for the session: a failed
// durable write is logged and the pipeline keeps going.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string][]byte

	WatchlistTTL    time.Duration
	AvailabilityTTL time.Duration
	GenreTTL        time.Duration

	now func() time.Time
}

// New opens (or creates) the store under dir. An empty dir gives a
// memory-only store. An unreadable database file is treated as no cache:
// the store falls back to memory-only mode rather than failing.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		logger:          logger,
		cache:           make(map[string][]byte),
		WatchlistTTL:    DefaultWatchlistTTL,
		AvailabilityTTL: DefaultAvailabilityTTL,
		GenreTTL:        DefaultGenreTTL,
		now:             time.Now,
	}

	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "streamlist.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		logger.Warn("cache database unreadable, starting fresh", "path", dbPath, "error", err)
		os.Remove(dbPath)
		db, err = bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			logger.Warn("cache disabled, using memory only", "error", err)
			return s, nil
		}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketWatchlist, bucketAvailability, bucketGenres, bucketSession} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		logger.Warn("cache buckets unavailable, using memory only", "error", err)
		return s, nil
	}

	s.db = db
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	data, ok := s.cache[cacheKey]
	s.mu.RUnlock()

	if !ok {
		if s.db == nil {
			return false
		}
		s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			if v := b.Get([]byte(key)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if data == nil {
			return false
		}

		// Promote to memory
		s.mu.Lock()
		s.cache[cacheKey] = data
		s.mu.Unlock()
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt payloads read as cache misses.
		s.logger.Warn("discarding corrupt cache record", "bucket", string(bucket), "key", key, "error", err)
		return false
	}
	if rec.ExpiresAt != 0 && !s.now().Before(time.UnixMilli(rec.ExpiresAt)) {
		return false
	}
	return json.Unmarshal(rec.Payload, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", "bucket", string(bucket), "key", key, "error", err)
		return
	}

	rec := record{Payload: payload}
	if ttl > 0 {
		rec.ExpiresAt = s.now().Add(ttl).UnixMilli()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("cache encode failed", "bucket", string(bucket), "key", key, "error", err)
		return
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
	if err != nil {
		// Memory stays authoritative for the session.
		s.logger.Warn("cache persist failed", "bucket", string(bucket), "key", key, "error", err)
	}
}

func (s *Store) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *Store) clearBucket(bucket []byte) {
	prefix := string(bucket) + ":"

	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Watchlist tier ===

func (s *Store) Watchlist() ([]domain.Movie, bool) {
	var movies []domain.Movie
	ok := s.get(bucketWatchlist, "snapshot", &movies)
	return movies, ok
}

func (s *Store) SaveWatchlist(movies []domain.Movie) {
	s.set(bucketWatchlist, "snapshot", movies, s.WatchlistTTL)
}

// === Availability tier (one record per movie, each with its own TTL) ===

// Availability returns the cached per-country matches for a movie. A hit
// with an empty map is a cached "no availability" fact, distinct from the
// miss returned for absent or expired records.
func (s *Store) Availability(movieID int64) (map[string]domain.AvailabilityEntry, bool) {
	availability := make(map[string]domain.AvailabilityEntry)
	ok := s.get(bucketAvailability, strconv.FormatInt(movieID, 10), &availability)
	return availability, ok
}

func (s *Store) SaveAvailability(movieID int64, availability map[string]domain.AvailabilityEntry) {
	if availability == nil {
		availability = map[string]domain.AvailabilityEntry{}
	}
	s.set(bucketAvailability, strconv.FormatInt(movieID, 10), availability, s.AvailabilityTTL)
}

// === Genre tier ===

func (s *Store) Genres() (domain.GenreTable, bool) {
	genres := make(domain.GenreTable)
	ok := s.get(bucketGenres, "table", &genres)
	return genres, ok
}

func (s *Store) SaveGenres(genres domain.GenreTable) {
	s.set(bucketGenres, "table", genres, s.GenreTTL)
}

// === Invalidation ===

// InvalidateAvailability clears only the per-movie availability tier.
// Called when the country or service selection changes: the cached
// matches depend on the selection, the watchlist and genre tiers do not.
func (s *Store) InvalidateAvailability() {
	s.clearBucket(bucketAvailability)
}

// InvalidateAll wipes every cache tier but leaves the session record.
func (s *Store) InvalidateAll() {
	s.clearBucket(bucketWatchlist)
	s.clearBucket(bucketAvailability)
	s.clearBucket(bucketGenres)
}

// === Session record ===

func (s *Store) Session() (domain.Session, bool) {
	var session domain.Session
	ok := s.get(bucketSession, "current", &session)
	return session, ok
}

func (s *Store) SaveSession(session domain.Session) {
	s.set(bucketSession, "current", session, 0)
}

func (s *Store) ClearSession() {
	s.delete(bucketSession, "current")
}
