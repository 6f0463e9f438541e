package catalogcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
	"gamelxrd/internal/metrics"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Entry describes one cached descriptor without decoding its payload.
type Entry struct {
	ID        string     `json:"id"`
	Kind      media.Kind `json:"kind"`
	Key       string     `json:"key"`
	Title     string     `json:"title"`
	FetchedAt time.Time  `json:"fetchedAt"`
	Expired   bool       `json:"expired"`
}

// Store is the SQLite-backed descriptor cache. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	path    string
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for decode warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "catalogcache")
		}
	}
}

// WithMetrics records hit/miss counters.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Store) { s.metrics = reg }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open initializes or connects to the cache database at path. A ttl of zero
// or less keeps entries forever.
func Open(path string, ttl time.Duration, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.NewComponentLogger(nil, "catalogcache"),
	}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached descriptor for kind and key. Expired or undecodable
// entries are reported as misses.
func (s *Store) Get(ctx context.Context, kind media.Kind, key string) (media.Descriptor, bool, error) {
	ctx = ensureContext(ctx)
	var (
		payload   string
		fetchedAt int64
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT payload, fetched_at FROM descriptors WHERE kind = ? AND lookup_key = ?",
			string(kind), normalizeKey(key),
		).Scan(&payload, &fetchedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		s.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false, nil
	}
	if err != nil {
		s.metrics.ObserveCache(metrics.CacheError)
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	if s.expired(time.Unix(fetchedAt, 0)) {
		s.metrics.ObserveCache(metrics.CacheExpired)
		return nil, false, nil
	}

	descriptor, err := media.Decode([]byte(payload))
	if err != nil {
		s.metrics.ObserveCache(metrics.CacheError)
		logging.WarnWithContext(s.logger, "cached descriptor unreadable", "catalogcache_decode_failed",
			logging.String("kind", string(kind)),
			logging.String("key", key),
			logging.Error(err),
			logging.Hint("run 'gamelxrd cache remove' for this entry"),
			logging.Impact("descriptor will be fetched from the catalog again"))
		return nil, false, nil
	}
	s.metrics.ObserveCache(metrics.CacheHit)
	return descriptor, true, nil
}

// Put stores d under key, replacing any previous entry for the same kind and key.
func (s *Store) Put(ctx context.Context, key string, d media.Descriptor) error {
	if d == nil {
		return errors.New("cache put: nil descriptor")
	}
	payload, err := media.Encode(d)
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	return s.execWithoutResultRetry(ctx, `
INSERT INTO descriptors (id, kind, lookup_key, title, payload, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(kind, lookup_key) DO UPDATE SET
    title = excluded.title,
    payload = excluded.payload,
    fetched_at = excluded.fetched_at`,
		uuid.NewString(), string(d.Kind()), normalizeKey(key), d.Label(), string(payload), s.now().Unix(),
	)
}

// List returns every entry, most recently fetched first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	var entries []Entry
	err := retryOnBusy(ctx, func() error {
		entries = entries[:0]
		rows, err := s.db.QueryContext(ctx,
			"SELECT id, kind, lookup_key, title, fetched_at FROM descriptors ORDER BY fetched_at DESC, lookup_key")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				entry     Entry
				kind      string
				fetchedAt int64
			)
			if err := rows.Scan(&entry.ID, &kind, &entry.Key, &entry.Title, &fetchedAt); err != nil {
				return err
			}
			entry.Kind = media.Kind(kind)
			entry.FetchedAt = time.Unix(fetchedAt, 0).UTC()
			entry.Expired = s.expired(entry.FetchedAt)
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry for kind and key. It reports whether an entry existed.
func (s *Store) Remove(ctx context.Context, kind media.Kind, key string) (bool, error) {
	res, err := s.execWithRetry(ctx,
		"DELETE FROM descriptors WHERE kind = ? AND lookup_key = ?", string(kind), normalizeKey(key))
	if err != nil {
		return false, fmt.Errorf("remove cache entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove cache entry: %w", err)
	}
	return affected > 0, nil
}

// RemoveID deletes the entry with the given entry id.
func (s *Store) RemoveID(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM descriptors WHERE id = ?", strings.TrimSpace(id))
	if err != nil {
		return false, fmt.Errorf("remove cache entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove cache entry: %w", err)
	}
	return affected > 0, nil
}

// Clear deletes all entries and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM descriptors")
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries, expired ones included.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM descriptors").Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}

func (s *Store) expired(fetchedAt time.Time) bool {
	return s.ttl > 0 && s.now().Sub(fetchedAt) > s.ttl
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
