package catalogcache_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gamelxrd/internal/catalogcache"
	"gamelxrd/internal/media"
	"gamelxrd/internal/metrics"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func openStore(t *testing.T, ttl time.Duration, clock *fakeClock, opts ...catalogcache.Option) *catalogcache.Store {
	t.Helper()
	opts = append(opts, catalogcache.WithClock(clock.Now))
	store, err := catalogcache.Open(filepath.Join(t.TempDir(), "cache", "catalog.db"), ttl, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleGame() media.Game {
	return media.Game{
		Slug:         "hades",
		Title:        "Hades",
		ReleaseYear:  2020,
		Genres:       []string{"action", "indie"},
		Tags:         []string{"roguelike"},
		Rating:       media.Rating(9.3),
		SteamAppID:   1145360,
		HLTBHours:    22,
		Developers:   []string{"Supergiant Games"},
		Publishers:   []string{"Supergiant Games"},
		RatingsCount: 4100,
		Metacritic:   93,
	}
}

func sampleMovie() media.Movie {
	return media.Movie{
		TMDBID:         603,
		IMDbID:         "tt0133093",
		Title:          "The Matrix",
		Year:           1999,
		RuntimeMinutes: 136,
		IMDbRating:     media.Rating(8.7),
		Countries:      []string{"United States of America"},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := openStore(t, time.Hour, clock)
	ctx := context.Background()

	game := sampleGame()
	if err := store.Put(ctx, game.Slug, game); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, media.KindGame, "  HADES ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if diff := cmp.Diff(game, got); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}

	if _, ok, err := store.Get(ctx, media.KindMovie, "hades"); err != nil || ok {
		t.Fatalf("expected miss for other kind, ok=%v err=%v", ok, err)
	}
}

func TestGetHonoursTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	reg := metrics.NewRegistry()
	store := openStore(t, time.Hour, clock, catalogcache.WithMetrics(reg))
	ctx := context.Background()

	movie := sampleMovie()
	if err := store.Put(ctx, "603", movie); err != nil {
		t.Fatalf("Put: %v", err)
	}

	clock.now = clock.now.Add(59 * time.Minute)
	if _, ok, _ := store.Get(ctx, media.KindMovie, "603"); !ok {
		t.Fatal("expected hit inside ttl")
	}

	clock.now = clock.now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, media.KindMovie, "603"); ok {
		t.Fatal("expected expired entry to miss")
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || !entries[0].Expired {
		t.Fatalf("expected one expired entry, got %+v", entries)
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := openStore(t, 0, clock)
	ctx := context.Background()
	if err := store.Put(ctx, "hades", sampleGame()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	clock.now = clock.now.AddDate(1, 0, 0)
	if _, ok, _ := store.Get(ctx, media.KindGame, "hades"); !ok {
		t.Fatal("expected entry to survive with zero ttl")
	}
}

func TestPutUpsertsAndKeepsEntryID(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := openStore(t, 0, clock)
	ctx := context.Background()

	game := sampleGame()
	if err := store.Put(ctx, game.Slug, game); err != nil {
		t.Fatalf("Put: %v", err)
	}
	first, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	clock.now = clock.now.Add(time.Hour)
	game.Title = "Hades (Remastered)"
	if err := store.Put(ctx, game.Slug, game); err != nil {
		t.Fatalf("Put again: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected upsert to keep one entry, got %d", len(entries))
	}
	if entries[0].ID != first[0].ID {
		t.Fatalf("expected entry id to survive upsert: %q vs %q", entries[0].ID, first[0].ID)
	}
	if entries[0].Title != "Hades (Remastered) (2020)" {
		t.Fatalf("unexpected title %q", entries[0].Title)
	}
	if !entries[0].FetchedAt.Equal(clock.now) {
		t.Fatalf("expected refreshed fetch time, got %v", entries[0].FetchedAt)
	}
}

func TestRemoveClearCount(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := openStore(t, 0, clock)
	ctx := context.Background()

	if err := store.Put(ctx, "hades", sampleGame()); err != nil {
		t.Fatalf("Put game: %v", err)
	}
	if err := store.Put(ctx, "603", sampleMovie()); err != nil {
		t.Fatalf("Put movie: %v", err)
	}

	if count, err := store.Count(ctx); err != nil || count != 2 {
		t.Fatalf("Count = %d, %v; want 2", count, err)
	}

	removed, err := store.Remove(ctx, media.KindGame, "hades")
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	removed, err = store.Remove(ctx, media.KindGame, "hades")
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v; want false", removed, err)
	}

	entries, err := store.List(ctx)
	if err != nil || len(entries) != 1 {
		t.Fatalf("List = %v, %v", entries, err)
	}
	if removed, err := store.RemoveID(ctx, entries[0].ID); err != nil || !removed {
		t.Fatalf("RemoveID = %v, %v", removed, err)
	}

	if err := store.Put(ctx, "603", sampleMovie()); err != nil {
		t.Fatalf("Put movie: %v", err)
	}
	cleared, err := store.Clear(ctx)
	if err != nil || cleared != 1 {
		t.Fatalf("Clear = %d, %v; want 1", cleared, err)
	}
	if count, _ := store.Count(ctx); count != 0 {
		t.Fatalf("expected empty cache, got %d", count)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalogcache.Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Put(context.Background(), "hades", sampleGame()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := catalogcache.Open(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Get(context.Background(), media.KindGame, "hades"); err != nil || !ok {
		t.Fatalf("expected persisted entry, ok=%v err=%v", ok, err)
	}
}

func TestOpenRebuildsOutdatedCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	// Version 1 layout: version table plus a descriptors table without the index.
	for _, stmt := range []string{
		"CREATE TABLE schema_version (version INTEGER NOT NULL)",
		"INSERT INTO schema_version (version) VALUES (1)",
		"CREATE TABLE descriptors (id TEXT PRIMARY KEY, kind TEXT NOT NULL, lookup_key TEXT NOT NULL, payload TEXT NOT NULL)",
		"INSERT INTO descriptors (id, kind, lookup_key, payload) VALUES ('x', 'game', 'hades', '{}')",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed legacy cache: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	store, err := catalogcache.Open(path, 0)
	if err != nil {
		t.Fatalf("Open over legacy cache: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	if count, err := store.Count(ctx); err != nil || count != 0 {
		t.Fatalf("expected rebuilt empty cache, got %d, %v", count, err)
	}
	if err := store.Put(ctx, "hades", sampleGame()); err != nil {
		t.Fatalf("Put after rebuild: %v", err)
	}
	if _, ok, err := store.Get(ctx, media.KindGame, "hades"); err != nil || !ok {
		t.Fatalf("expected entry after rebuild, ok=%v err=%v", ok, err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := catalogcache.Open(" ", time.Hour); err == nil {
		t.Fatal("expected error for empty path")
	}
}
