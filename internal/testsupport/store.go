package testsupport

import (
	"testing"
	"time"

	"gamelxrd/internal/catalogcache"
	"gamelxrd/internal/config"
)

// MustOpenCache opens the descriptor cache configured in cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *catalogcache.Store {
	t.Helper()

	store, err := catalogcache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	if err != nil {
		t.Fatalf("catalogcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
