// Package catalogcache persists resolved media descriptors in SQLite so
// repeated quotes for the same title skip the upstream catalogs.
//
// Entries are keyed by media kind plus the catalog key (TMDB id or RAWG
// slug) and carry the descriptor JSON, the fetch time and a random entry id.
// Lookups older than the configured TTL count as misses. The database runs
// in WAL mode and retries briefly when another process holds the lock.
package catalogcache
