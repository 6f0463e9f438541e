package catalogcache

import (
	"context"
	_ "embed"
	"fmt"

	"gamelxrd/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is kept in PRAGMA user_version. Version 1 tracked it in a
// schema_version table. Bump it whenever schema.sql changes.
const schemaVersion = 2

// legacyTables lists every table an older cache layout may have left behind.
var legacyTables = []string{"descriptors", "schema_version"}

// initSchema brings the database to schemaVersion. Cached descriptors can
// always be fetched again, so a cache at any other version is dropped and
// rebuilt instead of migrated.
func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read cache version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	var stale int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name IN ('descriptors', 'schema_version')",
	).Scan(&stale); err != nil {
		return fmt.Errorf("inspect cache tables: %w", err)
	}
	if stale > 0 {
		logging.WarnWithContext(s.logger, "rebuilding catalog cache", "cache_schema_reset",
			logging.String("path", s.path),
			logging.Int("found_version", version),
			logging.Int("schema_version", schemaVersion),
			logging.Impact("cached descriptors are fetched again on next lookup"),
		)
	}
	return s.rebuildSchema(ctx)
}

func (s *Store) rebuildSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range legacyTables {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("record cache version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache rebuild: %w", err)
	}
	return nil
}
