package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the document table and its indexes if they do not
// exist. The partial unique index on (owner_id, lower(category)) for
// placeholder rows makes the store the arbiter when two callers create
// the same folder concurrently: the second insert fails with a unique
// violation.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				file_name TEXT NOT NULL DEFAULT '',
				file_type TEXT NOT NULL DEFAULT '',
				file_size BIGINT NOT NULL DEFAULT 0,
				content_key TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT 'General',
				tags TEXT[] NOT NULL DEFAULT '{}',
				status TEXT NOT NULL DEFAULT 'draft',
				starred BOOLEAN NOT NULL DEFAULT FALSE,
				is_folder_placeholder BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Documents),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_owner_category_idx
			ON %s (owner_id, lower(category))
		`, tables.Documents, tables.Documents),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %s_owner_placeholder_idx
			ON %s (owner_id, lower(category))
			WHERE is_folder_placeholder
		`, tables.Documents, tables.Documents),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
