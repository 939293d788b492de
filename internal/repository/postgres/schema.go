package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates tables and indexes if they don't exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	p := tables.Prefix

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Categories + ` (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			slug VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			parent_id BIGINT REFERENCES ` + tables.Categories + `(id) ON DELETE CASCADE,
			path VARCHAR(500) NOT NULL DEFAULT '',
			depth INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + p + `categories_parent_slug_key UNIQUE (parent_id, slug)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id BIGSERIAL PRIMARY KEY,
			category_id BIGINT NOT NULL REFERENCES ` + tables.Categories + `(id) ON DELETE RESTRICT,
			title VARCHAR(200) NOT NULL,
			slug VARCHAR(200) NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + p + `documents_category_slug_key UNIQUE (category_id, slug)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Versions + ` (
			id BIGSERIAL PRIMARY KEY,
			document_id BIGINT NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			version_number INTEGER NOT NULL CHECK (version_number >= 1),
			created_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + p + `document_versions_number_key UNIQUE (document_id, version_number)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Changelogs + ` (
			id BIGSERIAL PRIMARY KEY,
			document_id BIGINT NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			version_id BIGINT REFERENCES ` + tables.Versions + `(id) ON DELETE SET NULL,
			description TEXT NOT NULL,
			importance VARCHAR(10) NOT NULL DEFAULT 'NORMAL',
			show_in_global BOOLEAN NOT NULL DEFAULT FALSE,
			created_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// UNIQUE (parent_id, slug) treats NULL parents as distinct, roots need their own index
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + p + `categories_root_slug ON ` + tables.Categories + `(slug) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + p + `categories_path ON ` + tables.Categories + `(path text_pattern_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p + `categories_slug ON ` + tables.Categories + `(slug)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p + `categories_depth ON ` + tables.Categories + `(depth)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p + `documents_updated ON ` + tables.Documents + `(updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p + `changelogs_document ON ` + tables.Changelogs + `(document_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + p + `changelogs_global ON ` + tables.Changelogs + `(created_at DESC) WHERE importance = 'MAJOR' OR show_in_global`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops all tables in reverse dependency order
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}
