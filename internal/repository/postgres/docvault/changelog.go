package docvault

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	repos "docvault/internal/domain/repositories/docvault"
	"docvault/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChangelogRepository implements the ChangelogRepository interface
type PostgresChangelogRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewChangelogRepository creates a new changelog repository
func NewChangelogRepository(config *postgres.RepositoryConfig) repos.ChangelogRepository {
	return &PostgresChangelogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a changelog entry
func (r *PostgresChangelogRepository) Create(ctx context.Context, entry *models.Changelog) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, version_id, description, importance, show_in_global, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Changelogs)

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.DocumentID,
		entry.VersionID,
		entry.Description,
		string(entry.Importance),
		entry.ShowInGlobal,
		entry.CreatedBy,
		entry.CreatedAt,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("document %d: %w", entry.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create changelog: %w", err)
	}
	return nil
}

// ListByDocument lists a document's entries newest first
func (r *PostgresChangelogRepository) ListByDocument(ctx context.Context, documentID int64, limit int) ([]models.Changelog, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.document_id, c.version_id, v.version_number, c.description,
		       c.importance, c.show_in_global, c.created_by, c.created_at
		FROM %s c
		LEFT JOIN %s v ON v.id = c.version_id
		WHERE c.document_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`, r.tables.Changelogs, r.tables.Versions)
	args := []any{documentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

// ListGlobal lists entries that belong in the global feed, joined with their document
func (r *PostgresChangelogRepository) ListGlobal(ctx context.Context, limit int) ([]models.Changelog, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.document_id, c.version_id, v.version_number, c.description,
		       c.importance, c.show_in_global, c.created_by, c.created_at,
		       d.category_id, d.title, d.slug
		FROM %s c
		JOIN %s d ON d.id = c.document_id
		LEFT JOIN %s v ON v.id = c.version_id
		WHERE c.importance = 'MAJOR' OR c.show_in_global
		ORDER BY c.created_at DESC, c.id DESC
	`, r.tables.Changelogs, r.tables.Documents, r.tables.Versions)
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list global changelog: %w", err)
	}
	defer rows.Close()

	entries := []models.Changelog{}
	for rows.Next() {
		var (
			c          models.Changelog
			importance string
			doc        models.Document
		)
		err := rows.Scan(
			&c.ID, &c.DocumentID, &c.VersionID, &c.VersionNumber, &c.Description,
			&importance, &c.ShowInGlobal, &c.CreatedBy, &c.CreatedAt,
			&doc.CategoryID, &doc.Title, &doc.Slug,
		)
		if err != nil {
			return nil, fmt.Errorf("scan changelog: %w", err)
		}
		c.Importance = models.Importance(importance)
		doc.ID = c.DocumentID
		c.Document = &doc
		entries = append(entries, c)
	}
	return entries, rows.Err()
}

// GetByVersion returns the entry documenting a version
func (r *PostgresChangelogRepository) GetByVersion(ctx context.Context, versionID int64) (*models.Changelog, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.document_id, c.version_id, v.version_number, c.description,
		       c.importance, c.show_in_global, c.created_by, c.created_at
		FROM %s c
		LEFT JOIN %s v ON v.id = c.version_id
		WHERE c.version_id = $1
		ORDER BY c.created_at DESC
		LIMIT 1
	`, r.tables.Changelogs, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	c, err := scanChangelog(executor.QueryRow(ctx, query, versionID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("changelog for version %d: %w", versionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get changelog: %w", err)
	}
	return c, nil
}

func (r *PostgresChangelogRepository) query(ctx context.Context, query string, args ...any) ([]models.Changelog, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list changelog: %w", err)
	}
	defer rows.Close()

	entries := []models.Changelog{}
	for rows.Next() {
		c, err := scanChangelog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan changelog: %w", err)
		}
		entries = append(entries, *c)
	}
	return entries, rows.Err()
}

func scanChangelog(row pgx.Row) (*models.Changelog, error) {
	var (
		c          models.Changelog
		importance string
	)
	err := row.Scan(
		&c.ID, &c.DocumentID, &c.VersionID, &c.VersionNumber, &c.Description,
		&importance, &c.ShowInGlobal, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Importance = models.Importance(importance)
	return &c, nil
}
