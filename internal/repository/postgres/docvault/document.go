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

const documentColumns = `id, category_id, title, slug, content, created_by, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) repos.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (category_id, title, slug, content, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.CategoryID,
		doc.Title,
		doc.Slug,
		doc.Content,
		doc.CreatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return translateDocumentError(err, doc.Slug)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// GetBySlug retrieves a document by slug within a category
func (r *PostgresDocumentRepository) GetBySlug(ctx context.Context, categoryID int64, slug string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE category_id = $1 AND slug = $2`,
		documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, categoryID, slug))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %q: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document by slug: %w", err)
	}
	return doc, nil
}

// ListByCategories lists documents in any of the categories, newest update first
func (r *PostgresDocumentRepository) ListByCategories(ctx context.Context, categoryIDs []int64) ([]models.Document, error) {
	if len(categoryIDs) == 0 {
		return []models.Document{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE category_id = ANY($1)
		ORDER BY updated_at DESC, id DESC
	`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// CountByCategories counts documents owned by any of the categories
func (r *PostgresDocumentRepository) CountByCategories(ctx context.Context, categoryIDs []int64) (int, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE category_id = ANY($1)`, r.tables.Documents)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, categoryIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// GetAllMetadata returns every document without content, for the tree index
func (r *PostgresDocumentRepository) GetAllMetadata(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, category_id, title, slug, created_by, created_at, updated_at
		FROM %s
		ORDER BY category_id, slug
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get document metadata: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.Title, &d.Slug, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document metadata: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Update writes title, slug, category and content
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET category_id = $1, title = $2, slug = $3, content = $4, updated_at = $5
		WHERE id = $6
		RETURNING updated_at
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.CategoryID,
		doc.Title,
		doc.Slug,
		doc.Content,
		time.Now(),
		doc.ID,
	).Scan(&doc.UpdatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return fmt.Errorf("document %d: %w", doc.ID, domain.ErrNotFound)
		}
		return translateDocumentError(err, doc.Slug)
	}
	return nil
}

// Delete deletes a document; versions and changelog entries cascade
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	err := row.Scan(
		&d.ID,
		&d.CategoryID,
		&d.Title,
		&d.Slug,
		&d.Content,
		&d.CreatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func translateDocumentError(err error, slug string) error {
	if postgres.IsPgDuplicateError(err) {
		return domain.NewValidation("slug", "a document with slug %q already exists in this category", slug)
	}
	if postgres.IsPgForeignKeyError(err) {
		return fmt.Errorf("category: %w", domain.ErrNotFound)
	}
	return fmt.Errorf("write document: %w", err)
}
