package docvault

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/repositories"
	models "docvault/internal/domain/models/docvault"
	repos "docvault/internal/domain/repositories/docvault"
	"docvault/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const versionColumns = `id, document_id, content, version_number, created_by, created_at`

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *postgres.RepositoryConfig) repos.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create appends a version. created_at is taken from the struct when set so
// version 1 can carry the document's creation instant exactly.
func (r *PostgresVersionRepository) Create(ctx context.Context, v *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, content, version_number, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Versions)

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		v.DocumentID,
		v.Content,
		v.VersionNumber,
		v.CreatedBy,
		v.CreatedAt,
	).Scan(&v.ID, &v.CreatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d already exists", v.VersionNumber),
				ResourceType: "document_version",
				ResourceID:   fmt.Sprint(v.DocumentID),
			}
		}
		return fmt.Errorf("create version: %w", err)
	}
	return nil
}

// LatestNumber returns the highest version number, 0 when the chain is empty.
// Inside a transaction the document row is locked so concurrent appends serialize.
func (r *PostgresVersionRepository) LatestNumber(ctx context.Context, documentID int64) (int, error) {
	executor := postgres.GetExecutor(ctx, r.pool)

	if repositories.InTx(ctx) {
		lock := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, r.tables.Documents)
		var id int64
		if err := executor.QueryRow(ctx, lock, documentID).Scan(&id); err != nil {
			if postgres.IsPgNoRowsError(err) {
				return 0, fmt.Errorf("document %d: %w", documentID, domain.ErrNotFound)
			}
			return 0, fmt.Errorf("lock document: %w", err)
		}
	}

	query := fmt.Sprintf(`SELECT COALESCE(MAX(version_number), 0) FROM %s WHERE document_id = $1`, r.tables.Versions)
	var latest int
	if err := executor.QueryRow(ctx, query, documentID).Scan(&latest); err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	return latest, nil
}

// GetByNumber retrieves one version of a document
func (r *PostgresVersionRepository) GetByNumber(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE document_id = $1 AND version_number = $2`,
		versionColumns, r.tables.Versions)
	return r.getOne(ctx, query, documentID, number)
}

// GetPrevious returns the closest lower version
func (r *PostgresVersionRepository) GetPrevious(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND version_number < $2
		ORDER BY version_number DESC
		LIMIT 1
	`, versionColumns, r.tables.Versions)
	return r.getOne(ctx, query, documentID, number)
}

// GetNext returns the closest higher version
func (r *PostgresVersionRepository) GetNext(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND version_number > $2
		ORDER BY version_number ASC
		LIMIT 1
	`, versionColumns, r.tables.Versions)
	return r.getOne(ctx, query, documentID, number)
}

// ListByDocument lists versions newest first
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID int64, limit int) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1
		ORDER BY version_number DESC
	`, versionColumns, r.tables.Versions)
	args := []any{documentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	versions := []models.DocumentVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// SetCreatedAt back-dates a version
func (r *PostgresVersionRepository) SetCreatedAt(ctx context.Context, id int64, createdAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET created_at = $1 WHERE id = $2`, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, createdAt, id)
	if err != nil {
		return fmt.Errorf("set version date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("version %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresVersionRepository) getOne(ctx context.Context, query string, args ...any) (*models.DocumentVersion, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	v, err := scanVersion(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func scanVersion(row pgx.Row) (*models.DocumentVersion, error) {
	var v models.DocumentVersion
	if err := row.Scan(&v.ID, &v.DocumentID, &v.Content, &v.VersionNumber, &v.CreatedBy, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
