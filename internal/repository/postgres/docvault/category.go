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

const categoryColumns = `id, name, slug, description, parent_id, path, depth, created_at, updated_at`

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *postgres.RepositoryConfig) repos.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts the row with an empty path; the caller writes path/depth once ID is known
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug, description, parent_id, path, depth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Categories)

	now := time.Now()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
		category.ParentID,
		category.Path,
		category.Depth,
		now,
		now,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return translateCategoryError(err, category.Slug)
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, categoryColumns, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	category, err := scanCategory(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// GetByIDs retrieves categories in one round trip, ordered by depth
func (r *PostgresCategoryRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = ANY($1)
		ORDER BY depth, id
	`, categoryColumns, r.tables.Categories)

	return r.queryCategories(ctx, "get categories by ids", query, ids)
}

// ListByPathPrefix returns the subtree rooted at prefix. The dot keeps "1.5"
// from matching "1.50".
func (r *PostgresCategoryRepository) ListByPathPrefix(ctx context.Context, prefix string) ([]models.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE path = $1 OR path LIKE $2
		ORDER BY path
	`, categoryColumns, r.tables.Categories)

	return r.queryCategories(ctx, "list by path prefix", query, prefix, likeEscape(prefix)+".%")
}

// ListChildren lists immediate children ordered by name; nil lists roots
func (r *PostgresCategoryRepository) ListChildren(ctx context.Context, parentID *int64) ([]models.Category, error) {
	if parentID == nil {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id IS NULL ORDER BY name, id`,
			categoryColumns, r.tables.Categories)
		return r.queryCategories(ctx, "list root categories", query)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 ORDER BY name, id`,
		categoryColumns, r.tables.Categories)
	return r.queryCategories(ctx, "list child categories", query, *parentID)
}

// ListBySlugs returns every candidate for a slug path in one query
func (r *PostgresCategoryRepository) ListBySlugs(ctx context.Context, slugs []string) ([]models.Category, error) {
	if len(slugs) == 0 {
		return []models.Category{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE slug = ANY($1)
		ORDER BY depth, id
	`, categoryColumns, r.tables.Categories)

	return r.queryCategories(ctx, "list by slugs", query, slugs)
}

// GetAll returns the whole forest ordered by depth then ID
func (r *PostgresCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY depth, id`, categoryColumns, r.tables.Categories)
	return r.queryCategories(ctx, "get all categories", query)
}

// Update writes the mutable fields. Path and depth go through UpdatePaths.
func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, slug = $2, description = $3, parent_id = $4, updated_at = $5
		WHERE id = $6
		RETURNING updated_at
	`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
		category.ParentID,
		time.Now(),
		category.ID,
	).Scan(&category.UpdatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return fmt.Errorf("category %d: %w", category.ID, domain.ErrNotFound)
		}
		return translateCategoryError(err, category.Slug)
	}
	return nil
}

// UpdatePaths applies a batched path/depth rewrite in a single statement
func (r *PostgresCategoryRepository) UpdatePaths(ctx context.Context, updates []models.PathUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	ids := make([]int64, len(updates))
	paths := make([]string, len(updates))
	depths := make([]int32, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
		paths[i] = u.Path
		depths[i] = int32(u.Depth)
	}

	query := fmt.Sprintf(`
		UPDATE %s AS c
		SET path = u.path, depth = u.depth, updated_at = NOW()
		FROM (
			SELECT unnest($1::bigint[]) AS id, unnest($2::text[]) AS path, unnest($3::int[]) AS depth
		) AS u
		WHERE c.id = u.id
	`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, ids, paths, depths)
	if err != nil {
		return fmt.Errorf("update paths: %w", err)
	}
	if err := checkPathRewrite(tag.RowsAffected(), updates); err != nil {
		r.logger.Error("path rewrite touched fewer rows than requested",
			"requested", len(updates),
			"affected", tag.RowsAffected(),
		)
		return err
	}
	return nil
}

// checkPathRewrite fails a partial rewrite so the surrounding transaction rolls back
func checkPathRewrite(affected int64, updates []models.PathUpdate) error {
	if affected == int64(len(updates)) {
		return nil
	}
	return &domain.IntegrityError{Violations: []string{
		fmt.Sprintf("path rewrite updated %d of %d categories", affected, len(updates)),
	}}
}

// DeleteByIDs deletes categories; RESTRICT on documents blocks owned subtrees
func (r *PostgresCategoryRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, ids); err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "category still owns documents",
				ResourceType: "category",
			}
		}
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}

func (r *PostgresCategoryRepository) queryCategories(ctx context.Context, op, query string, args ...any) ([]models.Category, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.ParentID,
		&c.Path,
		&c.Depth,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func translateCategoryError(err error, slug string) error {
	if postgres.IsPgDuplicateError(err) {
		return domain.NewValidation("slug", "a category with slug %q already exists under this parent", slug)
	}
	if postgres.IsPgForeignKeyError(err) {
		return fmt.Errorf("parent category: %w", domain.ErrNotFound)
	}
	return fmt.Errorf("write category: %w", err)
}
