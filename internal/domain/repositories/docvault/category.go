package docvault

import (
	"context"

	"docvault/internal/domain/models/docvault"
)

// CategoryRepository is the persistence collaborator for the category tree.
// It offers point, batch and prefix lookups plus an atomic batched path rewrite.
type CategoryRepository interface {
	// Create inserts a category and assigns its ID. Path and depth are written
	// separately once the ID is known.
	Create(ctx context.Context, category *docvault.Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id int64) (*docvault.Category, error)

	// GetByIDs retrieves all categories with the given IDs in one lookup, ordered by depth
	GetByIDs(ctx context.Context, ids []int64) ([]docvault.Category, error)

	// ListByPathPrefix returns the category with the given path and every
	// category whose path starts with prefix + ".", ordered by path
	ListByPathPrefix(ctx context.Context, prefix string) ([]docvault.Category, error)

	// ListChildren lists immediate children; nil parentID lists roots
	ListChildren(ctx context.Context, parentID *int64) ([]docvault.Category, error)

	// ListBySlugs returns every category whose slug is in slugs, ordered by depth then ID
	ListBySlugs(ctx context.Context, slugs []string) ([]docvault.Category, error)

	// GetAll returns the whole forest ordered by depth then ID
	GetAll(ctx context.Context) ([]docvault.Category, error)

	// Update writes name, slug, description and parent
	Update(ctx context.Context, category *docvault.Category) error

	// UpdatePaths rewrites path and depth for a batch of categories in one statement
	UpdatePaths(ctx context.Context, updates []docvault.PathUpdate) error

	// DeleteByIDs deletes the given categories
	DeleteByIDs(ctx context.Context, ids []int64) error
}
