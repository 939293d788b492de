package docvault

import (
	"context"

	"docvault/internal/domain/models/docvault"
	"docvault/internal/httputil"
)

// CategoryTree owns category nodes and their materialized paths
type CategoryTree interface {
	// CreateCategory creates a category; path and depth are computed once the ID is assigned
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*docvault.Category, error)

	// GetCategory retrieves a category with its URL path
	GetCategory(ctx context.Context, id int64) (*docvault.Category, error)

	// ListCategories returns the whole forest ordered by path
	ListCategories(ctx context.Context) ([]docvault.Category, error)

	// UpdateCategory renames, re-slugs, re-describes or moves a category
	UpdateCategory(ctx context.Context, id int64, req *UpdateCategoryRequest) (*docvault.Category, error)

	// DeleteCategory deletes a category subtree that owns no documents
	DeleteCategory(ctx context.Context, id int64) error

	// GetAncestors returns the ancestor chain root-first
	GetAncestors(ctx context.Context, category *docvault.Category, includeSelf bool) ([]docvault.Category, error)

	// GetDescendants returns every category below this one, ordered by path
	GetDescendants(ctx context.Context, category *docvault.Category, includeSelf bool) ([]docvault.Category, error)

	// GetSiblings returns categories sharing this category's parent
	GetSiblings(ctx context.Context, category *docvault.Category, includeSelf bool) ([]docvault.Category, error)

	// GetChildren returns immediate children
	GetChildren(ctx context.Context, category *docvault.Category) ([]docvault.Category, error)

	// GetAllDocuments returns documents owned by the category or any descendant
	GetAllDocuments(ctx context.Context, category *docvault.Category) ([]docvault.Document, error)

	// GetByPath resolves a slash-joined slug path ("legal/contracts") to a category
	GetByPath(ctx context.Context, path string) (*docvault.Category, error)

	// GetURLPath builds the slash-joined slug path of a category
	GetURLPath(ctx context.Context, category *docvault.Category) (string, error)

	// MoveTo reparents a category (nil = make root) and rewrites the subtree's paths
	MoveTo(ctx context.Context, id int64, newParentID *int64) (*docvault.Category, error)
}

// TreeMaintenance holds the repair and audit operations run from the maintenance command
type TreeMaintenance interface {
	// RebuildPaths recomputes path/depth for the entire forest from parent references
	RebuildPaths(ctx context.Context, dryRun bool) ([]docvault.PathChange, error)

	// CheckIntegrity lists categories whose stored path/depth disagree with the parent chain
	CheckIntegrity(ctx context.Context) ([]string, error)

	// FixFirstVersionDates back-dates version 1 of each document to the document's created_at
	FixFirstVersionDates(ctx context.Context, dryRun bool) ([]VersionDateFix, error)
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id,omitempty"` // nil for root
}

// UpdateCategoryRequest represents a category update request
type UpdateCategoryRequest struct {
	Name        *string               `json:"name,omitempty"`
	Slug        *string               `json:"slug,omitempty"`
	Description *string               `json:"description,omitempty"`
	ParentID    httputil.OptionalInt64 `json:"parent_id"` // absent = keep, null = make root
}

// MoveCategoryRequest represents an explicit move request
type MoveCategoryRequest struct {
	ParentID *int64 `json:"parent_id"`
}

// VersionDateFix records one version 1 back-dating
type VersionDateFix struct {
	DocumentID int64  `json:"document_id"`
	Title      string `json:"title"`
	VersionID  int64  `json:"version_id"`
	OldDate    string `json:"old_date"`
	NewDate    string `json:"new_date"`
}
