package docvault

import (
	"context"
	"time"

	"docvault/internal/domain/models/docvault"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create inserts a document, honouring a preset CreatedAt
	Create(ctx context.Context, doc *docvault.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id int64) (*docvault.Document, error)

	// GetBySlug retrieves a document by its slug within a category
	GetBySlug(ctx context.Context, categoryID int64, slug string) (*docvault.Document, error)

	// ListByCategories lists documents owned by any of the categories, newest update first
	ListByCategories(ctx context.Context, categoryIDs []int64) ([]docvault.Document, error)

	// CountByCategories counts documents owned by any of the categories
	CountByCategories(ctx context.Context, categoryIDs []int64) (int, error)

	// GetAllMetadata returns every document without content
	GetAllMetadata(ctx context.Context) ([]docvault.Document, error)

	// Update writes title, slug, category, content and updated_at
	Update(ctx context.Context, doc *docvault.Document) error

	// Delete deletes a document and, through ownership, its versions and changelog
	Delete(ctx context.Context, id int64) error
}

// VersionRepository is the append-only version chain store
type VersionRepository interface {
	// Create appends a version; (document, version_number) must be unique
	Create(ctx context.Context, version *docvault.DocumentVersion) error

	// LatestNumber returns the highest version number for a document, 0 if none
	LatestNumber(ctx context.Context, documentID int64) (int, error)

	// GetByNumber retrieves one version of a document
	GetByNumber(ctx context.Context, documentID int64, number int) (*docvault.DocumentVersion, error)

	// GetPrevious returns the highest version strictly below number
	GetPrevious(ctx context.Context, documentID int64, number int) (*docvault.DocumentVersion, error)

	// GetNext returns the lowest version strictly above number
	GetNext(ctx context.Context, documentID int64, number int) (*docvault.DocumentVersion, error)

	// ListByDocument lists versions newest first; limit <= 0 means no limit
	ListByDocument(ctx context.Context, documentID int64, limit int) ([]docvault.DocumentVersion, error)

	// SetCreatedAt back-dates a version. Only used for the version 1 correction.
	SetCreatedAt(ctx context.Context, id int64, createdAt time.Time) error
}

// ChangelogRepository stores changelog entries
type ChangelogRepository interface {
	Create(ctx context.Context, entry *docvault.Changelog) error

	// ListByDocument lists a document's entries newest first
	ListByDocument(ctx context.Context, documentID int64, limit int) ([]docvault.Changelog, error)

	// ListGlobal lists MAJOR or show_in_global entries newest first
	ListGlobal(ctx context.Context, limit int) ([]docvault.Changelog, error)

	// GetByVersion returns the entry documenting a version
	GetByVersion(ctx context.Context, versionID int64) (*docvault.Changelog, error)
}
