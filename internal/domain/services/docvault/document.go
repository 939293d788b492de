package docvault

import (
	"context"
	"time"

	"docvault/internal/domain/models/docvault"
)

// DocumentStore owns documents and their append-only version chains
type DocumentStore interface {
	// CreateDocument creates a document and, in the same transaction, its version 1
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docvault.Document, error)

	// GetDocument retrieves a document by ID
	GetDocument(ctx context.Context, id int64) (*docvault.Document, error)

	// UpdateDocument updates a document, appending a version when the content changes
	UpdateDocument(ctx context.Context, id int64, req *UpdateDocumentRequest) (*docvault.Document, error)

	// DeleteDocument deletes a document with its versions and changelog
	DeleteDocument(ctx context.Context, id int64) error

	// ListVersions lists versions newest first
	ListVersions(ctx context.Context, documentID int64, limit int) ([]docvault.DocumentVersion, error)

	// GetVersion returns one version with its neighbours, changelog and TOC
	GetVersion(ctx context.Context, documentID int64, number int) (*VersionDetail, error)

	// CompareVersions returns two snapshots and their unified diff
	CompareVersions(ctx context.Context, documentID int64, v1, v2 int) (*VersionComparison, error)

	// GenerateTableOfContents extracts headings from content
	GenerateTableOfContents(content string) []docvault.TOCEntry
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Content    string     `json:"content"`
	CategoryID int64      `json:"category_id"`
	CreatedBy  *string    `json:"-"`                    // Set by handler from auth context
	CreatedAt  *time.Time `json:"created_at,omitempty"` // Backfilled imports only
}

// UpdateDocumentRequest represents a document update request
type UpdateDocumentRequest struct {
	Title      *string `json:"title,omitempty"`
	Slug       *string `json:"slug,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	Content    *string `json:"content,omitempty"`
	UpdatedBy  *string `json:"-"` // Set by handler from auth context
}

// VersionDetail is a version with its prev/next neighbours
type VersionDetail struct {
	Version         *docvault.DocumentVersion `json:"version"`
	Previous        *docvault.DocumentVersion `json:"previous,omitempty"`
	Next            *docvault.DocumentVersion `json:"next,omitempty"`
	Changelog       *docvault.Changelog       `json:"changelog,omitempty"`
	TableOfContents []docvault.TOCEntry       `json:"table_of_contents"`
}

// VersionComparison carries two snapshots for diff rendering
type VersionComparison struct {
	Version1 *docvault.DocumentVersion `json:"version1"`
	Version2 *docvault.DocumentVersion `json:"version2"`
	Diff     string                    `json:"diff"`
}
