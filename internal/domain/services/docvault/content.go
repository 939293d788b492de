package docvault

import (
	"context"

	"docvault/internal/domain/models/docvault"
)

// ContentService builds fully resolved view models for the content tree
type ContentService interface {
	Home(ctx context.Context) (*HomeView, error)
	CategoryView(ctx context.Context, path string) (*CategoryView, error)
	DocumentView(ctx context.Context, path string) (*DocumentView, error)
	VersionHistory(ctx context.Context, path string) (*VersionHistoryView, error)
	VersionView(ctx context.Context, path string, number int) (*VersionView, error)
	ChangelogView(ctx context.Context, path string) (*ChangelogView, error)
	CompareView(ctx context.Context, path string, req *CompareRequest) (*CompareView, error)
}

// ContentFormatter renders stored content for display. Chosen by editor backend;
// the core never inspects its output.
type ContentFormatter interface {
	Format(content string) string
	Name() string
}

// CompareRequest carries the v1/v2/select query parameters
type CompareRequest struct {
	V1     *int
	V2     *int
	Select bool
}

// CategoryNode is a category with listing counts
type CategoryNode struct {
	docvault.Category
	ChildCount    int `json:"child_count"`
	DocumentCount int `json:"document_count"`
}

// Trail is the shared header of every content view
type Trail struct {
	Category    *docvault.Category  `json:"category"`
	Breadcrumbs []docvault.Category `json:"breadcrumbs"`
	Siblings    []docvault.Category `json:"siblings"`
}

type HomeView struct {
	Categories []CategoryNode `json:"categories"`
}

type CategoryView struct {
	Trail
	Children  []CategoryNode      `json:"children"`
	Documents []docvault.Document `json:"documents"`
}

type DocumentView struct {
	Trail
	Document        *docvault.Document         `json:"document"`
	RenderedContent string                     `json:"rendered_content"`
	TableOfContents []docvault.TOCEntry        `json:"table_of_contents"`
	RecentVersions  []docvault.DocumentVersion `json:"recent_versions"`
	RecentChanges   []docvault.Changelog       `json:"recent_changes"`
}

type VersionHistoryView struct {
	Trail
	Document *docvault.Document         `json:"document"`
	Versions []docvault.DocumentVersion `json:"versions"`
}

type VersionView struct {
	Trail
	Document        *docvault.Document `json:"document"`
	RenderedContent string             `json:"rendered_content"`
	VersionDetail
}

type ChangelogView struct {
	Trail
	Document   *docvault.Document   `json:"document"`
	Changelogs []docvault.Changelog `json:"changelogs"`
}

// CompareView is in "select" mode (Versions set) or "diff" mode (Comparison set)
type CompareView struct {
	Trail
	Document   *docvault.Document         `json:"document"`
	Mode       string                     `json:"compare_mode"`
	Versions   []docvault.DocumentVersion `json:"versions,omitempty"`
	Comparison *VersionComparison         `json:"comparison,omitempty"`
}

const (
	CompareModeSelect = "select"
	CompareModeDiff   = "diff"
)
