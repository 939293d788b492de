package docvault

import (
	"context"

	"docvault/internal/domain/models/docvault"
)

// ChangelogService records and lists documented changes
type ChangelogService interface {
	CreateChangelog(ctx context.Context, documentID int64, req *CreateChangelogRequest) (*docvault.Changelog, error)
	ListDocumentChangelog(ctx context.Context, documentID int64, limit int) ([]docvault.Changelog, error)
	ListGlobalChangelog(ctx context.Context, limit int) ([]docvault.Changelog, error)
}

// CreateChangelogRequest represents a changelog creation request
type CreateChangelogRequest struct {
	Description   string              `json:"description"`
	Importance    docvault.Importance `json:"importance,omitempty"` // default NORMAL
	ShowInGlobal  bool                `json:"show_in_global"`
	VersionNumber *int                `json:"version_number,omitempty"`
	CreatedBy     *string             `json:"-"`
}
