package config

const (
	// MaxCategoryNameLength is the maximum length for category names.
	MaxCategoryNameLength = 100

	// MaxCategorySlugLength is the maximum length for a single category slug.
	MaxCategorySlugLength = 100

	// MaxDocumentTitleLength is the maximum length for document titles.
	MaxDocumentTitleLength = 200

	// MaxDocumentSlugLength is the maximum length for document slugs.
	MaxDocumentSlugLength = 200

	// MaxURLPathLength is the maximum length of a slash-joined content path.
	// Longer paths indicate overly deep hierarchies (anti-pattern).
	MaxURLPathLength = 500

	// RecentVersionsLimit is how many versions a document view carries.
	RecentVersionsLimit = 5

	// RecentChangesLimit is how many changelog entries a document view carries.
	RecentChangesLimit = 5

	// VersionHistoryLimit caps the version history listing.
	VersionHistoryLimit = 15

	// ChangelogFeedLimit caps the global and per-document changelog feeds.
	ChangelogFeedLimit = 20

	// MaxRequestBodyBytes bounds JSON request bodies. Documents are stored
	// whole, so this is also the practical ceiling on document content.
	MaxRequestBodyBytes = 5 << 20
)
