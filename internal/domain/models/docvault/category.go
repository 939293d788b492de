package docvault

import (
	"time"
)

// Category is a node in the materialized-path tree. Path and Depth are
// derived from the parent chain and are never client-settable.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"` // unique among siblings only
	Description string    `json:"description" db:"description"`
	ParentID    *int64    `json:"parent_id" db:"parent_id"` // NULL = root
	Path        string    `json:"path" db:"path"`           // "1.5.12"
	Depth       int       `json:"depth" db:"depth"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	URLPath     string    `json:"url_path,omitempty"` // Computed slug chain, not stored in DB
}

// IsRoot reports whether the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// SameParent reports whether two parent references point at the same node
func SameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// PathUpdate is one row of a batched path/depth rewrite
type PathUpdate struct {
	ID    int64
	Path  string
	Depth int
}

// PathChange describes a path/depth correction made (or planned) by a rebuild
type PathChange struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	OldPath  string `json:"old_path"`
	NewPath  string `json:"new_path"`
	OldDepth int    `json:"old_depth"`
	NewDepth int    `json:"new_depth"`
}
