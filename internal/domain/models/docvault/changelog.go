package docvault

import (
	"time"
)

// Importance controls whether a changelog entry shows in the global feed
type Importance string

const (
	ImportanceMinor  Importance = "MINOR"
	ImportanceNormal Importance = "NORMAL"
	ImportanceMajor  Importance = "MAJOR"
)

// Valid reports whether the value is one of the known importance levels
func (i Importance) Valid() bool {
	switch i {
	case ImportanceMinor, ImportanceNormal, ImportanceMajor:
		return true
	}
	return false
}

type Changelog struct {
	ID           int64      `json:"id" db:"id"`
	DocumentID   int64      `json:"document_id" db:"document_id"`
	Description  string     `json:"description" db:"description"`
	Importance   Importance `json:"importance" db:"importance"`
	ShowInGlobal bool       `json:"show_in_global" db:"show_in_global"`
	CreatedBy    *string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	VersionID    *int64     `json:"version_id,omitempty" db:"version_id"` // NULL when the version is gone
	// Populated by services for feeds
	VersionNumber *int      `json:"version_number,omitempty"`
	Document      *Document `json:"document,omitempty"`
}

// InGlobalFeed reports whether the entry belongs in the global changelog
func (c *Changelog) InGlobalFeed() bool {
	return c.Importance == ImportanceMajor || c.ShowInGlobal
}
