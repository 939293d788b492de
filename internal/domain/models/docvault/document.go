package docvault

import (
	"time"
)

type Document struct {
	ID         int64     `json:"id" db:"id"`
	CategoryID int64     `json:"category_id" db:"category_id"`
	Title      string    `json:"title" db:"title"`
	Slug       string    `json:"slug" db:"slug"` // unique within the category
	Content    string    `json:"content,omitempty" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy  *string   `json:"created_by,omitempty" db:"created_by"`
	URLPath    string    `json:"url_path,omitempty"` // Computed "category/path/slug", not stored in DB
}

// DocumentVersion is an immutable content snapshot in a document's version chain
type DocumentVersion struct {
	ID            int64     `json:"id" db:"id"`
	DocumentID    int64     `json:"document_id" db:"document_id"`
	Content       string    `json:"content" db:"content"`
	VersionNumber int       `json:"version_number" db:"version_number"` // 1-based, gapless
	CreatedBy     *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TOCEntry is one heading extracted from document content
type TOCEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}
