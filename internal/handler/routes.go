package handler

import "net/http"

// Handlers groups every HTTP handler the server mounts
type Handlers struct {
	Health     *HealthHandler
	Categories *CategoryHandler
	Documents  *DocumentHandler
	Changelogs *ChangelogHandler
	Resolve    *ResolveHandler
	Content    *ContentHandler
}

// Register mounts the routes (Go 1.22+ method and wildcard patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Category routes
	mux.HandleFunc("GET /api/categories", h.Categories.ListCategories)
	mux.HandleFunc("POST /api/categories", h.Categories.CreateCategory)
	mux.HandleFunc("GET /api/categories/by-path", h.Categories.GetByPath) // literal segment beats {id}
	mux.HandleFunc("GET /api/categories/{id}", h.Categories.GetCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", h.Categories.UpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.Categories.DeleteCategory)
	mux.HandleFunc("POST /api/categories/{id}/move", h.Categories.MoveCategory)
	mux.HandleFunc("GET /api/categories/{id}/ancestors", h.Categories.GetAncestors)
	mux.HandleFunc("GET /api/categories/{id}/descendants", h.Categories.GetDescendants)
	mux.HandleFunc("GET /api/categories/{id}/siblings", h.Categories.GetSiblings)
	mux.HandleFunc("GET /api/categories/{id}/children", h.Categories.GetChildren)
	mux.HandleFunc("GET /api/categories/{id}/documents", h.Categories.GetDocuments)

	// Document routes
	mux.HandleFunc("POST /api/documents", h.Documents.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.Documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.DeleteDocument)
	mux.HandleFunc("GET /api/documents/{id}/versions", h.Documents.ListVersions)
	mux.HandleFunc("GET /api/documents/{id}/versions/{number}", h.Documents.GetVersion)
	mux.HandleFunc("GET /api/documents/{id}/compare", h.Documents.CompareVersions)
	mux.HandleFunc("GET /api/documents/{id}/toc", h.Documents.GetTableOfContents)
	mux.HandleFunc("GET /api/documents/{id}/export", h.Documents.ExportDocument)

	// Changelog routes
	mux.HandleFunc("GET /api/documents/{id}/changelog", h.Changelogs.ListDocumentChangelog)
	mux.HandleFunc("POST /api/documents/{id}/changelog", h.Changelogs.CreateChangelog)
	mux.HandleFunc("GET /api/changelog", h.Changelogs.ListGlobalChangelog)

	// Resolver and content tree
	mux.HandleFunc("GET /api/resolve", h.Resolve.Resolve)
	mux.HandleFunc("GET /docs", h.Content.Home)
	mux.HandleFunc("GET /docs/{path...}", h.Content.Browse)
}
