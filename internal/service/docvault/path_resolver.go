package docvault

import (
	"context"
	"log/slog"

	"docvault/internal/config"
	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

type pathResolver struct {
	loader *TreeIndexLoader
	logger *slog.Logger
}

// NewPathResolver creates a resolver backed by the request's tree index
func NewPathResolver(loader *TreeIndexLoader, logger *slog.Logger) docvaultSvc.PathResolver {
	return &pathResolver{loader: loader, logger: logger}
}

// Resolve decides between "category at the full path" and "document named by
// the last segment inside the category at the prefix". The category reading
// wins unless intent asks for a document and both readings exist.
func (r *pathResolver) Resolve(ctx context.Context, rawPath string, intent docvaultSvc.Intent) (*models.Route, error) {
	segments := SplitURLPath(rawPath)
	full := JoinURLPath(segments...)
	notFound := &models.Route{Kind: models.RouteNotFound, Path: full}

	if len(segments) == 0 || len(full) > config.MaxURLPathLength {
		return notFound, nil
	}

	index, err := r.loader.Index(ctx)
	if err != nil {
		return nil, err
	}

	var categoryRoute, documentRoute *models.Route
	if category, ok := index.CategoryByPath(full); ok {
		categoryRoute = &models.Route{Kind: models.RouteCategory, Path: full, Category: category}
	}
	if len(segments) > 1 {
		prefix := JoinURLPath(segments[:len(segments)-1]...)
		if parent, ok := index.CategoryByPath(prefix); ok {
			if doc, ok := index.DocumentBySlug(parent.ID, segments[len(segments)-1]); ok {
				documentRoute = &models.Route{Kind: models.RouteDocument, Path: full, Category: parent, Document: doc}
			}
		}
	}

	switch {
	case categoryRoute != nil && documentRoute != nil:
		r.logger.Debug("ambiguous content path",
			"path", full,
			"category_id", categoryRoute.Category.ID,
			"document_id", documentRoute.Document.ID,
			"prefer_document", intent == docvaultSvc.IntentDocument,
		)
		if intent == docvaultSvc.IntentDocument {
			return documentRoute, nil
		}
		return categoryRoute, nil
	case categoryRoute != nil:
		return categoryRoute, nil
	case documentRoute != nil:
		return documentRoute, nil
	}
	return notFound, nil
}
