package docvault

import (
	"context"
	"log/slog"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	docvaultRepo "docvault/internal/domain/repositories/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

type contentService struct {
	loader        *TreeIndexLoader
	resolver      docvaultSvc.PathResolver
	documents     docvaultSvc.DocumentStore
	docRepo       docvaultRepo.DocumentRepository
	versionRepo   docvaultRepo.VersionRepository
	changelogRepo docvaultRepo.ChangelogRepository
	formatter     docvaultSvc.ContentFormatter
	logger        *slog.Logger
}

// NewContentService creates the view-model builder for the content tree.
// Every view in one request shares a single tree index.
func NewContentService(
	loader *TreeIndexLoader,
	resolver docvaultSvc.PathResolver,
	documents docvaultSvc.DocumentStore,
	docRepo docvaultRepo.DocumentRepository,
	versionRepo docvaultRepo.VersionRepository,
	changelogRepo docvaultRepo.ChangelogRepository,
	formatter docvaultSvc.ContentFormatter,
	logger *slog.Logger,
) docvaultSvc.ContentService {
	return &contentService{
		loader:        loader,
		resolver:      resolver,
		documents:     documents,
		docRepo:       docRepo,
		versionRepo:   versionRepo,
		changelogRepo: changelogRepo,
		formatter:     formatter,
		logger:        logger,
	}
}

// Home lists root categories with their counts
func (s *contentService) Home(ctx context.Context) (*docvaultSvc.HomeView, error) {
	index, err := s.loader.Index(WithIndexScope(ctx))
	if err != nil {
		return nil, err
	}
	return &docvaultSvc.HomeView{Categories: nodes(index, index.Children(nil))}, nil
}

// CategoryView renders a category page
func (s *contentService) CategoryView(ctx context.Context, path string) (*docvaultSvc.CategoryView, error) {
	ctx = WithIndexScope(ctx)
	index, route, err := s.resolve(ctx, path, docvaultSvc.IntentAny)
	if err != nil {
		return nil, err
	}
	if route.Kind != models.RouteCategory {
		return nil, domain.NewNotFound("category", route.Path)
	}

	category := route.Category
	return &docvaultSvc.CategoryView{
		Trail:     trail(index, category),
		Children:  nodes(index, index.Children(&category.ID)),
		Documents: index.Documents(category.ID),
	}, nil
}

// DocumentView renders a document page with TOC and recent history
func (s *contentService) DocumentView(ctx context.Context, path string) (*docvaultSvc.DocumentView, error) {
	ctx = WithIndexScope(ctx)
	index, doc, err := s.resolveDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListByDocument(ctx, doc.ID, config.RecentVersionsLimit)
	if err != nil {
		return nil, err
	}
	changes, err := s.changelogRepo.ListByDocument(ctx, doc.ID, config.RecentChangesLimit)
	if err != nil {
		return nil, err
	}

	return &docvaultSvc.DocumentView{
		Trail:           s.documentTrail(index, doc),
		Document:        doc,
		RenderedContent: s.formatter.Format(doc.Content),
		TableOfContents: s.documents.GenerateTableOfContents(doc.Content),
		RecentVersions:  versions,
		RecentChanges:   changes,
	}, nil
}

// VersionHistory lists every version of a document, newest first
func (s *contentService) VersionHistory(ctx context.Context, path string) (*docvaultSvc.VersionHistoryView, error) {
	ctx = WithIndexScope(ctx)
	index, doc, err := s.resolveDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListByDocument(ctx, doc.ID, 0)
	if err != nil {
		return nil, err
	}
	return &docvaultSvc.VersionHistoryView{
		Trail:    s.documentTrail(index, doc),
		Document: doc,
		Versions: versions,
	}, nil
}

// VersionView renders one historical version with prev/next navigation
func (s *contentService) VersionView(ctx context.Context, path string, number int) (*docvaultSvc.VersionView, error) {
	ctx = WithIndexScope(ctx)
	index, doc, err := s.resolveDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	detail, err := s.documents.GetVersion(ctx, doc.ID, number)
	if err != nil {
		return nil, err
	}
	return &docvaultSvc.VersionView{
		Trail:           s.documentTrail(index, doc),
		Document:        doc,
		RenderedContent: s.formatter.Format(detail.Version.Content),
		VersionDetail:   *detail,
	}, nil
}

// ChangelogView lists a document's changelog
func (s *contentService) ChangelogView(ctx context.Context, path string) (*docvaultSvc.ChangelogView, error) {
	ctx = WithIndexScope(ctx)
	index, doc, err := s.resolveDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	changes, err := s.changelogRepo.ListByDocument(ctx, doc.ID, 0)
	if err != nil {
		return nil, err
	}
	return &docvaultSvc.ChangelogView{
		Trail:      s.documentTrail(index, doc),
		Document:   doc,
		Changelogs: changes,
	}, nil
}

// CompareView is in select mode until both version numbers are given
func (s *contentService) CompareView(ctx context.Context, path string, req *docvaultSvc.CompareRequest) (*docvaultSvc.CompareView, error) {
	ctx = WithIndexScope(ctx)
	index, doc, err := s.resolveDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	view := &docvaultSvc.CompareView{
		Trail:    s.documentTrail(index, doc),
		Document: doc,
	}

	if req == nil || req.Select || req.V1 == nil || req.V2 == nil {
		versions, err := s.versionRepo.ListByDocument(ctx, doc.ID, 0)
		if err != nil {
			return nil, err
		}
		view.Mode = docvaultSvc.CompareModeSelect
		view.Versions = versions
		return view, nil
	}

	comparison, err := s.documents.CompareVersions(ctx, doc.ID, *req.V1, *req.V2)
	if err != nil {
		return nil, err
	}
	view.Mode = docvaultSvc.CompareModeDiff
	view.Comparison = comparison
	return view, nil
}

func (s *contentService) resolve(ctx context.Context, path string, intent docvaultSvc.Intent) (*TreeIndex, *models.Route, error) {
	route, err := s.resolver.Resolve(ctx, path, intent)
	if err != nil {
		return nil, nil, err
	}
	// Same scope as the resolver, so no rebuild
	index, err := s.loader.Index(ctx)
	if err != nil {
		return nil, nil, err
	}
	return index, route, nil
}

// resolveDocument resolves a document route and loads the full content row
func (s *contentService) resolveDocument(ctx context.Context, path string) (*TreeIndex, *models.Document, error) {
	index, route, err := s.resolve(ctx, path, docvaultSvc.IntentDocument)
	if err != nil {
		return nil, nil, err
	}
	if route.Kind != models.RouteDocument {
		return nil, nil, domain.NewNotFound("document", route.Path)
	}

	doc, err := s.docRepo.GetByID(ctx, route.Document.ID)
	if err != nil {
		return nil, nil, err
	}
	doc.URLPath = route.Document.URLPath
	return index, doc, nil
}

func (s *contentService) documentTrail(index *TreeIndex, doc *models.Document) docvaultSvc.Trail {
	category, ok := index.Category(doc.CategoryID)
	if !ok {
		return docvaultSvc.Trail{Breadcrumbs: []models.Category{}, Siblings: []models.Category{}}
	}
	return trail(index, category)
}

func trail(index *TreeIndex, category *models.Category) docvaultSvc.Trail {
	return docvaultSvc.Trail{
		Category:    category,
		Breadcrumbs: index.Ancestors(category.ID, true),
		Siblings:    index.Siblings(category, false),
	}
}

func nodes(index *TreeIndex, categories []models.Category) []docvaultSvc.CategoryNode {
	out := make([]docvaultSvc.CategoryNode, len(categories))
	for i, c := range categories {
		out[i] = docvaultSvc.CategoryNode{
			Category:      c,
			ChildCount:    len(index.Children(&c.ID)),
			DocumentCount: index.DocumentCount(c.ID),
		}
	}
	return out
}
