package docvault

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	docvaultRepo "docvault/internal/domain/repositories/docvault"
)

// TreeIndex is an immutable in-memory snapshot of every category (with its
// computed URL path) and every document's metadata. Getters hand out copies.
type TreeIndex struct {
	categories map[int64]*models.Category
	byURLPath  map[string]*models.Category
	children   map[int64][]*models.Category // parent id, 0 for roots; ordered by name
	documents  map[int64]map[string]*models.Document
	byCategory map[int64][]*models.Document // ordered by updated_at desc
	violations []string
	duplicates []string
}

// BuildTreeIndex assembles an index from the two batch fetches. URL paths come
// from parent links; stored paths that disagree are reported as violations.
func BuildTreeIndex(categories []models.Category, documents []models.Document) *TreeIndex {
	layout := layoutTree(categories)

	idx := &TreeIndex{
		categories: make(map[int64]*models.Category, len(categories)),
		byURLPath:  make(map[string]*models.Category, len(categories)),
		children:   map[int64][]*models.Category{},
		documents:  map[int64]map[string]*models.Document{},
		byCategory: map[int64][]*models.Document{},
		violations: layout.violations(categories),
	}

	ordered := slices.Clone(categories)
	slices.SortFunc(ordered, byDepthThenID)
	for i := range ordered {
		c := &ordered[i]
		urlPath, reachable := layout.urlPaths[c.ID]
		if !reachable {
			continue
		}
		c.URLPath = urlPath
		idx.categories[c.ID] = c
		if _, taken := idx.byURLPath[urlPath]; taken {
			idx.duplicates = append(idx.duplicates, urlPath)
		} else {
			idx.byURLPath[urlPath] = c
		}
		key := parentKey(c.ParentID)
		idx.children[key] = append(idx.children[key], c)
	}
	for _, list := range idx.children {
		slices.SortFunc(list, func(a, b *models.Category) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		})
	}

	for i := range documents {
		d := documents[i]
		category, ok := idx.categories[d.CategoryID]
		if !ok {
			continue
		}
		d.Content = ""
		d.URLPath = JoinURLPath(category.URLPath, d.Slug)
		if idx.documents[d.CategoryID] == nil {
			idx.documents[d.CategoryID] = map[string]*models.Document{}
		}
		if _, taken := idx.documents[d.CategoryID][d.Slug]; taken {
			idx.duplicates = append(idx.duplicates, d.URLPath)
			continue
		}
		idx.documents[d.CategoryID][d.Slug] = &d
		idx.byCategory[d.CategoryID] = append(idx.byCategory[d.CategoryID], &d)
	}
	for _, list := range idx.byCategory {
		slices.SortFunc(list, func(a, b *models.Document) int {
			return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(b.ID, a.ID))
		})
	}

	return idx
}

func byDepthThenID(a, b models.Category) int {
	return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(a.ID, b.ID))
}

// Len returns the number of indexed categories
func (idx *TreeIndex) Len() int { return len(idx.categories) }

// Violations lists stored path/depth values that disagree with parent links
func (idx *TreeIndex) Violations() []string { return slices.Clone(idx.violations) }

// Duplicates lists URL paths shadowed by an earlier category or document
func (idx *TreeIndex) Duplicates() []string { return slices.Clone(idx.duplicates) }

// Category returns an indexed category by ID
func (idx *TreeIndex) Category(id int64) (*models.Category, bool) {
	c, ok := idx.categories[id]
	if !ok {
		return nil, false
	}
	out := *c
	return &out, true
}

// CategoryByPath looks up a slash-joined slug path
func (idx *TreeIndex) CategoryByPath(urlPath string) (*models.Category, bool) {
	c, ok := idx.byURLPath[urlPath]
	if !ok {
		return nil, false
	}
	out := *c
	return &out, true
}

// DocumentBySlug finds a document owned by categoryID
func (idx *TreeIndex) DocumentBySlug(categoryID int64, slug string) (*models.Document, bool) {
	d, ok := idx.documents[categoryID][slug]
	if !ok {
		return nil, false
	}
	out := *d
	return &out, true
}

// Children lists immediate children; nil lists roots
func (idx *TreeIndex) Children(parentID *int64) []models.Category {
	return derefAll(idx.children[parentKey(parentID)])
}

// Siblings lists categories that share category's parent
func (idx *TreeIndex) Siblings(category *models.Category, includeSelf bool) []models.Category {
	siblings := idx.Children(category.ParentID)
	if includeSelf {
		return siblings
	}
	return slices.DeleteFunc(siblings, func(c models.Category) bool { return c.ID == category.ID })
}

// Ancestors returns the chain root-first by following parent links
func (idx *TreeIndex) Ancestors(id int64, includeSelf bool) []models.Category {
	var chain []models.Category
	current, ok := idx.categories[id]
	if ok && includeSelf {
		chain = append(chain, *current)
	}
	for ok && current.ParentID != nil {
		current, ok = idx.categories[*current.ParentID]
		if ok {
			chain = append(chain, *current)
		}
	}
	slices.Reverse(chain)
	if chain == nil {
		return []models.Category{}
	}
	return chain
}

// Documents lists a category's own documents, most recently updated first
func (idx *TreeIndex) Documents(categoryID int64) []models.Document {
	return derefAll(idx.byCategory[categoryID])
}

// DocumentCount counts a category's own documents
func (idx *TreeIndex) DocumentCount(categoryID int64) int {
	return len(idx.byCategory[categoryID])
}

func derefAll[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

// TreeIndexLoader builds indexes and memoizes one per request scope
type TreeIndexLoader struct {
	categoryRepo docvaultRepo.CategoryRepository
	docRepo      docvaultRepo.DocumentRepository
	logger       *slog.Logger
}

// NewTreeIndexLoader creates a loader
func NewTreeIndexLoader(
	categoryRepo docvaultRepo.CategoryRepository,
	docRepo docvaultRepo.DocumentRepository,
	logger *slog.Logger,
) *TreeIndexLoader {
	return &TreeIndexLoader{
		categoryRepo: categoryRepo,
		docRepo:      docRepo,
		logger:       logger,
	}
}

type indexScopeKey struct{}

type indexScope struct {
	once  sync.Once
	index *TreeIndex
	err   error
}

// WithIndexScope starts a request scope: the first Index call inside it builds
// the index and later calls reuse it. Nested scopes are not created.
func WithIndexScope(ctx context.Context) context.Context {
	if _, ok := ctx.Value(indexScopeKey{}).(*indexScope); ok {
		return ctx
	}
	return context.WithValue(ctx, indexScopeKey{}, &indexScope{})
}

// Index returns the scope's index, building it on first use. Outside a scope
// every call builds a fresh index.
func (l *TreeIndexLoader) Index(ctx context.Context) (*TreeIndex, error) {
	scope, ok := ctx.Value(indexScopeKey{}).(*indexScope)
	if !ok {
		return l.build(ctx)
	}
	scope.once.Do(func() {
		scope.index, scope.err = l.build(ctx)
	})
	return scope.index, scope.err
}

// build issues exactly two fetches regardless of tree depth
func (l *TreeIndexLoader) build(ctx context.Context) (*TreeIndex, error) {
	start := time.Now()

	categories, err := l.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	documents, err := l.docRepo.GetAllMetadata(ctx)
	if err != nil {
		return nil, err
	}

	idx := BuildTreeIndex(categories, documents)
	if len(idx.duplicates) > 0 {
		l.logger.Warn("duplicate content paths in tree index, first match kept", "paths", idx.Duplicates())
	}
	if len(idx.violations) > 0 {
		l.logger.Error("category tree integrity violation, run maintenance -rebuild-paths",
			"count", len(idx.violations),
			"violations", idx.violations,
		)
		return nil, &domain.IntegrityError{Violations: idx.Violations()}
	}

	l.logger.Debug("tree index built",
		"categories", len(categories),
		"documents", len(documents),
		"duration", time.Since(start),
	)
	return idx, nil
}
