package docvault

import (
	"context"
	"io"
	"log/slog"
	"testing"

	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/repository/memory"
	"docvault/internal/service/docvault/formatter"

	"github.com/stretchr/testify/require"
)

// testEnv wires every service over one in-memory store
type testEnv struct {
	store       *memory.Store
	categories  docvaultSvc.CategoryTree
	documents   docvaultSvc.DocumentStore
	changelogs  docvaultSvc.ChangelogService
	maintenance docvaultSvc.TreeMaintenance
	loader      *TreeIndexLoader
	resolver    docvaultSvc.PathResolver
	content     docvaultSvc.ContentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	services := SetupServices(&Repositories{
		Categories: memory.NewCategoryRepository(store),
		Documents:  memory.NewDocumentRepository(store),
		Versions:   memory.NewVersionRepository(store),
		Changelogs: memory.NewChangelogRepository(store),
		Tx:         memory.NewTransactionManager(store),
	}, formatter.NewHTMLFormatter(), logger)

	return &testEnv{
		store:       store,
		categories:  services.Categories,
		documents:   services.Documents,
		changelogs:  services.Changelogs,
		maintenance: services.Maintenance,
		loader:      services.Loader,
		resolver:    services.Resolver,
		content:     services.Content,
	}
}

func (e *testEnv) category(t *testing.T, name, slug string, parent *models.Category) *models.Category {
	t.Helper()
	req := &docvaultSvc.CreateCategoryRequest{Name: name, Slug: slug}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	c, err := e.categories.CreateCategory(context.Background(), req)
	require.NoError(t, err)
	return c
}

func (e *testEnv) document(t *testing.T, category *models.Category, title, slug, content string) *models.Document {
	t.Helper()
	d, err := e.documents.CreateDocument(context.Background(), &docvaultSvc.CreateDocumentRequest{
		Title:      title,
		Slug:       slug,
		Content:    content,
		CategoryID: category.ID,
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) reload(t *testing.T, c *models.Category) *models.Category {
	t.Helper()
	fresh, err := e.categories.GetCategory(context.Background(), c.ID)
	require.NoError(t, err)
	return fresh
}

// requireTreeInvariant checks path == parent.path + "." + id and depth == parent.depth + 1
// for every category in the store
func (e *testEnv) requireTreeInvariant(t *testing.T) {
	t.Helper()
	all, err := e.categories.ListCategories(context.Background())
	require.NoError(t, err)

	byID := map[int64]models.Category{}
	for _, c := range all {
		byID[c.ID] = c
	}
	for _, c := range all {
		if c.ParentID == nil {
			require.Equal(t, ChildPath("", c.ID), c.Path, "root %d path", c.ID)
			require.Equal(t, 0, c.Depth, "root %d depth", c.ID)
			continue
		}
		parent, ok := byID[*c.ParentID]
		require.True(t, ok, "category %d has a missing parent", c.ID)
		require.Equal(t, ChildPath(parent.Path, c.ID), c.Path, "category %d path", c.ID)
		require.Equal(t, parent.Depth+1, c.Depth, "category %d depth", c.ID)
	}
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
