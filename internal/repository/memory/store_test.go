package memory

import (
	"context"
	"errors"
	"testing"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestTransactionManager_RollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)
	tx := NewTransactionManager(store)

	root := &models.Category{Name: "Legal", Slug: "legal"}
	require.NoError(t, categories.Create(ctx, root))

	boom := errors.New("boom")
	err := tx.ExecTx(ctx, func(txCtx context.Context) error {
		child := &models.Category{Name: "Contracts", Slug: "contracts", ParentID: &root.ID}
		require.NoError(t, categories.Create(txCtx, child))
		require.NoError(t, categories.UpdatePaths(txCtx, []models.PathUpdate{{ID: root.ID, Path: "99", Depth: 3}}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := categories.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "", all[0].Path)
	assert.Equal(t, 0, all[0].Depth)
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)
	tx := NewTransactionManager(store)

	err := tx.ExecTx(ctx, func(outer context.Context) error {
		inner := tx.ExecTx(outer, func(innerCtx context.Context) error {
			return categories.Create(innerCtx, &models.Category{Name: "A", Slug: "a"})
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	all, err := categories.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "inner write must roll back with the outer unit")
}

func TestCategoryRepository_SiblingSlugScope(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)

	a := &models.Category{Name: "A", Slug: "a"}
	b := &models.Category{Name: "B", Slug: "b"}
	require.NoError(t, categories.Create(ctx, a))
	require.NoError(t, categories.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	// same slug under different parents is fine
	require.NoError(t, categories.Create(ctx, &models.Category{Name: "Docs", Slug: "docs", ParentID: &a.ID}))
	require.NoError(t, categories.Create(ctx, &models.Category{Name: "Docs", Slug: "docs", ParentID: &b.ID}))

	err := categories.Create(ctx, &models.Category{Name: "Docs again", Slug: "docs", ParentID: &a.ID})
	require.ErrorIs(t, err, domain.ErrValidation)

	err = categories.Create(ctx, &models.Category{Name: "A2", Slug: "a"})
	require.ErrorIs(t, err, domain.ErrValidation, "root slugs are siblings too")

	err = categories.Create(ctx, &models.Category{Name: "Orphan", Slug: "orphan", ParentID: int64Ptr(404)})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryRepository_DeleteBlockedByDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)
	documents := NewDocumentRepository(store)

	root := &models.Category{Name: "Root", Slug: "root"}
	require.NoError(t, categories.Create(ctx, root))
	child := &models.Category{Name: "Child", Slug: "child", ParentID: &root.ID}
	require.NoError(t, categories.Create(ctx, child))
	require.NoError(t, documents.Create(ctx, &models.Document{CategoryID: child.ID, Title: "Doc", Slug: "doc"}))

	err := categories.DeleteByIDs(ctx, []int64{root.ID})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	all, err := categories.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDocumentRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)
	documents := NewDocumentRepository(store)
	versions := NewVersionRepository(store)
	changelogs := NewChangelogRepository(store)

	cat := &models.Category{Name: "Root", Slug: "root"}
	require.NoError(t, categories.Create(ctx, cat))
	doc := &models.Document{CategoryID: cat.ID, Title: "Doc", Slug: "doc"}
	require.NoError(t, documents.Create(ctx, doc))
	v := &models.DocumentVersion{DocumentID: doc.ID, VersionNumber: 1}
	require.NoError(t, versions.Create(ctx, v))
	require.NoError(t, changelogs.Create(ctx, &models.Changelog{DocumentID: doc.ID, Description: "x", Importance: models.ImportanceMajor, VersionID: &v.ID}))

	dup := &models.DocumentVersion{DocumentID: doc.ID, VersionNumber: 1}
	var conflict *domain.ConflictError
	require.ErrorAs(t, versions.Create(ctx, dup), &conflict)

	require.NoError(t, documents.Delete(ctx, doc.ID))

	list, err := versions.ListByDocument(ctx, doc.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	feed, err := changelogs.ListGlobal(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestStore_CallsAndFailNext(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)

	_, _ = categories.GetAll(ctx)
	_, _ = categories.GetAll(ctx)
	assert.Equal(t, 2, store.Calls("CategoryRepository.GetAll"))

	injected := errors.New("injected")
	store.FailNext("CategoryRepository.GetAll", injected)
	_, err := categories.GetAll(ctx)
	require.ErrorIs(t, err, injected)
	_, err = categories.GetAll(ctx)
	require.NoError(t, err, "failure fires once")

	store.ResetCalls()
	assert.Zero(t, store.Calls("CategoryRepository.GetAll"))
}

func TestCategoryRepository_UpdatePathsUnknownID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)

	root := &models.Category{Name: "Legal", Slug: "legal"}
	require.NoError(t, categories.Create(ctx, root))

	tests := []struct {
		name    string
		updates []models.PathUpdate
		wantErr bool
	}{
		{name: "known id", updates: []models.PathUpdate{{ID: root.ID, Path: "7", Depth: 0}}},
		{name: "unknown id fails the whole batch", updates: []models.PathUpdate{
			{ID: root.ID, Path: "8", Depth: 0},
			{ID: 404, Path: "8.404", Depth: 1},
		}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := categories.UpdatePaths(ctx, tt.updates)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var integrity *domain.IntegrityError
			require.ErrorAs(t, err, &integrity)
			assert.Contains(t, integrity.Error(), "category 404 does not exist")
		})
	}

	got, err := categories.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", got.Path, "failed batch writes nothing")
}
