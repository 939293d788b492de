package docvault

import (
	"context"
	"testing"
	"time"

	"docvault/internal/domain"
	docvaultSvc "docvault/internal/domain/services/docvault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDocument_FirstVersionMatchesCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)

	doc := env.document(t, legal, "NDA", "nda", "v1 body")
	assert.Equal(t, "legal/nda", doc.URLPath)

	detail, err := env.documents.GetVersion(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.True(t, detail.Version.CreatedAt.Equal(doc.CreatedAt), "version 1 %s vs document %s",
		detail.Version.CreatedAt, doc.CreatedAt)
	assert.Equal(t, "v1 body", detail.Version.Content)
	assert.Nil(t, detail.Previous)
	assert.Nil(t, detail.Next)
}

func TestCreateDocument_BackfilledCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)

	backfill := time.Date(2019, 3, 14, 9, 26, 53, 589793238, time.FixedZone("CET", 3600))
	author := "archivist"
	doc, err := env.documents.CreateDocument(ctx, &docvaultSvc.CreateDocumentRequest{
		Title:      "Old Policy",
		Slug:       "old-policy",
		Content:    "imported",
		CategoryID: legal.ID,
		CreatedBy:  &author,
		CreatedAt:  &backfill,
	})
	require.NoError(t, err)

	want := backfill.UTC().Truncate(time.Microsecond)
	assert.True(t, doc.CreatedAt.Equal(want))

	versions, err := env.documents.ListVersions(ctx, doc.ID, 0)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.True(t, versions[0].CreatedAt.Equal(want))
	require.NotNil(t, versions[0].CreatedBy)
	assert.Equal(t, author, *versions[0].CreatedBy)
}

func TestCreateDocument_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)
	hr := env.category(t, "HR", "hr", nil)
	env.document(t, legal, "NDA", "nda", "x")

	_, err := env.documents.CreateDocument(ctx, &docvaultSvc.CreateDocumentRequest{
		Title: "NDA again", Slug: "nda", CategoryID: legal.ID,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	// same slug in another category is fine
	env.document(t, hr, "NDA", "nda", "y")

	_, err = env.documents.CreateDocument(ctx, &docvaultSvc.CreateDocumentRequest{
		Title: "Orphan", Slug: "orphan", CategoryID: 404,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.documents.CreateDocument(ctx, &docvaultSvc.CreateDocumentRequest{
		Title: "", Slug: "blank", CategoryID: legal.ID,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateDocument_VersionChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)

	owner := "owner"
	doc, err := env.documents.CreateDocument(ctx, &docvaultSvc.CreateDocumentRequest{
		Title: "NDA", Slug: "nda", Content: "one", CategoryID: legal.ID, CreatedBy: &owner,
	})
	require.NoError(t, err)

	_, err = env.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{Content: strPtr("two")})
	require.NoError(t, err)

	// title-only and unchanged content never version
	_, err = env.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{Title: strPtr("Mutual NDA")})
	require.NoError(t, err)
	_, err = env.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{Content: strPtr("two")})
	require.NoError(t, err)

	editor := "editor"
	updated, err := env.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{
		Content:   strPtr("three"),
		UpdatedBy: &editor,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mutual NDA", updated.Title)
	assert.Equal(t, "three", updated.Content)

	versions, err := env.documents.ListVersions(ctx, doc.ID, 0)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	// newest first, numbers gapless
	assert.Equal(t, []int{3, 2, 1}, []int{versions[0].VersionNumber, versions[1].VersionNumber, versions[2].VersionNumber})
	assert.Equal(t, "three", versions[0].Content)
	assert.Equal(t, editor, *versions[0].CreatedBy)
	assert.Equal(t, owner, *versions[1].CreatedBy, "without an updater the document author is recorded")

	limited, err := env.documents.ListVersions(ctx, doc.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdateDocument_SlugAndCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)
	hr := env.category(t, "HR", "hr", nil)
	nda := env.document(t, legal, "NDA", "nda", "x")
	env.document(t, hr, "Handbook", "handbook", "y")
	env.document(t, legal, "Policy", "policy", "z")

	_, err := env.documents.UpdateDocument(ctx, nda.ID, &docvaultSvc.UpdateDocumentRequest{Slug: strPtr("policy")})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.documents.UpdateDocument(ctx, nda.ID, &docvaultSvc.UpdateDocumentRequest{
		CategoryID: &hr.ID,
		Slug:       strPtr("handbook"),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	moved, err := env.documents.UpdateDocument(ctx, nda.ID, &docvaultSvc.UpdateDocumentRequest{CategoryID: &hr.ID})
	require.NoError(t, err)
	assert.Equal(t, "hr/nda", moved.URLPath)

	_, err = env.documents.UpdateDocument(ctx, nda.ID, &docvaultSvc.UpdateDocumentRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetVersion_Neighbours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)
	doc := env.document(t, legal, "NDA", "nda", "# One\n")

	for _, body := range []string{"# Two\n", "# Three\n## Detail\n"} {
		_, err := env.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{Content: strPtr(body)})
		require.NoError(t, err)
	}

	detail, err := env.documents.GetVersion(ctx, doc.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, detail.Previous)
	require.NotNil(t, detail.Next)
	assert.Equal(t, 1, detail.Previous.VersionNumber)
	assert.Equal(t, 3, detail.Next.VersionNumber)
	assert.Nil(t, detail.Changelog)

	last, err := env.documents.GetVersion(ctx, doc.ID, 3)
	require.NoError(t, err)
	assert.Nil(t, last.Next)
	require.Len(t, last.TableOfContents, 2)
	assert.Equal(t, "detail", last.TableOfContents[1].ID)

	_, err = env.documents.GetVersion(ctx, doc.ID, 9)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "version", notFound.Resource)
}

func TestCompareVersions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)
	doc := env.document(t, legal, "NDA", "nda", "alpha\nbeta\ngamma\n")

	_, err := env.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{
		Content: strPtr("alpha\nBETA\ngamma\n"),
	})
	require.NoError(t, err)

	cmp, err := env.documents.CompareVersions(ctx, doc.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp.Version1.VersionNumber)
	assert.Equal(t, 2, cmp.Version2.VersionNumber)
	assert.Contains(t, cmp.Diff, "--- version 1")
	assert.Contains(t, cmp.Diff, "+++ version 2")
	assert.Contains(t, cmp.Diff, "-beta\n")
	assert.Contains(t, cmp.Diff, "+BETA\n")

	same, err := env.documents.CompareVersions(ctx, doc.ID, 2, 2)
	require.NoError(t, err)
	assert.Empty(t, same.Diff)

	_, err = env.documents.CompareVersions(ctx, doc.ID, 1, 7)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument_RemovesHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	legal := env.category(t, "Legal", "legal", nil)
	doc := env.document(t, legal, "NDA", "nda", "x")

	_, err := env.changelogs.CreateChangelog(ctx, doc.ID, &docvaultSvc.CreateChangelogRequest{
		Description: "initial", VersionNumber: intPtr(1), ShowInGlobal: true,
	})
	require.NoError(t, err)

	require.NoError(t, env.documents.DeleteDocument(ctx, doc.ID))

	_, err = env.documents.GetDocument(ctx, doc.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.documents.ListVersions(ctx, doc.ID, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)

	feed, err := env.changelogs.ListGlobalChangelog(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.ErrorIs(t, env.documents.DeleteDocument(ctx, doc.ID), domain.ErrNotFound)
}
