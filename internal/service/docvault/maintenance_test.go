package docvault

import (
	"context"
	"testing"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildPaths(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.category(t, "A", "a", nil)
	b := env.category(t, "B", "b", a)
	c := env.category(t, "C", "c", b)

	changes, err := env.maintenance.RebuildPaths(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, changes, "a consistent tree needs no changes")

	repo := memory.NewCategoryRepository(env.store)
	require.NoError(t, repo.UpdatePaths(ctx, []models.PathUpdate{
		{ID: b.ID, Path: "7.2", Depth: 4},
		{ID: c.ID, Path: "", Depth: 0},
	}))

	violations, err := env.maintenance.CheckIntegrity(ctx)
	require.NoError(t, err)
	assert.Len(t, violations, 4)

	planned, err := env.maintenance.RebuildPaths(ctx, true)
	require.NoError(t, err)
	require.Len(t, planned, 2)
	assert.Equal(t, models.PathChange{ID: b.ID, Name: "B", OldPath: "7.2", NewPath: "1.2", OldDepth: 4, NewDepth: 1}, planned[0])
	assert.Equal(t, "1.2.3", planned[1].NewPath)
	assert.Equal(t, "7.2", env.reload(t, b).Path, "dry run writes nothing")

	applied, err := env.maintenance.RebuildPaths(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, planned, applied)
	env.requireTreeInvariant(t)

	violations, err = env.maintenance.CheckIntegrity(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)

	again, err := env.maintenance.RebuildPaths(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, again)

	// content routes work again once rebuilt
	route, err := env.resolver.Resolve(ctx, "a/b/c", docvaultSvc.IntentAny)
	require.NoError(t, err)
	assert.Equal(t, c.ID, route.Category.ID)
}

func TestRebuildPaths_UnreachableCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.category(t, "A", "a", nil)
	b := env.category(t, "B", "b", a)

	// b <-> a parent loop
	repo := memory.NewCategoryRepository(env.store)
	a.ParentID = &b.ID
	require.NoError(t, repo.Update(ctx, a))

	_, err := env.maintenance.RebuildPaths(ctx, false)
	var integrity *domain.IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Len(t, integrity.Violations, 2)
}

func TestFixFirstVersionDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	legal := env.category(t, "Legal", "legal", nil)
	env.document(t, legal, "Good", "good", "x")
	bad := env.document(t, legal, "Bad", "bad", "y")

	versionRepo := memory.NewVersionRepository(env.store)
	first, err := versionRepo.GetByNumber(ctx, bad.ID, 1)
	require.NoError(t, err)
	require.NoError(t, versionRepo.SetCreatedAt(ctx, first.ID, bad.CreatedAt.Add(3*time.Hour)))

	fixes, err := env.maintenance.FixFirstVersionDates(ctx, true)
	require.NoError(t, err)
	require.Len(t, fixes, 1)
	assert.Equal(t, bad.ID, fixes[0].DocumentID)
	assert.Equal(t, "Bad", fixes[0].Title)
	assert.Equal(t, first.ID, fixes[0].VersionID)

	unchanged, err := versionRepo.GetByNumber(ctx, bad.ID, 1)
	require.NoError(t, err)
	assert.False(t, unchanged.CreatedAt.Equal(bad.CreatedAt), "dry run writes nothing")

	fixes, err = env.maintenance.FixFirstVersionDates(ctx, false)
	require.NoError(t, err)
	require.Len(t, fixes, 1)

	fixed, err := versionRepo.GetByNumber(ctx, bad.ID, 1)
	require.NoError(t, err)
	assert.True(t, fixed.CreatedAt.Equal(bad.CreatedAt))

	fixes, err = env.maintenance.FixFirstVersionDates(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, fixes)

}
