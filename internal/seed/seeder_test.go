package seed

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/repository/storage"
	"docvault/internal/service/docvault"
	"docvault/internal/service/docvault/formatter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(t *testing.T) (*Seeder, *docvault.Services) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	services := docvault.SetupServices(storage.OpenMemory().Repos, formatter.NewTextFormatter(), logger)
	return NewSeeder(services.Categories, services.Documents, services.Changelogs, logger), services
}

func TestSeed_DefaultFixture(t *testing.T) {
	ctx := context.Background()
	seeder, services := newSeeder(t)

	fixture, err := LoadFixtureFile("")
	require.NoError(t, err)

	result, err := seeder.Seed(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, &Result{Categories: 6, Documents: 7, Versions: 9, Changelogs: 4}, result)

	runbooks, err := services.Categories.GetByPath(ctx, "engineering/backend/runbooks")
	require.NoError(t, err)
	assert.Equal(t, 2, runbooks.Depth)

	route, err := services.Resolver.Resolve(ctx, "people/leave-policy", docvaultSvc.IntentAny)
	require.NoError(t, err)
	require.Equal(t, models.RouteDocument, route.Kind)

	versions, err := services.Documents.ListVersions(ctx, route.Document.ID, 0)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.True(t, versions[1].CreatedAt.Equal(time.Date(2023, 11, 20, 12, 30, 0, 0, time.UTC)))

	global, err := services.Changelogs.ListGlobalChangelog(ctx, 10)
	require.NoError(t, err)
	var descriptions []string
	for _, entry := range global {
		descriptions = append(descriptions, entry.Description)
	}
	assert.ElementsMatch(t, []string{
		"Added architecture reading and pairing",
		"Initial migration guide",
		"Annual leave raised to 27 days",
	}, descriptions)
}

func TestLoadFixture_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "categories: []\n"},
		{name: "unknown key", yaml: "categories:\n  - name: A\n    slug: a\n    colour: red\n"},
		{name: "malformed", yaml: "categories: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixture(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSeed_StopsOnInvalidSlug(t *testing.T) {
	seeder, _ := newSeeder(t)
	fixture, err := LoadFixture(strings.NewReader(`
categories:
  - name: Good
    slug: good
  - name: Bad
    slug: "bad slug"
  - name: Never
    slug: never
`))
	require.NoError(t, err)

	result, err := seeder.Seed(context.Background(), fixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `category "bad slug"`)
	assert.Equal(t, 1, result.Categories)
}
