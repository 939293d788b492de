// Package seed loads sample category trees and documents through the services,
// so seeded data goes through the same validation and path assignment as the API.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

// Result counts what a seed run created
type Result struct {
	Categories int
	Documents  int
	Versions   int
	Changelogs int
}

// Seeder writes fixtures through the category, document and changelog services
type Seeder struct {
	categories docvaultSvc.CategoryTree
	documents  docvaultSvc.DocumentStore
	changelogs docvaultSvc.ChangelogService
	logger     *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	categories docvaultSvc.CategoryTree,
	documents docvaultSvc.DocumentStore,
	changelogs docvaultSvc.ChangelogService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		documents:  documents,
		changelogs: changelogs,
		logger:     logger,
	}
}

// Seed creates every category depth-first, parents before children. The first
// failure stops the run; what was created before it stays.
func (s *Seeder) Seed(ctx context.Context, fixture *Fixture) (*Result, error) {
	result := &Result{}
	for i := range fixture.Categories {
		if err := s.seedCategory(ctx, &fixture.Categories[i], nil, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Seeder) seedCategory(ctx context.Context, f *CategoryFixture, parent *models.Category, result *Result) error {
	req := &docvaultSvc.CreateCategoryRequest{
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
	}
	if parent != nil {
		req.ParentID = &parent.ID
	}

	category, err := s.categories.CreateCategory(ctx, req)
	if err != nil {
		return fmt.Errorf("category %q: %w", f.Slug, err)
	}
	result.Categories++
	s.logger.Debug("seeded category", "id", category.ID, "path", category.Path, "slug", category.Slug)

	for i := range f.Documents {
		if err := s.seedDocument(ctx, &f.Documents[i], category, result); err != nil {
			return err
		}
	}
	for i := range f.Children {
		if err := s.seedCategory(ctx, &f.Children[i], category, result); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedDocument(ctx context.Context, f *DocumentFixture, category *models.Category, result *Result) error {
	doc, err := s.documents.CreateDocument(ctx, &docvaultSvc.CreateDocumentRequest{
		Title:      f.Title,
		Slug:       f.Slug,
		Content:    f.Content,
		CategoryID: category.ID,
		CreatedBy:  optional(f.Author),
		CreatedAt:  f.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("document %q in %q: %w", f.Slug, category.Slug, err)
	}
	result.Documents++
	result.Versions++

	for i, rev := range f.Revisions {
		content := rev.Content
		if _, err := s.documents.UpdateDocument(ctx, doc.ID, &docvaultSvc.UpdateDocumentRequest{
			Content:   &content,
			UpdatedBy: optional(rev.Author),
		}); err != nil {
			return fmt.Errorf("document %q revision %d: %w", f.Slug, i+1, err)
		}
		result.Versions++
	}

	for _, entry := range f.Changelog {
		if _, err := s.changelogs.CreateChangelog(ctx, doc.ID, &docvaultSvc.CreateChangelogRequest{
			Description:   entry.Description,
			Importance:    models.Importance(strings.ToUpper(entry.Importance)),
			ShowInGlobal:  entry.ShowInGlobal,
			VersionNumber: entry.Version,
			CreatedBy:     optional(f.Author),
		}); err != nil {
			return fmt.Errorf("document %q changelog: %w", f.Slug, err)
		}
		result.Changelogs++
	}

	s.logger.Debug("seeded document", "id", doc.ID, "slug", doc.Slug, "revisions", len(f.Revisions))
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
