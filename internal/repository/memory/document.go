package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	repos "docvault/internal/domain/repositories/docvault"
)

// DocumentRepository is the in-memory DocumentRepository
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a document repository over the store
func NewDocumentRepository(store *Store) repos.DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.Create"); err != nil {
		return err
	}

	if err := r.checkWrite(doc); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	doc.ID = s.data.nextID("documents")
	stored := *doc
	stored.URLPath = ""
	s.data.documents[doc.ID] = stored
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.GetByID"); err != nil {
		return nil, err
	}

	d, ok := s.data.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return &d, nil
}

func (r *DocumentRepository) GetBySlug(ctx context.Context, categoryID int64, slug string) (*models.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.GetBySlug"); err != nil {
		return nil, err
	}

	for _, d := range s.data.documents {
		if d.CategoryID == categoryID && d.Slug == slug {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("document %q: %w", slug, domain.ErrNotFound)
}

func (r *DocumentRepository) ListByCategories(ctx context.Context, categoryIDs []int64) ([]models.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.ListByCategories"); err != nil {
		return nil, err
	}

	out := []models.Document{}
	for _, d := range s.data.documents {
		if slices.Contains(categoryIDs, d.CategoryID) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b models.Document) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (r *DocumentRepository) CountByCategories(ctx context.Context, categoryIDs []int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.CountByCategories"); err != nil {
		return 0, err
	}

	n := 0
	for _, d := range s.data.documents {
		if slices.Contains(categoryIDs, d.CategoryID) {
			n++
		}
	}
	return n, nil
}

func (r *DocumentRepository) GetAllMetadata(ctx context.Context) ([]models.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.GetAllMetadata"); err != nil {
		return nil, err
	}

	out := make([]models.Document, 0, len(s.data.documents))
	for _, d := range s.data.documents {
		d.Content = ""
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b models.Document) int {
		return cmp.Or(cmp.Compare(a.CategoryID, b.CategoryID), cmp.Compare(a.Slug, b.Slug))
	})
	return out, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.Update"); err != nil {
		return err
	}

	existing, ok := s.data.documents[doc.ID]
	if !ok {
		return fmt.Errorf("document %d: %w", doc.ID, domain.ErrNotFound)
	}
	if err := r.checkWrite(doc); err != nil {
		return err
	}

	existing.CategoryID = doc.CategoryID
	existing.Title = doc.Title
	existing.Slug = doc.Slug
	existing.Content = doc.Content
	existing.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.data.documents[doc.ID] = existing
	doc.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete removes a document with its versions and changelog entries
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DocumentRepository.Delete"); err != nil {
		return err
	}

	if _, ok := s.data.documents[id]; !ok {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	delete(s.data.documents, id)
	for vid, v := range s.data.versions {
		if v.DocumentID == id {
			delete(s.data.versions, vid)
		}
	}
	for cid, c := range s.data.changelogs {
		if c.DocumentID == id {
			delete(s.data.changelogs, cid)
		}
	}
	return nil
}

func (r *DocumentRepository) checkWrite(doc *models.Document) error {
	if _, ok := r.store.data.categories[doc.CategoryID]; !ok {
		return fmt.Errorf("category %d: %w", doc.CategoryID, domain.ErrNotFound)
	}
	for _, d := range r.store.data.documents {
		if d.ID != doc.ID && d.CategoryID == doc.CategoryID && d.Slug == doc.Slug {
			return domain.NewValidation("slug", "a document with slug %q already exists in this category", doc.Slug)
		}
	}
	return nil
}
