package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	repos "docvault/internal/domain/repositories/docvault"
)

// CategoryRepository is the in-memory CategoryRepository
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a category repository over the store
func NewCategoryRepository(store *Store) repos.CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.Create"); err != nil {
		return err
	}

	if err := r.checkWrite(category); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	category.ID = s.data.nextID("categories")
	category.CreatedAt = now
	category.UpdatedAt = now
	stored := *category
	stored.URLPath = ""
	s.data.categories[category.ID] = stored
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.GetByID"); err != nil {
		return nil, err
	}

	c, ok := s.data.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.GetByIDs"); err != nil {
		return nil, err
	}

	out := []models.Category{}
	for _, id := range ids {
		if c, ok := s.data.categories[id]; ok {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, byDepthThenID)
	return slices.CompactFunc(out, func(a, b models.Category) bool { return a.ID == b.ID }), nil
}

func (r *CategoryRepository) ListByPathPrefix(ctx context.Context, prefix string) ([]models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.ListByPathPrefix"); err != nil {
		return nil, err
	}

	out := []models.Category{}
	for _, c := range s.data.categories {
		if c.Path == prefix || strings.HasPrefix(c.Path, prefix+".") {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Category) int { return cmp.Compare(a.Path, b.Path) })
	return out, nil
}

func (r *CategoryRepository) ListChildren(ctx context.Context, parentID *int64) ([]models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.ListChildren"); err != nil {
		return nil, err
	}

	out := []models.Category{}
	for _, c := range s.data.categories {
		if models.SameParent(c.ParentID, parentID) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Category) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *CategoryRepository) ListBySlugs(ctx context.Context, slugs []string) ([]models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.ListBySlugs"); err != nil {
		return nil, err
	}

	out := []models.Category{}
	for _, c := range s.data.categories {
		if slices.Contains(slugs, c.Slug) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, byDepthThenID)
	return out, nil
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.GetAll"); err != nil {
		return nil, err
	}

	out := make([]models.Category, 0, len(s.data.categories))
	for _, c := range s.data.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, byDepthThenID)
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.Update"); err != nil {
		return err
	}

	existing, ok := s.data.categories[category.ID]
	if !ok {
		return fmt.Errorf("category %d: %w", category.ID, domain.ErrNotFound)
	}
	if err := r.checkWrite(category); err != nil {
		return err
	}

	existing.Name = category.Name
	existing.Slug = category.Slug
	existing.Description = category.Description
	existing.ParentID = category.ParentID
	existing.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.data.categories[category.ID] = existing
	category.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *CategoryRepository) UpdatePaths(ctx context.Context, updates []models.PathUpdate) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.UpdatePaths"); err != nil {
		return err
	}

	var missing []string
	for _, u := range updates {
		if _, ok := s.data.categories[u.ID]; !ok {
			missing = append(missing, fmt.Sprintf("category %d does not exist", u.ID))
		}
	}
	if len(missing) > 0 {
		return &domain.IntegrityError{Violations: missing}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, u := range updates {
		c := s.data.categories[u.ID]
		c.Path = u.Path
		c.Depth = u.Depth
		c.UpdatedAt = now
		s.data.categories[u.ID] = c
	}
	return nil
}

// DeleteByIDs deletes the categories and, like ON DELETE CASCADE, their descendants
func (r *CategoryRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CategoryRepository.DeleteByIDs"); err != nil {
		return err
	}

	doomed := map[int64]bool{}
	queue := slices.Clone(ids)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if doomed[id] {
			continue
		}
		doomed[id] = true
		for _, c := range s.data.categories {
			if c.ParentID != nil && *c.ParentID == id {
				queue = append(queue, c.ID)
			}
		}
	}

	for _, d := range s.data.documents {
		if doomed[d.CategoryID] {
			return &domain.ConflictError{
				Message:      "category still owns documents",
				ResourceType: "category",
				ResourceID:   fmt.Sprint(d.CategoryID),
			}
		}
	}
	for id := range doomed {
		delete(s.data.categories, id)
	}
	return nil
}

// checkWrite enforces the parent reference and sibling slug uniqueness. Holds s.mu.
func (r *CategoryRepository) checkWrite(category *models.Category) error {
	if category.ParentID != nil {
		if _, ok := r.store.data.categories[*category.ParentID]; !ok {
			return fmt.Errorf("parent category %d: %w", *category.ParentID, domain.ErrNotFound)
		}
	}
	for _, c := range r.store.data.categories {
		if c.ID != category.ID && c.Slug == category.Slug && models.SameParent(c.ParentID, category.ParentID) {
			return domain.NewValidation("slug", "a category with slug %q already exists under this parent", category.Slug)
		}
	}
	return nil
}

func byDepthThenID(a, b models.Category) int {
	return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(a.ID, b.ID))
}
