package docvault

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	"docvault/internal/domain/repositories"
	docvaultRepo "docvault/internal/domain/repositories/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

type categoryService struct {
	categoryRepo docvaultRepo.CategoryRepository
	docRepo      docvaultRepo.DocumentRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewCategoryService creates the category tree service
func NewCategoryService(
	categoryRepo docvaultRepo.CategoryRepository,
	docRepo docvaultRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docvaultSvc.CategoryTree {
	return &categoryService{
		categoryRepo: categoryRepo,
		docRepo:      docRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateCategory inserts the row, then writes path/depth once the ID exists.
// Both writes share one transaction.
func (s *categoryService) CreateCategory(ctx context.Context, req *docvaultSvc.CreateCategoryRequest) (*models.Category, error) {
	if err := validateCreateCategory(req); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		parentPath := ""
		if req.ParentID != nil {
			parent, err := s.categoryRepo.GetByID(txCtx, *req.ParentID)
			if err != nil {
				return fmt.Errorf("parent category: %w", err)
			}
			if parentPath, err = s.storedPath(txCtx, parent); err != nil {
				return err
			}
		}

		if err := s.checkSiblingSlug(txCtx, req.ParentID, req.Slug, 0); err != nil {
			return err
		}

		if err := s.categoryRepo.Create(txCtx, category); err != nil {
			return err
		}

		category.Path = ChildPath(parentPath, category.ID)
		category.Depth = PathDepth(category.Path)
		return s.categoryRepo.UpdatePaths(txCtx, []models.PathUpdate{
			{ID: category.ID, Path: category.Path, Depth: category.Depth},
		})
	})
	if err != nil {
		return nil, err
	}

	s.attachURLPath(ctx, category)

	s.logger.Info("category created",
		"id", category.ID,
		"slug", category.Slug,
		"parent_id", category.ParentID,
		"path", category.Path,
	)

	return category, nil
}

// GetCategory retrieves a category with its URL path
func (s *categoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachURLPath(ctx, category)
	return category, nil
}

// ListCategories returns the forest ordered by path; URL paths come from one
// in-memory layout instead of per-node ancestor lookups
func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	layout := layoutTree(categories)
	for i := range categories {
		categories[i].URLPath = layout.urlPaths[categories[i].ID]
	}
	slices.SortFunc(categories, func(a, b models.Category) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.ID, b.ID))
	})
	return categories, nil
}

// UpdateCategory applies field changes; a parent change is a move
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *docvaultSvc.UpdateCategoryRequest) (*models.Category, error) {
	if err := validateUpdateCategory(req); err != nil {
		return nil, err
	}

	var updated *models.Category
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		category, err := s.categoryRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.Description != nil {
			category.Description = *req.Description
		}
		if req.Slug != nil && *req.Slug != category.Slug {
			if err := s.checkSiblingSlug(txCtx, category.ParentID, *req.Slug, category.ID); err != nil {
				return err
			}
			category.Slug = *req.Slug
		}

		if err := s.categoryRepo.Update(txCtx, category); err != nil {
			return err
		}

		if req.ParentID.Present {
			category, err = s.MoveTo(txCtx, id, req.ParentID.Value)
			if err != nil {
				return err
			}
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachURLPath(ctx, updated)

	s.logger.Info("category updated",
		"id", updated.ID,
		"slug", updated.Slug,
		"path", updated.Path,
	)

	return updated, nil
}

// DeleteCategory deletes a subtree, refusing while any node in it owns documents
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	var deleted int
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		category, err := s.categoryRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		subtree, err := s.subtree(txCtx, category)
		if err != nil {
			return err
		}
		ids := categoryIDs(subtree)

		count, err := s.docRepo.CountByCategories(txCtx, ids)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		if count > 0 {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category %q still owns %d document(s)", category.Name, count),
				ResourceType: "category",
				ResourceID:   fmt.Sprint(category.ID),
			}
		}

		deleted = len(ids)
		return s.categoryRepo.DeleteByIDs(txCtx, ids)
	})
	if err != nil {
		return err
	}

	s.logger.Info("category deleted", "id", id, "categories_removed", deleted)
	return nil
}

// GetAncestors decodes the id chain from the path and fetches it in one batch.
// An unset path falls back to walking parent links.
func (s *categoryService) GetAncestors(ctx context.Context, category *models.Category, includeSelf bool) ([]models.Category, error) {
	ids, err := DecodePath(category.Path)
	if err != nil {
		s.logger.Warn("malformed category path, walking parents", "id", category.ID, "path", category.Path)
	}
	if err != nil || len(ids) == 0 {
		return s.walkAncestors(ctx, category, includeSelf)
	}

	if !includeSelf {
		ids = ids[:len(ids)-1]
	}
	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	ancestors, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(ancestors) != len(ids) {
		violation := fmt.Sprintf("category %d: path %q references %d categories, found %d",
			category.ID, category.Path, len(ids), len(ancestors))
		s.logger.Error("category path references missing ancestors", "id", category.ID, "path", category.Path)
		return nil, &domain.IntegrityError{Violations: []string{violation}}
	}
	return ancestors, nil
}

// GetDescendants returns the subtree below category, ordered by path
func (s *categoryService) GetDescendants(ctx context.Context, category *models.Category, includeSelf bool) ([]models.Category, error) {
	subtree, err := s.subtree(ctx, category)
	if err != nil {
		return nil, err
	}
	if includeSelf {
		return subtree, nil
	}
	return slices.DeleteFunc(subtree, func(c models.Category) bool { return c.ID == category.ID }), nil
}

// GetSiblings returns categories with the same parent (or all roots for a root)
func (s *categoryService) GetSiblings(ctx context.Context, category *models.Category, includeSelf bool) ([]models.Category, error) {
	siblings, err := s.categoryRepo.ListChildren(ctx, category.ParentID)
	if err != nil {
		return nil, err
	}
	if includeSelf {
		return siblings, nil
	}
	return slices.DeleteFunc(siblings, func(c models.Category) bool { return c.ID == category.ID }), nil
}

// GetChildren returns immediate children
func (s *categoryService) GetChildren(ctx context.Context, category *models.Category) ([]models.Category, error) {
	return s.categoryRepo.ListChildren(ctx, &category.ID)
}

// GetAllDocuments collects the subtree's IDs, then fetches documents in one batch
func (s *categoryService) GetAllDocuments(ctx context.Context, category *models.Category) ([]models.Document, error) {
	subtree, err := s.subtree(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.docRepo.ListByCategories(ctx, categoryIDs(subtree))
}

// GetByPath resolves "a/b/c" with one batch fetch of every category whose slug
// appears in the path, then walks (slug, parent) pairs in memory
func (s *categoryService) GetByPath(ctx context.Context, path string) (*models.Category, error) {
	segments := SplitURLPath(path)
	if len(segments) == 0 {
		return nil, domain.NewNotFound("category", path)
	}

	candidates, err := s.categoryRepo.ListBySlugs(ctx, uniqueStrings(segments))
	if err != nil {
		return nil, err
	}

	// parent id (0 for roots) -> slug -> candidates, ordered by depth then id
	index := map[int64]map[string][]*models.Category{}
	for i := range candidates {
		c := &candidates[i]
		key := parentKey(c.ParentID)
		if index[key] == nil {
			index[key] = map[string][]*models.Category{}
		}
		index[key][c.Slug] = append(index[key][c.Slug], c)
	}

	found := s.walkSlugs(index, segments, 0, 0)
	if found == nil {
		return nil, domain.NewNotFound("category", JoinURLPath(segments...))
	}
	found.URLPath = JoinURLPath(segments...)
	return found, nil
}

// walkSlugs descends one segment per level. Sibling slugs are unique, so more
// than one candidate is corrupt data: it is logged and the first candidate
// that completes the path wins.
func (s *categoryService) walkSlugs(index map[int64]map[string][]*models.Category, segments []string, level int, parent int64) *models.Category {
	options := index[parent][segments[level]]
	if len(options) > 1 {
		s.logger.Warn("duplicate category slug under one parent",
			"slug", segments[level],
			"parent_id", parent,
			"count", len(options),
		)
	}
	for _, c := range options {
		if level == len(segments)-1 {
			return c
		}
		if found := s.walkSlugs(index, segments, level+1, c.ID); found != nil {
			return found
		}
	}
	return nil
}

// GetURLPath joins the ancestor slugs root-first
func (s *categoryService) GetURLPath(ctx context.Context, category *models.Category) (string, error) {
	chain, err := s.GetAncestors(ctx, category, true)
	if err != nil {
		return "", err
	}
	slugs := make([]string, len(chain))
	for i, c := range chain {
		slugs[i] = c.Slug
	}
	return JoinURLPath(slugs...), nil
}

// MoveTo reparents a category. Every check runs before the first write; the
// subtree is loaded once and rewritten parent-before-child in one batch.
func (s *categoryService) MoveTo(ctx context.Context, id int64, newParentID *int64) (*models.Category, error) {
	var (
		moved   *models.Category
		changes int
		noop    bool
	)

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		category, err := s.categoryRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if models.SameParent(category.ParentID, newParentID) {
			moved, noop = category, true
			return nil
		}
		if newParentID != nil && *newParentID == id {
			return &domain.CycleError{CategoryID: id, TargetID: id}
		}

		subtree, err := s.subtree(txCtx, category)
		if err != nil {
			return err
		}

		parentPath := ""
		if newParentID != nil {
			parent, err := s.categoryRepo.GetByID(txCtx, *newParentID)
			if err != nil {
				return fmt.Errorf("target parent: %w", err)
			}
			if slices.ContainsFunc(subtree, func(c models.Category) bool { return c.ID == parent.ID }) ||
				IsDescendantPath(parent.Path, category.Path) {
				return &domain.CycleError{CategoryID: id, TargetID: parent.ID}
			}
			if parentPath, err = s.storedPath(txCtx, parent); err != nil {
				return err
			}
		}

		if err := s.checkSiblingSlug(txCtx, newParentID, category.Slug, category.ID); err != nil {
			return err
		}

		updates, err := s.recomputeSubtree(category, subtree, parentPath)
		if err != nil {
			return err
		}

		category.ParentID = newParentID
		if err := s.categoryRepo.Update(txCtx, category); err != nil {
			return err
		}
		if err := s.categoryRepo.UpdatePaths(txCtx, updates); err != nil {
			return err
		}

		category.Path = updates[0].Path
		category.Depth = updates[0].Depth
		moved, changes = category, len(updates)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.logger.Info("category moved",
			"id", moved.ID,
			"parent_id", moved.ParentID,
			"path", moved.Path,
			"rewritten", changes,
		)
	}
	s.attachURLPath(ctx, moved)
	return moved, nil
}

// recomputeSubtree walks the subtree depth-first from root using parent links,
// so each child is computed from its parent's new path
func (s *categoryService) recomputeSubtree(root *models.Category, subtree []models.Category, parentPath string) ([]models.PathUpdate, error) {
	children := map[int64][]models.Category{}
	for _, c := range subtree {
		if c.ID != root.ID && c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	updates := make([]models.PathUpdate, 0, len(subtree))
	var visit func(id int64, path string)
	visit = func(id int64, path string) {
		updates = append(updates, models.PathUpdate{ID: id, Path: path, Depth: PathDepth(path)})
		for _, child := range children[id] {
			visit(child.ID, ChildPath(path, child.ID))
		}
	}
	visit(root.ID, ChildPath(parentPath, root.ID))

	if len(updates) != len(subtree) {
		violation := fmt.Sprintf("category %d: %d categories share its path prefix but only %d are linked below it",
			root.ID, len(subtree), len(updates))
		s.logger.Error("subtree paths disagree with parent links", "id", root.ID, "path", root.Path)
		return nil, &domain.IntegrityError{Violations: []string{violation}}
	}
	return updates, nil
}

// subtree returns category and its descendants via the path prefix. An unset
// path falls back to following parent links over the whole forest.
func (s *categoryService) subtree(ctx context.Context, category *models.Category) ([]models.Category, error) {
	if category.Path != "" {
		return s.categoryRepo.ListByPathPrefix(ctx, category.Path)
	}

	all, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	children := map[int64][]models.Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	out := []models.Category{*category}
	seen := map[int64]bool{category.ID: true}
	for i := 0; i < len(out); i++ {
		for _, child := range children[out[i].ID] {
			if !seen[child.ID] {
				seen[child.ID] = true
				out = append(out, child)
			}
		}
	}
	return out, nil
}

// walkAncestors follows parent links one hop at a time
func (s *categoryService) walkAncestors(ctx context.Context, category *models.Category, includeSelf bool) ([]models.Category, error) {
	var chain []models.Category
	if includeSelf {
		chain = append(chain, *category)
	}

	seen := map[int64]bool{category.ID: true}
	current := category
	for current.ParentID != nil {
		parentID := *current.ParentID
		if seen[parentID] {
			return nil, &domain.IntegrityError{Violations: []string{
				fmt.Sprintf("category %d: parent chain loops through %d", category.ID, parentID),
			}}
		}
		seen[parentID] = true

		parent, err := s.categoryRepo.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.IntegrityError{Violations: []string{
					fmt.Sprintf("category %d: parent %d does not exist", current.ID, parentID),
				}}
			}
			return nil, err
		}
		chain = append(chain, *parent)
		current = parent
	}

	slices.Reverse(chain)
	return chain, nil
}

// storedPath returns the category's path, rebuilding it from parent links when unset
func (s *categoryService) storedPath(ctx context.Context, category *models.Category) (string, error) {
	if category.Path != "" {
		return category.Path, nil
	}
	chain, err := s.walkAncestors(ctx, category, true)
	if err != nil {
		return "", err
	}
	return EncodePath(categoryIDs(chain)), nil
}

func (s *categoryService) checkSiblingSlug(ctx context.Context, parentID *int64, slug string, selfID int64) error {
	siblings, err := s.categoryRepo.ListChildren(ctx, parentID)
	if err != nil {
		return fmt.Errorf("check sibling slugs: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != selfID && sibling.Slug == slug {
			return domain.NewValidation("slug", "a category with slug %q already exists under this parent", slug)
		}
	}
	return nil
}

func (s *categoryService) attachURLPath(ctx context.Context, category *models.Category) {
	urlPath, err := s.GetURLPath(ctx, category)
	if err != nil {
		s.logger.Warn("failed to compute url path", "id", category.ID, "error", err)
		category.URLPath = category.Slug
		return
	}
	category.URLPath = urlPath
}

func categoryIDs(categories []models.Category) []int64 {
	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func parentKey(parentID *int64) int64 {
	if parentID == nil {
		return 0
	}
	return *parentID
}

func uniqueStrings(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
