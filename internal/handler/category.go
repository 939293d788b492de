package handler

import (
	"log/slog"
	"net/http"

	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/httputil"
)

// CategoryHandler handles category tree HTTP requests
type CategoryHandler struct {
	categories docvaultSvc.CategoryTree
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories docvaultSvc.CategoryTree, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// ListCategories returns the whole forest ordered by path
// GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a category
// POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req docvaultSvc.CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, category)
}

// GetCategory retrieves a category by ID
// GET /api/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, category)
}

// GetByPath resolves a slash-separated slug path
// GET /api/categories/by-path?path=legal/contracts
func (h *CategoryHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		httputil.RespondError(w, http.StatusBadRequest, "path is required")
		return
	}

	category, err := h.categories.GetByPath(r.Context(), path)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, category)
}

// UpdateCategory updates fields; a parent_id change moves the subtree
// PATCH /api/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req docvaultSvc.UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, category)
}

// MoveCategory reparents a category; parent_id null moves it to the root
// POST /api/categories/{id}/move
func (h *CategoryHandler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req docvaultSvc.MoveCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categories.MoveTo(r.Context(), id, req.ParentID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category and its subtree
// DELETE /api/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAncestors lists the chain from the root
// GET /api/categories/{id}/ancestors?include_self=true
func (h *CategoryHandler) GetAncestors(w http.ResponseWriter, r *http.Request) {
	h.relatives(w, r, func(c *models.Category, includeSelf bool) ([]models.Category, error) {
		return h.categories.GetAncestors(r.Context(), c, includeSelf)
	})
}

// GetDescendants lists the subtree
// GET /api/categories/{id}/descendants?include_self=true
func (h *CategoryHandler) GetDescendants(w http.ResponseWriter, r *http.Request) {
	h.relatives(w, r, func(c *models.Category, includeSelf bool) ([]models.Category, error) {
		return h.categories.GetDescendants(r.Context(), c, includeSelf)
	})
}

// GetSiblings lists categories sharing the parent
// GET /api/categories/{id}/siblings?include_self=true
func (h *CategoryHandler) GetSiblings(w http.ResponseWriter, r *http.Request) {
	h.relatives(w, r, func(c *models.Category, includeSelf bool) ([]models.Category, error) {
		return h.categories.GetSiblings(r.Context(), c, includeSelf)
	})
}

// GetChildren lists immediate children
// GET /api/categories/{id}/children
func (h *CategoryHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	h.relatives(w, r, func(c *models.Category, _ bool) ([]models.Category, error) {
		return h.categories.GetChildren(r.Context(), c)
	})
}

// GetDocuments lists every document in the subtree
// GET /api/categories/{id}/documents
func (h *CategoryHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	docs, err := h.categories.GetAllDocuments(r.Context(), category)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, docs)
}

func (h *CategoryHandler) relatives(w http.ResponseWriter, r *http.Request, fetch func(*models.Category, bool) ([]models.Category, error)) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	related, err := fetch(category, queryBool(r, "include_self"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, related)
}

// load fetches the {id} category, writing the error response itself on failure
func (h *CategoryHandler) load(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid category ID")
		return nil, false
	}

	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return nil, false
	}
	return category, true
}
