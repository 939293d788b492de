package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/config"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/httputil"
)

// ChangelogHandler handles changelog HTTP requests
type ChangelogHandler struct {
	changelogs docvaultSvc.ChangelogService
	logger     *slog.Logger
}

// NewChangelogHandler creates a new changelog handler
func NewChangelogHandler(changelogs docvaultSvc.ChangelogService, logger *slog.Logger) *ChangelogHandler {
	return &ChangelogHandler{
		changelogs: changelogs,
		logger:     logger,
	}
}

// CreateChangelog records an entry for a document
// POST /api/documents/{id}/changelog
func (h *ChangelogHandler) CreateChangelog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	var req docvaultSvc.CreateChangelogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CreatedBy = userRef(r)

	entry, err := h.changelogs.CreateChangelog(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// ListDocumentChangelog lists a document's entries newest first
// GET /api/documents/{id}/changelog?limit=N
func (h *ChangelogHandler) ListDocumentChangelog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	limit, ok := limitParam(r, config.ChangelogFeedLimit, config.ChangelogFeedLimit)
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	entries, err := h.changelogs.ListDocumentChangelog(r.Context(), id, limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}

// ListGlobalChangelog lists MAJOR and featured entries across all documents
// GET /api/changelog?limit=N
func (h *ChangelogHandler) ListGlobalChangelog(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r, config.ChangelogFeedLimit, config.ChangelogFeedLimit)
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	entries, err := h.changelogs.ListGlobalChangelog(r.Context(), limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}
