package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/config"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/httputil"
	"docvault/internal/service/docvault/formatter"
)

// DocumentHandler handles document and version HTTP requests
type DocumentHandler struct {
	documents docvaultSvc.DocumentStore
	exporter  *formatter.Exporter
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents docvaultSvc.DocumentStore, exporter *formatter.Exporter, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		exporter:  exporter,
		logger:    logger,
	}
}

// CreateDocument creates a document and its version 1
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req docvaultSvc.CreateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CreatedBy = userRef(r)

	doc, err := h.documents.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument updates a document; a content change appends a version
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	var req docvaultSvc.UpdateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.UpdatedBy = userRef(r)

	doc, err := h.documents.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document with its history
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	if err := h.documents.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVersions lists versions newest first
// GET /api/documents/{id}/versions?limit=N
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	limit, ok := limitParam(r, config.VersionHistoryLimit, config.VersionHistoryLimit)
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	versions, err := h.documents.ListVersions(r.Context(), id, limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion returns one version with previous/next and its changelog entry
// GET /api/documents/{id}/versions/{number}
func (h *DocumentHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	number, ok := pathID(r, "number")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid version number")
		return
	}

	detail, err := h.documents.GetVersion(r.Context(), id, int(number))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// CompareVersions diffs two versions
// GET /api/documents/{id}/compare?v1=1&v2=3
func (h *DocumentHandler) CompareVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	v1, ok1 := queryInt(r, "v1")
	v2, ok2 := queryInt(r, "v2")
	if !ok1 || !ok2 || v1 == nil || v2 == nil {
		httputil.RespondError(w, http.StatusBadRequest, "v1 and v2 must be positive version numbers")
		return
	}

	comparison, err := h.documents.CompareVersions(r.Context(), id, *v1, *v2)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, comparison)
}

// GetTableOfContents extracts headings from the current content
// GET /api/documents/{id}/toc
func (h *DocumentHandler) GetTableOfContents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, h.documents.GenerateTableOfContents(doc.Content))
}

// ExportDocument downloads the current content as markdown, text or html
// GET /api/documents/{id}/export?format=markdown
func (h *DocumentHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	body, mediaType, err := h.exporter.Export(doc.Content, r.URL.Query().Get("format"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
