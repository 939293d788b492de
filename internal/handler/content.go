package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/httputil"
)

// Content views selected with ?view=
const (
	viewVersions  = "versions"
	viewVersion   = "version"
	viewChangelog = "changelog"
	viewCompare   = "compare"
)

// ContentResponse is the rendering handoff: which template to use and its data
type ContentResponse struct {
	Kind string `json:"kind"`
	View any    `json:"view"`
}

// ContentHandler serves the browsable /docs tree
type ContentHandler struct {
	content  docvaultSvc.ContentService
	resolver docvaultSvc.PathResolver
	logger   *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(content docvaultSvc.ContentService, resolver docvaultSvc.PathResolver, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		content:  content,
		resolver: resolver,
		logger:   logger,
	}
}

// Home lists root categories
// GET /docs
func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	view, err := h.content.Home(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ContentResponse{Kind: "home", View: view})
}

// Browse serves a category or document page, or a document sub-view
// GET /docs/{path...}?view=versions|version|changelog|compare
func (h *ContentHandler) Browse(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if strings.Trim(path, "/") == "" {
		h.Home(w, r)
		return
	}

	switch view := r.URL.Query().Get("view"); view {
	case "":
		h.page(w, r, path)
	case viewVersions:
		h.respond(w, viewVersions, func() (any, error) { return h.content.VersionHistory(r.Context(), path) })
	case viewChangelog:
		h.respond(w, viewChangelog, func() (any, error) { return h.content.ChangelogView(r.Context(), path) })
	case viewVersion:
		number, ok := queryInt(r, "version")
		if !ok || number == nil {
			httputil.RespondError(w, http.StatusBadRequest, "version must be a positive number")
			return
		}
		h.respond(w, viewVersion, func() (any, error) { return h.content.VersionView(r.Context(), path, *number) })
	case viewCompare:
		v1, ok1 := queryInt(r, "v1")
		v2, ok2 := queryInt(r, "v2")
		if !ok1 || !ok2 {
			httputil.RespondError(w, http.StatusBadRequest, "v1 and v2 must be positive numbers")
			return
		}
		req := &docvaultSvc.CompareRequest{V1: v1, V2: v2, Select: queryBool(r, "select")}
		h.respond(w, viewCompare, func() (any, error) { return h.content.CompareView(r.Context(), path, req) })
	default:
		httputil.RespondError(w, http.StatusBadRequest, "unknown view "+view)
	}
}

// page decides between the category and document reading of path
func (h *ContentHandler) page(w http.ResponseWriter, r *http.Request, path string) {
	route, err := h.resolver.Resolve(r.Context(), path, docvaultSvc.IntentAny)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	switch route.Kind {
	case models.RouteCategory:
		h.respond(w, string(models.RouteCategory), func() (any, error) { return h.content.CategoryView(r.Context(), path) })
	case models.RouteDocument:
		h.respond(w, string(models.RouteDocument), func() (any, error) { return h.content.DocumentView(r.Context(), path) })
	default:
		handleError(w, h.logger, domain.NewNotFound("page", route.Path))
	}
}

func (h *ContentHandler) respond(w http.ResponseWriter, kind string, build func() (any, error)) {
	view, err := build()
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, ContentResponse{Kind: kind, View: view})
}
