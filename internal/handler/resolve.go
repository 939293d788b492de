package handler

import (
	"log/slog"
	"net/http"

	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/httputil"
)

// ResolveHandler exposes the content path resolver
type ResolveHandler struct {
	resolver docvaultSvc.PathResolver
	logger   *slog.Logger
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(resolver docvaultSvc.PathResolver, logger *slog.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Resolve reports whether a path names a category, a document or nothing.
// A not-found route is a 200 with kind "not_found".
// GET /api/resolve?path=legal/contracts/nda&intent=document
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	intent := docvaultSvc.IntentAny
	switch r.URL.Query().Get("intent") {
	case "", "any":
	case "document":
		intent = docvaultSvc.IntentDocument
	default:
		httputil.RespondError(w, http.StatusBadRequest, "intent must be \"any\" or \"document\"")
		return
	}

	route, err := h.resolver.Resolve(r.Context(), r.URL.Query().Get("path"), intent)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, route)
}
