package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"docvault/internal/httputil"
)

// HealthHandler reports process and storage liveness
type HealthHandler struct {
	ping    func(ctx context.Context) error
	storage string
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler. ping may be nil for storage
// without a connection to check.
func NewHealthHandler(storage string, ping func(ctx context.Context) error, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, storage: storage, logger: logger}
}

// HealthCheck returns health status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", "storage", h.storage, "error", err)
			httputil.RespondError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.storage,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
