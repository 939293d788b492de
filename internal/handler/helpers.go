package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"docvault/internal/domain"
	"docvault/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		integrityErr *domain.IntegrityError
		validErr     *domain.ValidationError
		httpErr      domain.HTTPError
	)

	switch {
	case errors.As(err, &integrityErr):
		// Stored tree is corrupt; details go to the log, not the client
		logger.Error("integrity violation", "violations", integrityErr.Violations)
		httputil.RespondError(w, http.StatusInternalServerError, "category tree integrity violation")
	case errors.As(err, &validErr) && validErr.Field != "":
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, validErr.Error(), map[string]any{
			"field": validErr.Field,
		})
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCycle):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses the JSON body into dest, writing the error response itself on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := httputil.ParseJSON(w, r, dest)
	switch {
	case err == nil:
		return true
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, httputil.ErrEmptyBody):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

// pathID parses a positive int64 path value
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional positive integer query parameter.
// A missing parameter returns (nil, true); a malformed one returns (nil, false).
func queryInt(r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &n, true
}

// queryBool reads flags such as ?include_self=true or a bare ?select
func queryBool(r *http.Request, name string) bool {
	q := r.URL.Query()
	if !q.Has(name) {
		return false
	}
	switch q.Get(name) {
	case "", "1", "true", "yes", "on":
		return true
	}
	return false
}

// limitParam reads ?limit=N, falling back to def and capping at max
func limitParam(r *http.Request, def, max int) (int, bool) {
	n, ok := queryInt(r, "limit")
	if !ok {
		return 0, false
	}
	if n == nil {
		return def, true
	}
	return min(*n, max), true
}

// userRef returns the authenticated user id for attribution, or nil when anonymous
func userRef(r *http.Request) *string {
	if id := httputil.GetUserID(r); id != "" {
		return &id
	}
	return nil
}
