package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"docvault/internal/httputil"
)

// Recovery turns a handler panic into a logged 500 problem response.
// http.ErrAbortHandler is re-panicked so the server aborts the connection,
// and nothing is written when the handler already sent its headers.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := asRecorder(w)
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(p)
				}

				requestID := httputil.GetRequestID(r.Context())
				logger.Error("panic recovered",
					"panic", p,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestID,
					"headers_sent", rec.wroteHeader,
					"stack", string(debug.Stack()),
				)
				if rec.wroteHeader {
					return
				}

				problem := httputil.ProblemDetail{
					Type:   "about:blank",
					Title:  http.StatusText(http.StatusInternalServerError),
					Status: http.StatusInternalServerError,
					Detail: "internal server error",
				}
				if requestID != "" {
					problem.Instance = "urn:request:" + requestID
				}
				httputil.RespondProblem(rec, problem)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
