package middleware

import (
	"net/http"

	"docvault/internal/service/docvault"
)

// TreeIndexScope gives each request its own tree index scope, so every
// lookup in one request shares a single index build
func TreeIndexScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(docvault.WithIndexScope(r.Context())))
	})
}
