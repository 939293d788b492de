package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docvault/internal/middleware"
	"docvault/internal/repository/memory"
	"docvault/internal/repository/storage"
	"docvault/internal/service/docvault"
	"docvault/internal/service/docvault/formatter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := storage.OpenMemory()
	services := docvault.SetupServices(backend.Repos, formatter.NewHTMLFormatter(), logger)

	handlers := &Handlers{
		Health:     NewHealthHandler(backend.Name, backend.Ping, logger),
		Categories: NewCategoryHandler(services.Categories, logger),
		Documents:  NewDocumentHandler(services.Documents, formatter.NewExporter(), logger),
		Changelogs: NewChangelogHandler(services.Changelogs, logger),
		Resolve:    NewResolveHandler(services.Resolver, logger),
		Content:    NewContentHandler(services.Content, services.Resolver, logger),
	}
	mux := http.NewServeMux()
	handlers.Register(mux)

	return &testServer{handler: middleware.TreeIndexScope(mux), store: backend.Store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// create posts body and decodes the "id" of the created resource
func (s *testServer) create(t *testing.T, path string, body any) int64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type problem struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Field  string `json:"field"`
}

func TestCategoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	contracts := s.create(t, "/api/categories", map[string]any{"name": "Contracts", "slug": "contracts", "parent_id": legal})

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", contracts), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "1.2", got["path"])
	assert.Equal(t, "legal/contracts", got["url_path"])

	rec = s.do(t, http.MethodGet, "/api/categories/by-path?path=legal/contracts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, contracts, decode[map[string]any](t, rec)["id"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d/ancestors?include_self", contracts), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d/descendants", legal), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	// duplicate sibling slug
	rec = s.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "slug", decode[problem](t, rec).Field)

	// cycle
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/categories/%d/move", legal), map[string]any{"parent_id": contracts})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[problem](t, rec).Detail, "descendant")

	// move to root with the PATCH form
	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/api/categories/%d", contracts), map[string]any{"parent_id": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decode[map[string]any](t, rec)
	assert.Equal(t, "2", moved["path"])
	assert.EqualValues(t, 0, moved["depth"])

	rec = s.do(t, http.MethodGet, "/api/categories/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/categories/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/categories/by-path", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)
}

func TestDeleteCategory_Conflict(t *testing.T) {
	s := newTestServer(t)
	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	doc := s.create(t, "/api/documents", map[string]any{"title": "NDA", "slug": "nda", "content": "x", "category_id": legal})

	rec := s.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", legal), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/documents/%d", doc), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", legal), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDocumentEndpoints(t *testing.T) {
	s := newTestServer(t)
	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	doc := s.create(t, "/api/documents", map[string]any{
		"title": "NDA", "slug": "nda", "category_id": legal,
		"content": "<h1>NDA</h1><p>one</p>",
	})

	rec := s.do(t, http.MethodPatch, fmt.Sprintf("/api/documents/%d", doc), map[string]any{
		"content": "<h1>NDA</h1><h2>Scope</h2><p>two</p>",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/versions", doc), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	versions := decode[[]map[string]any](t, rec)
	require.Len(t, versions, 2)
	assert.EqualValues(t, 2, versions[0]["version_number"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/versions/1", doc), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, rec)
	assert.Nil(t, detail["previous"])
	assert.NotNil(t, detail["next"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/versions/7", doc), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/compare?v1=1&v2=2", doc), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec)["diff"], "+<h1>NDA</h1><h2>Scope</h2><p>two</p>")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/compare?v1=1", doc), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/compare?v1=1&v2=x", doc), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/toc", doc), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	toc := decode[[]map[string]any](t, rec)
	require.Len(t, toc, 2)
	assert.Equal(t, "scope", toc[1]["id"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/export?format=markdown", doc), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown"))
	assert.Contains(t, rec.Body.String(), "## Scope")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/export?format=pdf", doc), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// duplicate slug in the same category
	rec = s.do(t, http.MethodPost, "/api/documents", map[string]any{"title": "Other", "slug": "nda", "category_id": legal})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangelogEndpoints(t *testing.T) {
	s := newTestServer(t)
	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	doc := s.create(t, "/api/documents", map[string]any{"title": "NDA", "slug": "nda", "content": "x", "category_id": legal})

	path := fmt.Sprintf("/api/documents/%d/changelog", doc)
	s.create(t, path, map[string]any{"description": "minor fix", "importance": "MINOR"})
	s.create(t, path, map[string]any{"description": "major rewrite", "importance": "MAJOR", "version_number": 1})

	rec := s.do(t, http.MethodPost, path, map[string]any{"description": "x", "importance": "URGENT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/changelog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]map[string]any](t, rec)
	require.Len(t, feed, 1)
	assert.Equal(t, "major rewrite", feed[0]["description"])
	assert.EqualValues(t, 1, feed[0]["version_number"])
}

func TestResolveEndpoint(t *testing.T) {
	s := newTestServer(t)
	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	s.create(t, "/api/categories", map[string]any{"name": "Guides", "slug": "guides", "parent_id": legal})
	s.create(t, "/api/documents", map[string]any{"title": "Guides", "slug": "guides", "content": "x", "category_id": legal})

	tests := []struct {
		query string
		kind  string
	}{
		{"path=legal", "category"},
		{"path=legal/guides", "category"},
		{"path=legal/guides&intent=document", "document"},
		{"path=legal/missing", "not_found"},
		{"path=", "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/resolve?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.kind, decode[map[string]any](t, rec)["kind"])
		})
	}

	rec := s.do(t, http.MethodGet, "/api/resolve?path=legal&intent=folder", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentEndpoints(t *testing.T) {
	s := newTestServer(t)
	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	contracts := s.create(t, "/api/categories", map[string]any{"name": "Contracts", "slug": "contracts", "parent_id": legal})
	doc := s.create(t, "/api/documents", map[string]any{"title": "NDA", "slug": "nda", "content": "one\n", "category_id": contracts})
	rec := s.do(t, http.MethodPatch, fmt.Sprintf("/api/documents/%d", doc), map[string]any{"content": "two\n"})
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		path       string
		wantStatus int
		wantKind   string
	}{
		{"/docs", http.StatusOK, "home"},
		{"/docs/", http.StatusOK, "home"},
		{"/docs/legal", http.StatusOK, "category"},
		{"/docs/legal/contracts", http.StatusOK, "category"},
		{"/docs/legal/contracts/nda", http.StatusOK, "document"},
		{"/docs/legal/contracts/nda?view=versions", http.StatusOK, "versions"},
		{"/docs/legal/contracts/nda?view=version&version=1", http.StatusOK, "version"},
		{"/docs/legal/contracts/nda?view=changelog", http.StatusOK, "changelog"},
		{"/docs/legal/contracts/nda?view=compare", http.StatusOK, "compare"},
		{"/docs/legal/contracts/nda?view=compare&v1=1&v2=2", http.StatusOK, "compare"},
		{"/docs/legal/contracts/nda?view=version", http.StatusBadRequest, ""},
		{"/docs/legal/contracts/nda?view=version&version=9", http.StatusNotFound, ""},
		{"/docs/legal/contracts/nda?view=bogus", http.StatusBadRequest, ""},
		{"/docs/legal/contracts?view=versions", http.StatusNotFound, ""},
		{"/docs/legal/nowhere", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, decode[ContentResponse](t, rec).Kind)
			}
		})
	}

	rec = s.do(t, http.MethodGet, "/docs/legal/contracts/nda?view=compare&v1=1&v2=2", nil)
	body := decode[struct {
		View struct {
			Mode       string `json:"compare_mode"`
			Comparison struct {
				Diff string `json:"diff"`
			} `json:"comparison"`
		} `json:"view"`
	}](t, rec)
	assert.Equal(t, "diff", body.View.Mode)
	assert.Contains(t, body.View.Comparison.Diff, "+two")
}

func TestContentEndpoint_SingleIndexPerRequest(t *testing.T) {
	s := newTestServer(t)
	legal := s.create(t, "/api/categories", map[string]any{"name": "Legal", "slug": "legal"})
	s.create(t, "/api/documents", map[string]any{"title": "NDA", "slug": "nda", "content": "x", "category_id": legal})

	s.store.ResetCalls()
	rec := s.do(t, http.MethodGet, "/docs/legal/nda", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.store.Calls("CategoryRepository.GetAll"))
	assert.Equal(t, 1, s.store.Calls("DocumentRepository.GetAllMetadata"))
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestRequestBodyErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "empty", body: "", status: http.StatusBadRequest},
		{name: "malformed", body: `{"name":`, status: http.StatusBadRequest},
		{name: "trailing value", body: `{"name":"A","slug":"a"}{"x":1}`, status: http.StatusBadRequest},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", 6<<20) + `"}`, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}

	// nothing was created by the rejected requests
	assert.Empty(t, decode[[]map[string]any](t, s.do(t, http.MethodGet, "/api/categories", nil)))
}
