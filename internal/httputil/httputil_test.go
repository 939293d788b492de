package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusBadRequest, "slug taken", map[string]any{
		"field":  "slug",
		"status": 999, // must not override the real status
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "slug", body["field"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "Bad Request", body["title"])
	assert.Equal(t, "slug taken", body["detail"])
	assert.Contains(t, body["type"], "rfc9110")
}

func TestRespondJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOptionalInt64(t *testing.T) {
	var req struct {
		ParentID OptionalInt64 `json:"parent_id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.False(t, req.ParentID.Present)

	require.NoError(t, json.Unmarshal([]byte(`{"parent_id": null}`), &req))
	assert.True(t, req.ParentID.Present)
	assert.Nil(t, req.ParentID.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"parent_id": 7}`), &req))
	require.NotNil(t, req.ParentID.Value)
	assert.Equal(t, int64(7), *req.ParentID.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"parent_id": "7"}`), &req))
}

func TestParseJSON(t *testing.T) {
	parse := func(body string) error {
		var dest map[string]any
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return ParseJSON(httptest.NewRecorder(), r, &dest)
	}

	assert.NoError(t, parse(`{"a": 1}`))
	assert.NoError(t, parse("{\"a\": 1}\n"))
	assert.ErrorIs(t, parse(""), ErrEmptyBody)
	assert.ErrorIs(t, parse(`{"a": "`+strings.Repeat("x", 6<<20)+`"}`), ErrBodyTooLarge)
	assert.ErrorContains(t, parse(`{"a": 1} {"b": 2}`), "unexpected data")
}
