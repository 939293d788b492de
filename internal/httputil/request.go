package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"docvault/internal/config"
)

var (
	// ErrBodyTooLarge is returned when the body exceeds config.MaxRequestBodyBytes
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrEmptyBody is returned for a request with no JSON at all
	ErrEmptyBody = errors.New("request body is empty")
)

// ParseJSON decodes a single JSON value from the request body into dest.
// Unknown fields are tolerated; request types validate their own fields.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	// MaxBytesReader needs w so the server can close the connection on overflow
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	// Reject trailing values such as `{"a":1}{"b":2}`
	if decoder.More() {
		return errors.New("invalid JSON: unexpected data after body")
	}
	return nil
}
