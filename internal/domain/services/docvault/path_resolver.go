package docvault

import (
	"context"

	"docvault/internal/domain/models/docvault"
)

// Intent tells the resolver what kind of route the caller is serving
type Intent int

const (
	// IntentAny prefers an exact category match for the full path
	IntentAny Intent = iota
	// IntentDocument prefers "parent category + document slug" when both readings exist
	IntentDocument
)

// PathResolver maps a slash-separated content path to a category, a document or nothing
type PathResolver interface {
	// Resolve never reports an unmatched path as an error; it returns a
	// RouteNotFound route. Errors mean the tree index could not be built.
	Resolve(ctx context.Context, rawPath string, intent Intent) (*docvault.Route, error)
}
