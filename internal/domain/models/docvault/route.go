package docvault

// RouteKind is the outcome of resolving a content path
type RouteKind string

const (
	RouteNotFound RouteKind = "not_found"
	RouteCategory RouteKind = "category"
	RouteDocument RouteKind = "document"
)

// Route is the routing decision for a slash-separated content path.
// Category is set for both category and document routes; Document only for the latter.
type Route struct {
	Kind     RouteKind `json:"kind"`
	Path     string    `json:"path"`
	Category *Category `json:"category,omitempty"`
	Document *Document `json:"document,omitempty"`
}

// Found reports whether the route resolved to anything
func (r *Route) Found() bool {
	return r != nil && r.Kind != RouteNotFound
}
