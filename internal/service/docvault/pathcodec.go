package docvault

import (
	"fmt"
	"strconv"
	"strings"
)

// Materialized paths are dot-joined decimal ids, root first, including self: "1.5.12".
// URL paths are slash-joined slugs: "legal/contracts/nda-template".

const (
	pathSep = "."
	urlSep  = "/"
)

// EncodePath joins an id chain into a materialized path
func EncodePath(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, pathSep)
}

// DecodePath splits a materialized path into its id chain. An empty path decodes to nil.
func DecodePath(path string) ([]int64, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, pathSep)
	ids := make([]int64, len(parts))
	for i, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("malformed path %q: segment %q", path, p)
		}
		ids[i] = id
	}
	return ids, nil
}

// ChildPath returns the path of a node with the given id under parentPath ("" for roots)
func ChildPath(parentPath string, id int64) string {
	self := strconv.FormatInt(id, 10)
	if parentPath == "" {
		return self
	}
	return parentPath + pathSep + self
}

// PathDepth returns the number of ancestors encoded in path; -1 for an empty path
func PathDepth(path string) int {
	if path == "" {
		return -1
	}
	return strings.Count(path, pathSep)
}

// IsDescendantPath reports whether path lies strictly below ancestor. The match is
// aligned on separators so "1.50" is not below "1.5".
func IsDescendantPath(path, ancestor string) bool {
	return ancestor != "" && strings.HasPrefix(path, ancestor+pathSep)
}

// SplitURLPath normalizes a content path into its non-empty slug segments
func SplitURLPath(raw string) []string {
	raw = strings.Trim(raw, urlSep)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, urlSep)
	segments := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// JoinURLPath joins slugs into a content path
func JoinURLPath(slugs ...string) string {
	return strings.Join(slugs, urlSep)
}
