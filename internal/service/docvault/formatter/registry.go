// Package formatter holds the editor-backend presentation strategies. The
// core stores content as authored; these only shape it for display or export.
package formatter

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	docvaultSvc "docvault/internal/domain/services/docvault"
)

// Registry maps editor names to formatters. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]docvaultSvc.ContentFormatter
}

// NewRegistry creates a registry with the standard formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]docvaultSvc.ContentFormatter)}

	r.Register(NewTextFormatter())
	r.Register(NewMarkdownFormatter())
	r.Register(NewHTMLFormatter())

	return r
}

// Register adds or replaces a formatter under its name
func (r *Registry) Register(f docvaultSvc.ContentFormatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[strings.ToLower(f.Name())] = f
}

// Get returns the formatter for an editor name (case-insensitive)
func (r *Registry) Get(name string) (docvaultSvc.ContentFormatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown editor %q (available: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return f, nil
}

// Names lists registered editor names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
