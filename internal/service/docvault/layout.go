package docvault

import (
	"cmp"
	"fmt"
	"slices"

	models "docvault/internal/domain/models/docvault"
)

// treeLayout is the path/depth/URL layout of a forest derived from parent links
// alone, ignoring whatever path and depth are stored
type treeLayout struct {
	order       []int64 // breadth-first: every parent precedes its children
	paths       map[int64]models.PathUpdate
	urlPaths    map[int64]string
	unreachable []int64 // parent missing, or part of a parent cycle
}

func layoutTree(categories []models.Category) *treeLayout {
	byID := make(map[int64]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	var roots []*models.Category
	children := map[int64][]*models.Category{}
	for i := range categories {
		c := &categories[i]
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[*c.ParentID]; ok {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	byIDOrder := func(a, b *models.Category) int { return cmp.Compare(a.ID, b.ID) }
	slices.SortFunc(roots, byIDOrder)
	for _, list := range children {
		slices.SortFunc(list, byIDOrder)
	}

	layout := &treeLayout{
		paths:    make(map[int64]models.PathUpdate, len(categories)),
		urlPaths: make(map[int64]string, len(categories)),
	}
	queue := roots
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		parentPath, parentURL := "", ""
		if c.ParentID != nil {
			parentPath = layout.paths[*c.ParentID].Path
			parentURL = layout.urlPaths[*c.ParentID]
		}
		path := ChildPath(parentPath, c.ID)
		layout.paths[c.ID] = models.PathUpdate{ID: c.ID, Path: path, Depth: PathDepth(path)}
		if parentURL == "" {
			layout.urlPaths[c.ID] = c.Slug
		} else {
			layout.urlPaths[c.ID] = JoinURLPath(parentURL, c.Slug)
		}
		layout.order = append(layout.order, c.ID)
		queue = append(queue, children[c.ID]...)
	}

	for _, c := range categories {
		if _, ok := layout.paths[c.ID]; !ok {
			layout.unreachable = append(layout.unreachable, c.ID)
		}
	}
	slices.Sort(layout.unreachable)
	return layout
}

// violations compares stored path/depth with the layout
func (l *treeLayout) violations(categories []models.Category) []string {
	var out []string
	for _, c := range categories {
		want, ok := l.paths[c.ID]
		if !ok {
			parent := "none"
			if c.ParentID != nil {
				parent = fmt.Sprint(*c.ParentID)
			}
			out = append(out, fmt.Sprintf("category %d (%s): parent %s is missing or part of a cycle", c.ID, c.Name, parent))
			continue
		}
		if c.Path != want.Path {
			out = append(out, fmt.Sprintf("category %d (%s): path %q, expected %q", c.ID, c.Name, c.Path, want.Path))
		}
		if c.Depth != want.Depth {
			out = append(out, fmt.Sprintf("category %d (%s): depth %d, expected %d", c.ID, c.Name, c.Depth, want.Depth))
		}
	}
	return out
}
