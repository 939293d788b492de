package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	repos "docvault/internal/domain/repositories/docvault"
)

// ChangelogRepository is the in-memory ChangelogRepository
type ChangelogRepository struct {
	store *Store
}

// NewChangelogRepository creates a changelog repository over the store
func NewChangelogRepository(store *Store) repos.ChangelogRepository {
	return &ChangelogRepository{store: store}
}

func (r *ChangelogRepository) Create(ctx context.Context, entry *models.Changelog) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ChangelogRepository.Create"); err != nil {
		return err
	}

	if _, ok := s.data.documents[entry.DocumentID]; !ok {
		return fmt.Errorf("document %d: %w", entry.DocumentID, domain.ErrNotFound)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	entry.ID = s.data.nextID("changelogs")
	stored := *entry
	stored.Document = nil
	stored.VersionNumber = nil
	s.data.changelogs[entry.ID] = stored
	return nil
}

func (r *ChangelogRepository) ListByDocument(ctx context.Context, documentID int64, limit int) ([]models.Changelog, error) {
	return r.list("ChangelogRepository.ListByDocument", limit, false, func(c models.Changelog) bool {
		return c.DocumentID == documentID
	})
}

func (r *ChangelogRepository) ListGlobal(ctx context.Context, limit int) ([]models.Changelog, error) {
	return r.list("ChangelogRepository.ListGlobal", limit, true, func(c models.Changelog) bool {
		return c.InGlobalFeed()
	})
}

func (r *ChangelogRepository) GetByVersion(ctx context.Context, versionID int64) (*models.Changelog, error) {
	entries, err := r.list("ChangelogRepository.GetByVersion", 1, false, func(c models.Changelog) bool {
		return c.VersionID != nil && *c.VersionID == versionID
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("changelog for version %d: %w", versionID, domain.ErrNotFound)
	}
	return &entries[0], nil
}

func (r *ChangelogRepository) list(op string, limit int, withDocument bool, match func(models.Changelog) bool) ([]models.Changelog, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(op); err != nil {
		return nil, err
	}

	out := []models.Changelog{}
	for _, c := range s.data.changelogs {
		if !match(c) {
			continue
		}
		if c.VersionID != nil {
			if v, ok := s.data.versions[*c.VersionID]; ok {
				n := v.VersionNumber
				c.VersionNumber = &n
			} else {
				c.VersionID = nil
			}
		}
		if withDocument {
			if d, ok := s.data.documents[c.DocumentID]; ok {
				d.Content = ""
				c.Document = &d
			}
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Changelog) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
