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

// VersionRepository is the in-memory VersionRepository
type VersionRepository struct {
	store *Store
}

// NewVersionRepository creates a version repository over the store
func NewVersionRepository(store *Store) repos.VersionRepository {
	return &VersionRepository{store: store}
}

func (r *VersionRepository) Create(ctx context.Context, v *models.DocumentVersion) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("VersionRepository.Create"); err != nil {
		return err
	}

	if _, ok := s.data.documents[v.DocumentID]; !ok {
		return fmt.Errorf("document %d: %w", v.DocumentID, domain.ErrNotFound)
	}
	for _, existing := range s.data.versions {
		if existing.DocumentID == v.DocumentID && existing.VersionNumber == v.VersionNumber {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d already exists", v.VersionNumber),
				ResourceType: "document_version",
				ResourceID:   fmt.Sprint(v.DocumentID),
			}
		}
	}

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	v.ID = s.data.nextID("versions")
	s.data.versions[v.ID] = *v
	return nil
}

func (r *VersionRepository) LatestNumber(ctx context.Context, documentID int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("VersionRepository.LatestNumber"); err != nil {
		return 0, err
	}

	latest := 0
	for _, v := range s.data.versions {
		if v.DocumentID == documentID {
			latest = max(latest, v.VersionNumber)
		}
	}
	return latest, nil
}

func (r *VersionRepository) GetByNumber(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	return r.find(documentID, "VersionRepository.GetByNumber", func(v models.DocumentVersion) bool {
		return v.VersionNumber == number
	}, nil)
}

func (r *VersionRepository) GetPrevious(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	return r.find(documentID, "VersionRepository.GetPrevious", func(v models.DocumentVersion) bool {
		return v.VersionNumber < number
	}, func(a, b models.DocumentVersion) bool { return a.VersionNumber > b.VersionNumber })
}

func (r *VersionRepository) GetNext(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	return r.find(documentID, "VersionRepository.GetNext", func(v models.DocumentVersion) bool {
		return v.VersionNumber > number
	}, func(a, b models.DocumentVersion) bool { return a.VersionNumber < b.VersionNumber })
}

func (r *VersionRepository) ListByDocument(ctx context.Context, documentID int64, limit int) ([]models.DocumentVersion, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("VersionRepository.ListByDocument"); err != nil {
		return nil, err
	}

	out := []models.DocumentVersion{}
	for _, v := range s.data.versions {
		if v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b models.DocumentVersion) int {
		return cmp.Compare(b.VersionNumber, a.VersionNumber)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *VersionRepository) SetCreatedAt(ctx context.Context, id int64, createdAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("VersionRepository.SetCreatedAt"); err != nil {
		return err
	}

	v, ok := s.data.versions[id]
	if !ok {
		return fmt.Errorf("version %d: %w", id, domain.ErrNotFound)
	}
	v.CreatedAt = createdAt
	s.data.versions[id] = v
	return nil
}

// find returns the best match per better, or the only match when better is nil
func (r *VersionRepository) find(documentID int64, op string, match func(models.DocumentVersion) bool, better func(a, b models.DocumentVersion) bool) (*models.DocumentVersion, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(op); err != nil {
		return nil, err
	}

	var found *models.DocumentVersion
	for _, v := range s.data.versions {
		if v.DocumentID != documentID || !match(v) {
			continue
		}
		if found == nil || (better != nil && better(v, *found)) {
			found = &v
		}
	}
	if found == nil {
		return nil, fmt.Errorf("version: %w", domain.ErrNotFound)
	}
	return found, nil
}
