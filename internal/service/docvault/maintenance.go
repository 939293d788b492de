package docvault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	"docvault/internal/domain/repositories"
	docvaultRepo "docvault/internal/domain/repositories/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

type maintenanceService struct {
	categoryRepo docvaultRepo.CategoryRepository
	docRepo      docvaultRepo.DocumentRepository
	versionRepo  docvaultRepo.VersionRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewMaintenanceService creates the repair/audit service used by cmd/maintenance
func NewMaintenanceService(
	categoryRepo docvaultRepo.CategoryRepository,
	docRepo docvaultRepo.DocumentRepository,
	versionRepo docvaultRepo.VersionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docvaultSvc.TreeMaintenance {
	return &maintenanceService{
		categoryRepo: categoryRepo,
		docRepo:      docRepo,
		versionRepo:  versionRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// RebuildPaths recomputes path and depth for the whole forest from parent links,
// roots first. Running it on a consistent tree changes nothing.
func (s *maintenanceService) RebuildPaths(ctx context.Context, dryRun bool) ([]models.PathChange, error) {
	var changes []models.PathChange

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		categories, err := s.categoryRepo.GetAll(txCtx)
		if err != nil {
			return err
		}

		layout := layoutTree(categories)
		if len(layout.unreachable) > 0 {
			s.logger.Error("categories unreachable from any root", "ids", layout.unreachable)
			return &domain.IntegrityError{Violations: layout.violations(categories)}
		}

		byID := make(map[int64]models.Category, len(categories))
		for _, c := range categories {
			byID[c.ID] = c
		}

		var updates []models.PathUpdate
		for _, id := range layout.order {
			current, want := byID[id], layout.paths[id]
			if current.Path == want.Path && current.Depth == want.Depth {
				continue
			}
			updates = append(updates, want)
			changes = append(changes, models.PathChange{
				ID:       id,
				Name:     current.Name,
				OldPath:  current.Path,
				NewPath:  want.Path,
				OldDepth: current.Depth,
				NewDepth: want.Depth,
			})
		}

		if dryRun || len(updates) == 0 {
			return nil
		}
		return s.categoryRepo.UpdatePaths(txCtx, updates)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category paths rebuilt", "changed", len(changes), "dry_run", dryRun)
	return changes, nil
}

// CheckIntegrity lists every stored path/depth that disagrees with the parent chain
func (s *maintenanceService) CheckIntegrity(ctx context.Context) ([]string, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	violations := layoutTree(categories).violations(categories)
	if len(violations) > 0 {
		s.logger.Error("category tree integrity violations", "count", len(violations), "first", violations[0])
	}
	return violations, nil
}

// FixFirstVersionDates back-dates version 1 of each document to the document's created_at
func (s *maintenanceService) FixFirstVersionDates(ctx context.Context, dryRun bool) ([]docvaultSvc.VersionDateFix, error) {
	var fixes []docvaultSvc.VersionDateFix

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		docs, err := s.docRepo.GetAllMetadata(txCtx)
		if err != nil {
			return err
		}

		for _, doc := range docs {
			first, err := s.versionRepo.GetByNumber(txCtx, doc.ID, 1)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					s.logger.Warn("document has no version 1", "document_id", doc.ID)
					continue
				}
				return fmt.Errorf("document %d: %w", doc.ID, err)
			}
			if first.CreatedAt.Equal(doc.CreatedAt) {
				continue
			}

			fixes = append(fixes, docvaultSvc.VersionDateFix{
				DocumentID: doc.ID,
				Title:      doc.Title,
				VersionID:  first.ID,
				OldDate:    first.CreatedAt.Format(time.RFC3339Nano),
				NewDate:    doc.CreatedAt.Format(time.RFC3339Nano),
			})
			if dryRun {
				continue
			}
			if err := s.versionRepo.SetCreatedAt(txCtx, first.ID, doc.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("version 1 dates checked", "fixed", len(fixes), "dry_run", dryRun)
	return fixes, nil
}
