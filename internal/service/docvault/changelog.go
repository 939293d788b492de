package docvault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	"docvault/internal/domain/repositories"
	docvaultRepo "docvault/internal/domain/repositories/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

type changelogService struct {
	changelogRepo docvaultRepo.ChangelogRepository
	docRepo       docvaultRepo.DocumentRepository
	versionRepo   docvaultRepo.VersionRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewChangelogService creates the changelog service
func NewChangelogService(
	changelogRepo docvaultRepo.ChangelogRepository,
	docRepo docvaultRepo.DocumentRepository,
	versionRepo docvaultRepo.VersionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docvaultSvc.ChangelogService {
	return &changelogService{
		changelogRepo: changelogRepo,
		docRepo:       docRepo,
		versionRepo:   versionRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// CreateChangelog records an entry, optionally pointing at one of the document's versions
func (s *changelogService) CreateChangelog(ctx context.Context, documentID int64, req *docvaultSvc.CreateChangelogRequest) (*models.Changelog, error) {
	if err := validateCreateChangelog(req); err != nil {
		return nil, err
	}

	entry := &models.Changelog{
		DocumentID:   documentID,
		Description:  req.Description,
		Importance:   req.Importance,
		ShowInGlobal: req.ShowInGlobal,
		CreatedBy:    req.CreatedBy,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.docRepo.GetByID(txCtx, documentID); err != nil {
			return err
		}
		if req.VersionNumber != nil {
			version, err := s.versionRepo.GetByNumber(txCtx, documentID, *req.VersionNumber)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.NewNotFound("version", fmt.Sprintf("%d of document %d", *req.VersionNumber, documentID))
				}
				return err
			}
			entry.VersionID = &version.ID
			entry.VersionNumber = &version.VersionNumber
		}
		return s.changelogRepo.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("changelog entry created",
		"id", entry.ID,
		"document_id", documentID,
		"importance", entry.Importance,
		"global", entry.InGlobalFeed(),
	)
	return entry, nil
}

// ListDocumentChangelog lists a document's entries newest first
func (s *changelogService) ListDocumentChangelog(ctx context.Context, documentID int64, limit int) ([]models.Changelog, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.changelogRepo.ListByDocument(ctx, documentID, limit)
}

// ListGlobalChangelog lists MAJOR and show_in_global entries newest first
func (s *changelogService) ListGlobalChangelog(ctx context.Context, limit int) ([]models.Changelog, error) {
	if limit <= 0 {
		limit = config.ChangelogFeedLimit
	}
	return s.changelogRepo.ListGlobal(ctx, limit)
}
