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

type documentService struct {
	docRepo       docvaultRepo.DocumentRepository
	versionRepo   docvaultRepo.VersionRepository
	changelogRepo docvaultRepo.ChangelogRepository
	categoryRepo  docvaultRepo.CategoryRepository
	categories    docvaultSvc.CategoryTree
	txManager     repositories.TransactionManager
	toc           *TOCGenerator
	logger        *slog.Logger
}

// NewDocumentService creates the document store
func NewDocumentService(
	docRepo docvaultRepo.DocumentRepository,
	versionRepo docvaultRepo.VersionRepository,
	changelogRepo docvaultRepo.ChangelogRepository,
	categoryRepo docvaultRepo.CategoryRepository,
	categories docvaultSvc.CategoryTree,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docvaultSvc.DocumentStore {
	return &documentService{
		docRepo:       docRepo,
		versionRepo:   versionRepo,
		changelogRepo: changelogRepo,
		categoryRepo:  categoryRepo,
		categories:    categories,
		txManager:     txManager,
		toc:           NewTOCGenerator(),
		logger:        logger,
	}
}

// CreateDocument creates the document and version 1 in one transaction.
// Version 1 carries the document's created_at, including backfilled dates.
func (s *documentService) CreateDocument(ctx context.Context, req *docvaultSvc.CreateDocumentRequest) (*models.Document, error) {
	if err := validateCreateDocument(req); err != nil {
		return nil, err
	}

	// Postgres keeps microseconds; truncating here keeps both rows identical
	createdAt := time.Now().UTC()
	if req.CreatedAt != nil {
		createdAt = req.CreatedAt.UTC()
	}
	createdAt = createdAt.Truncate(time.Microsecond)

	doc := &models.Document{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CreatedBy:  req.CreatedBy,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.categoryRepo.GetByID(txCtx, req.CategoryID); err != nil {
			return fmt.Errorf("category: %w", err)
		}
		if err := s.checkSlug(txCtx, req.CategoryID, req.Slug, 0); err != nil {
			return err
		}

		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}

		first := &models.DocumentVersion{
			DocumentID:    doc.ID,
			Content:       doc.Content,
			VersionNumber: 1,
			CreatedBy:     doc.CreatedBy,
			CreatedAt:     doc.CreatedAt,
		}
		return s.versionRepo.Create(txCtx, first)
	})
	if err != nil {
		return nil, err
	}

	s.attachURLPath(ctx, doc)

	s.logger.Info("document created",
		"id", doc.ID,
		"slug", doc.Slug,
		"category_id", doc.CategoryID,
	)

	return doc, nil
}

// GetDocument retrieves a document with its URL path
func (s *documentService) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachURLPath(ctx, doc)
	return doc, nil
}

// UpdateDocument persists field changes. A content change appends version
// latest+1 in the same transaction; other changes never version.
func (s *documentService) UpdateDocument(ctx context.Context, id int64, req *docvaultSvc.UpdateDocumentRequest) (*models.Document, error) {
	if err := validateUpdateDocument(req); err != nil {
		return nil, err
	}

	var (
		doc        *models.Document
		newVersion int
	)
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.docRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		contentChanged := req.Content != nil && *req.Content != doc.Content
		moved := req.CategoryID != nil && *req.CategoryID != doc.CategoryID
		renamed := req.Slug != nil && *req.Slug != doc.Slug

		if req.Title != nil {
			doc.Title = *req.Title
		}
		if moved {
			if _, err := s.categoryRepo.GetByID(txCtx, *req.CategoryID); err != nil {
				return fmt.Errorf("category: %w", err)
			}
			doc.CategoryID = *req.CategoryID
		}
		if renamed {
			doc.Slug = *req.Slug
		}
		if moved || renamed {
			if err := s.checkSlug(txCtx, doc.CategoryID, doc.Slug, doc.ID); err != nil {
				return err
			}
		}
		if contentChanged {
			doc.Content = *req.Content
		}

		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return err
		}
		if !contentChanged {
			return nil
		}

		latest, err := s.versionRepo.LatestNumber(txCtx, doc.ID)
		if err != nil {
			return err
		}
		author := doc.CreatedBy
		if req.UpdatedBy != nil {
			author = req.UpdatedBy
		}
		version := &models.DocumentVersion{
			DocumentID:    doc.ID,
			Content:       doc.Content,
			VersionNumber: latest + 1,
			CreatedBy:     author,
		}
		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		newVersion = version.VersionNumber
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachURLPath(ctx, doc)

	s.logger.Info("document updated",
		"id", doc.ID,
		"slug", doc.Slug,
		"new_version", newVersion,
	)

	return doc, nil
}

// DeleteDocument removes the document, its versions and changelog entries
func (s *documentService) DeleteDocument(ctx context.Context, id int64) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("document deleted", "id", id)
	return nil
}

// ListVersions lists versions newest first
func (s *documentService) ListVersions(ctx context.Context, documentID int64, limit int) ([]models.DocumentVersion, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByDocument(ctx, documentID, limit)
}

// GetVersion returns a version with its neighbours; each neighbour is one bounded lookup
func (s *documentService) GetVersion(ctx context.Context, documentID int64, number int) (*docvaultSvc.VersionDetail, error) {
	version, err := s.getVersion(ctx, documentID, number)
	if err != nil {
		return nil, err
	}

	detail := &docvaultSvc.VersionDetail{
		Version:         version,
		TableOfContents: s.toc.Generate(version.Content),
	}
	if detail.Previous, err = optional(s.versionRepo.GetPrevious(ctx, documentID, number)); err != nil {
		return nil, err
	}
	if detail.Next, err = optional(s.versionRepo.GetNext(ctx, documentID, number)); err != nil {
		return nil, err
	}
	if detail.Changelog, err = optional(s.changelogRepo.GetByVersion(ctx, version.ID)); err != nil {
		return nil, err
	}
	return detail, nil
}

// CompareVersions fetches both snapshots and diffs them old to new as given
func (s *documentService) CompareVersions(ctx context.Context, documentID int64, v1, v2 int) (*docvaultSvc.VersionComparison, error) {
	first, err := s.getVersion(ctx, documentID, v1)
	if err != nil {
		return nil, err
	}
	second, err := s.getVersion(ctx, documentID, v2)
	if err != nil {
		return nil, err
	}

	diff, err := unifiedDiff(first.Content, second.Content, v1, v2)
	if err != nil {
		return nil, fmt.Errorf("diff versions: %w", err)
	}
	return &docvaultSvc.VersionComparison{Version1: first, Version2: second, Diff: diff}, nil
}

// GenerateTableOfContents extracts headings from content
func (s *documentService) GenerateTableOfContents(content string) []models.TOCEntry {
	return s.toc.Generate(content)
}

func (s *documentService) getVersion(ctx context.Context, documentID int64, number int) (*models.DocumentVersion, error) {
	version, err := s.versionRepo.GetByNumber(ctx, documentID, number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("version", fmt.Sprintf("%d of document %d", number, documentID))
		}
		return nil, err
	}
	return version, nil
}

func (s *documentService) checkSlug(ctx context.Context, categoryID int64, slug string, selfID int64) error {
	existing, err := s.docRepo.GetBySlug(ctx, categoryID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check document slug: %w", err)
	}
	if existing.ID != selfID {
		return domain.NewValidation("slug", "a document with slug %q already exists in this category", slug)
	}
	return nil
}

func (s *documentService) attachURLPath(ctx context.Context, doc *models.Document) {
	category, err := s.categoryRepo.GetByID(ctx, doc.CategoryID)
	if err == nil {
		var categoryPath string
		if categoryPath, err = s.categories.GetURLPath(ctx, category); err == nil {
			doc.URLPath = JoinURLPath(categoryPath, doc.Slug)
			return
		}
	}
	s.logger.Warn("failed to compute document url path", "id", doc.ID, "error", err)
	doc.URLPath = doc.Slug
}

// optional turns a NotFound into a nil result
func optional[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}
