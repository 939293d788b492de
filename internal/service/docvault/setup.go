package docvault

import (
	"log/slog"

	"docvault/internal/domain/repositories"
	docvaultRepo "docvault/internal/domain/repositories/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
)

// Repositories groups the persistence collaborators every service draws from
type Repositories struct {
	Categories docvaultRepo.CategoryRepository
	Documents  docvaultRepo.DocumentRepository
	Versions   docvaultRepo.VersionRepository
	Changelogs docvaultRepo.ChangelogRepository
	Tx         repositories.TransactionManager
}

// Services holds all docvault services
type Services struct {
	Categories  docvaultSvc.CategoryTree
	Documents   docvaultSvc.DocumentStore
	Changelogs  docvaultSvc.ChangelogService
	Maintenance docvaultSvc.TreeMaintenance
	Loader      *TreeIndexLoader
	Resolver    docvaultSvc.PathResolver
	Content     docvaultSvc.ContentService
}

// SetupServices wires the services over one set of repositories. The
// formatter shapes stored content for the /docs views.
func SetupServices(repos *Repositories, f docvaultSvc.ContentFormatter, logger *slog.Logger) *Services {
	categories := NewCategoryService(repos.Categories, repos.Documents, repos.Tx, logger)
	documents := NewDocumentService(repos.Documents, repos.Versions, repos.Changelogs, repos.Categories, categories, repos.Tx, logger)
	loader := NewTreeIndexLoader(repos.Categories, repos.Documents, logger)
	resolver := NewPathResolver(loader, logger)

	return &Services{
		Categories:  categories,
		Documents:   documents,
		Changelogs:  NewChangelogService(repos.Changelogs, repos.Documents, repos.Versions, repos.Tx, logger),
		Maintenance: NewMaintenanceService(repos.Categories, repos.Documents, repos.Versions, repos.Tx, logger),
		Loader:      loader,
		Resolver:    resolver,
		Content:     NewContentService(loader, resolver, documents, repos.Documents, repos.Versions, repos.Changelogs, f, logger),
	}
}
