// Package storage opens the configured persistence backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/config"
	"docvault/internal/repository/memory"
	"docvault/internal/repository/postgres"
	pgDocvault "docvault/internal/repository/postgres/docvault"
	"docvault/internal/service/docvault"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backend is an opened storage backend
type Backend struct {
	Name  string
	Repos *docvault.Repositories

	// Postgres only; nil for the memory backend
	Pool   *pgxpool.Pool
	Tables *postgres.TableNames

	// Memory only
	Store *memory.Store
}

// Open connects to the backend named by cfg.Storage. With AutoMigrate set the
// postgres schema is created if missing.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Storage {
	case BackendMemory:
		return OpenMemory(), nil
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for %s storage", BackendPostgres)
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if cfg.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
				pool.Close()
				return nil, fmt.Errorf("ensure schema: %w", err)
			}
			logger.Info("schema ready", "prefix", cfg.TablePrefix)
		}
		return openPostgres(pool, tables, logger), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (want %s or %s)", cfg.Storage, BackendPostgres, BackendMemory)
	}
}

// OpenMemory returns a fresh in-process backend
func OpenMemory() *Backend {
	store := memory.NewStore()
	return &Backend{
		Name: BackendMemory,
		Repos: &docvault.Repositories{
			Categories: memory.NewCategoryRepository(store),
			Documents:  memory.NewDocumentRepository(store),
			Versions:   memory.NewVersionRepository(store),
			Changelogs: memory.NewChangelogRepository(store),
			Tx:         memory.NewTransactionManager(store),
		},
		Store: store,
	}
}

func openPostgres(pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) *Backend {
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Backend{
		Name: BackendPostgres,
		Repos: &docvault.Repositories{
			Categories: pgDocvault.NewCategoryRepository(repoConfig),
			Documents:  pgDocvault.NewDocumentRepository(repoConfig),
			Versions:   pgDocvault.NewVersionRepository(repoConfig),
			Changelogs: pgDocvault.NewChangelogRepository(repoConfig),
			Tx:         postgres.NewTransactionManager(pool, logger),
		},
		Pool:   pool,
		Tables: tables,
	}
}

// Ping checks the backend is reachable; the memory backend always is
func (b *Backend) Ping(ctx context.Context) error {
	if b.Pool == nil {
		return nil
	}
	return b.Pool.Ping(ctx)
}

// Close releases the connection pool, if any
func (b *Backend) Close() {
	if b.Pool != nil {
		b.Pool.Close()
	}
}
