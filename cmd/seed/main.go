package main

import (
	"context"
	"flag"
	"log"

	"docvault/internal/config"
	"docvault/internal/repository/postgres"
	"docvault/internal/repository/storage"
	"docvault/internal/seed"
	"docvault/internal/service/docvault"
	"docvault/internal/service/docvault/formatter"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	file := flag.String("file", "", "YAML fixture to load (default: embedded handbook)")
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables) in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Parse the fixture before touching the database
	var fixture *seed.Fixture
	if !*schemaOnly {
		fixture, err = seed.LoadFixtureFile(*file)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
	}

	ctx := context.Background()

	// Seeding always manages the schema itself
	cfg.AutoMigrate = false
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backend.Close()

	if backend.Pool != nil {
		if *dropTables {
			log.Println("Dropping all tables...")
			if err := postgres.DropSchema(ctx, backend.Pool, backend.Tables); err != nil {
				log.Fatalf("Failed to drop tables: %v", err)
			}
		}

		log.Println("Ensuring database schema is up to date...")
		if err := postgres.EnsureSchema(ctx, backend.Pool, backend.Tables); err != nil {
			log.Fatalf("Failed to run schema: %v", err)
		}
		log.Println("Schema ready")
	} else {
		log.Printf("Storage %q has no schema; data lives only for this run", backend.Name)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	services := docvault.SetupServices(backend.Repos, formatter.NewTextFormatter(), logger)
	seeder := seed.NewSeeder(services.Categories, services.Documents, services.Changelogs, logger)

	result, err := seeder.Seed(ctx, fixture)
	if err != nil {
		log.Fatalf("Seeding failed after %d categories and %d documents: %v",
			result.Categories, result.Documents, err)
	}

	log.Printf("Seeding complete: %d categories, %d documents, %d versions, %d changelog entries",
		result.Categories, result.Documents, result.Versions, result.Changelogs)
}
