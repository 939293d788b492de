package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"docvault/internal/config"
	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"
	"docvault/internal/repository/storage"
	"docvault/internal/service/docvault"
	"docvault/internal/service/docvault/formatter"

	"github.com/joho/godotenv"
)

func main() {
	rebuildPaths := flag.Bool("rebuild-paths", false, "Recompute every category path and depth from parent links")
	fixV1Dates := flag.Bool("fix-v1-dates", false, "Back-date each document's version 1 to the document's created_at")
	checkIntegrity := flag.Bool("check-integrity", false, "Report category tree violations without changing anything")
	benchmark := flag.Bool("benchmark", false, "Time the hierarchy queries against the current data")
	iterations := flag.Int("iterations", 100, "Iterations per benchmarked query")
	dryRun := flag.Bool("dry-run", false, "Show planned changes without writing them")
	flag.Parse()

	if !*rebuildPaths && !*fixV1Dates && !*checkIntegrity && !*benchmark {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Environment == "prod" && !*dryRun && (*rebuildPaths || *fixV1Dates) {
		log.Printf("WARNING: writing to production data (prefix: %s)", cfg.TablePrefix)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backend.Close()

	services := docvault.SetupServices(backend.Repos, formatter.NewTextFormatter(), logger)

	if *checkIntegrity {
		violations, err := services.Maintenance.CheckIntegrity(ctx)
		if err != nil {
			log.Fatalf("Integrity check failed: %v", err)
		}
		if len(violations) == 0 {
			log.Println("Category tree is consistent")
		}
		for _, v := range violations {
			log.Printf("  violation: %s", v)
		}
	}

	if *rebuildPaths {
		changes, err := services.Maintenance.RebuildPaths(ctx, *dryRun)
		if err != nil {
			log.Fatalf("Rebuild failed: %v", err)
		}
		reportPathChanges(changes, *dryRun)
	}

	if *fixV1Dates {
		fixes, err := services.Maintenance.FixFirstVersionDates(ctx, *dryRun)
		if err != nil {
			log.Fatalf("Version date fix failed: %v", err)
		}
		for _, f := range fixes {
			log.Printf("  document %d %q: version %d %s -> %s", f.DocumentID, f.Title, f.VersionID, f.OldDate, f.NewDate)
		}
		log.Printf("%s %d version 1 dates", verb(*dryRun, "Would fix", "Fixed"), len(fixes))
	}

	if *benchmark {
		if err := runBenchmark(ctx, services.Categories, *iterations); err != nil {
			log.Fatalf("Benchmark failed: %v", err)
		}
	}
}

func reportPathChanges(changes []models.PathChange, dryRun bool) {
	for _, c := range changes {
		log.Printf("  %d %q: %q (depth %d) -> %q (depth %d)", c.ID, c.Name, c.OldPath, c.OldDepth, c.NewPath, c.NewDepth)
	}
	log.Printf("%s %d category paths", verb(dryRun, "Would update", "Updated"), len(changes))
}

func verb(dryRun bool, planned, done string) string {
	if dryRun {
		return planned
	}
	return done
}

// runBenchmark times each hierarchy query against the deepest category, the
// worst case for ancestors and breadcrumbs
func runBenchmark(ctx context.Context, categories docvaultSvc.CategoryTree, iterations int) error {
	all, err := categories.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		log.Println("No categories to benchmark; run the seed command first")
		return nil
	}
	if iterations <= 0 {
		iterations = 1
	}

	target := all[0]
	for _, c := range all[1:] {
		if c.Depth > target.Depth {
			target = c
		}
	}
	urlPath, err := categories.GetURLPath(ctx, &target)
	if err != nil {
		return err
	}
	log.Printf("Benchmarking %d categories, target %q (depth %d), %d iterations", len(all), urlPath, target.Depth, iterations)

	queries := []struct {
		name string
		run  func() error
	}{
		{"ancestors", func() error {
			_, err := categories.GetAncestors(ctx, &target, true)
			return err
		}},
		{"descendants", func() error {
			_, err := categories.GetDescendants(ctx, &all[0], true)
			return err
		}},
		{"breadcrumbs", func() error {
			_, err := categories.GetURLPath(ctx, &target)
			return err
		}},
		{"by-path", func() error {
			_, err := categories.GetByPath(ctx, urlPath)
			return err
		}},
		{"all-documents", func() error {
			_, err := categories.GetAllDocuments(ctx, &all[0])
			return err
		}},
	}

	for _, q := range queries {
		start := time.Now()
		for range iterations {
			if err := q.run(); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)
		log.Printf("  %-14s total %-12s avg %s", q.name, elapsed.Round(time.Microsecond), (elapsed / time.Duration(iterations)).Round(time.Microsecond))
	}
	return nil
}
