// Refreshes the GitHub and OpenAlex caches without generating a report.
// Useful for warming the caches before a batch of report runs.
package main

import (
	"context"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"pubreport/adapters/dataset"
	"pubreport/adapters/github"
	"pubreport/adapters/openalex"
	"pubreport/adapters/postgres"
	"pubreport/domain/submission"
	"pubreport/internal/cache"
	"pubreport/internal/config"
	"pubreport/internal/enrich"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	comments, err := cache.Open(filepath.Join(cfg.Cache.Dir, "comments.json"))
	if err != nil {
		log.Fatalf("Failed to open comment cache: %v", err)
	}
	citations, err := cache.Open(filepath.Join(cfg.Cache.Dir, "citations.json"))
	if err != nil {
		log.Fatalf("Failed to open citation cache: %v", err)
	}

	var gh *github.Client
	if cfg.GitHub.Repo != "" {
		gh = github.NewClient(cfg.GitHub)
	}
	oa := openalex.NewClient(cfg.OpenAlex)

	svc := enrich.NewService(gh, oa, comments, citations, cfg.OpenAlex.Concurrency)
	stats, err := svc.Enrich(ctx, ds)
	if err != nil {
		log.Fatalf("Cache refresh failed: %v", err)
	}

	log.Printf("Caches refreshed: %d comment counts fetched (%d cached), %d citation counts fetched (%d cached)",
		stats.CommentsFetched, stats.CommentsCached,
		stats.CitationsFetched, stats.CitationsCached)
}

func loadDataset(ctx context.Context, cfg *config.Config) (*submission.Dataset, error) {
	if cfg.Dataset.DSN != "" {
		source, err := postgres.NewSource(cfg.Dataset.DSN, cfg.Dataset.Table)
		if err != nil {
			return nil, err
		}
		defer source.Close()

		rows, err := source.Load(ctx)
		if err != nil {
			return nil, err
		}
		return submission.NewDataset(rows)
	}

	rows, err := dataset.NewReader(cfg.Dataset.Path).Read()
	if err != nil {
		return nil, err
	}
	return submission.NewDataset(rows)
}
