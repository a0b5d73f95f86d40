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
	"pubreport/internal/report"
	"pubreport/internal/summary"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	ds, sourceName, err := loadDataset(ctx, cfg)
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
		log.Fatalf("Enrichment failed: %v", err)
	}

	s, err := summary.Build(cfg.Report.Title, ds, svc.CitationsByDOI(), cfg.Report.WindowDays)
	if err != nil {
		log.Fatalf("Failed to build summary: %v", err)
	}

	writer := report.NewWriter(cfg.Report.OutDir, report.DefaultPalette())
	manifest, err := writer.Write(s, report.Meta{
		Title:       cfg.Report.Title,
		DatasetPath: sourceName,
		Rows:        ds.Len(),
		WindowDays:  cfg.Report.WindowDays,
		Enrich:      stats,
	})
	if err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.Printf("Report %s written to %s", manifest.RunID,
		filepath.Join(cfg.Report.OutDir, report.WorkbookFile))
}

// loadDataset reads submissions from Postgres when a DSN is configured,
// from the CSV/XLSX export otherwise.
func loadDataset(ctx context.Context, cfg *config.Config) (*submission.Dataset, string, error) {
	if cfg.Dataset.DSN != "" {
		source, err := postgres.NewSource(cfg.Dataset.DSN, cfg.Dataset.Table)
		if err != nil {
			return nil, "", err
		}
		defer source.Close()

		rows, err := source.Load(ctx)
		if err != nil {
			return nil, "", err
		}
		ds, err := submission.NewDataset(rows)
		return ds, "postgres:" + cfg.Dataset.Table, err
	}

	rows, err := dataset.NewReader(cfg.Dataset.Path).Read()
	if err != nil {
		return nil, "", err
	}
	ds, err := submission.NewDataset(rows)
	return ds, cfg.Dataset.Path, err
}
