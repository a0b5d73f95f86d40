package config

import (
	"os"
	"strconv"

	"pubreport/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Dataset  DatasetConfig
	GitHub   GitHubConfig
	OpenAlex OpenAlexConfig
	Cache    CacheConfig
	Report   ReportConfig
	Server   ServerConfig
}

// DatasetConfig selects the submissions source. Path points at a CSV or
// XLSX export; DSN, when set, switches to the Postgres source instead.
type DatasetConfig struct {
	Path  string
	DSN   string
	Table string
}

// GitHubConfig holds settings for the review-issue comment fetcher
type GitHubConfig struct {
	BaseURL  string
	Repo     string // "owner/name" of the reviews repository
	Token    string
	PageSize int
	MaxPages int
}

// OpenAlexConfig holds settings for the citation-count fetcher
type OpenAlexConfig struct {
	BaseURL     string
	Mailto      string
	Concurrency int
}

// CacheConfig holds the on-disk cache location
type CacheConfig struct {
	Dir string
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	OutDir     string
	Title      string
	WindowDays float64 // width of the median smoothing window, in days
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Dataset: DatasetConfig{
			Path:  getEnvOrDefault("DATASET_PATH", ""),
			DSN:   getEnvOrDefault("DATASET_DSN", ""),
			Table: getEnvOrDefault("DATASET_TABLE", "submissions"),
		},
		GitHub: GitHubConfig{
			BaseURL:  getEnvOrDefault("GITHUB_API_URL", "https://api.github.com"),
			Repo:     getEnvOrDefault("GITHUB_REVIEWS_REPO", ""),
			Token:    getEnvOrDefault("GITHUB_TOKEN", ""),
			PageSize: getEnvIntOrDefault("GITHUB_PAGE_SIZE", 100),
			MaxPages: getEnvIntOrDefault("GITHUB_MAX_PAGES", 20),
		},
		OpenAlex: OpenAlexConfig{
			BaseURL:     getEnvOrDefault("OPENALEX_API_URL", "https://api.openalex.org"),
			Mailto:      getEnvOrDefault("OPENALEX_MAILTO", ""),
			Concurrency: getEnvIntOrDefault("OPENALEX_CONCURRENCY", 4),
		},
		Cache: CacheConfig{
			Dir: getEnvOrDefault("CACHE_DIR", "./cache"),
		},
		Report: ReportConfig{
			OutDir:     getEnvOrDefault("REPORT_OUT_DIR", "./out"),
			Title:      getEnvOrDefault("REPORT_TITLE", "Journal Submissions Report"),
			WindowDays: getEnvFloatOrDefault("SMOOTH_WINDOW_DAYS", 180),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Dataset.Path == "" && config.Dataset.DSN == "" {
		return errors.ConfigInvalid("DATASET_PATH or DATASET_DSN is required")
	}
	if config.Report.WindowDays <= 0 {
		return errors.ConfigInvalid("SMOOTH_WINDOW_DAYS must be positive")
	}
	if config.GitHub.PageSize < 1 || config.GitHub.PageSize > 100 {
		return errors.ConfigInvalid("GITHUB_PAGE_SIZE must be between 1 and 100")
	}
	if config.OpenAlex.Concurrency < 1 {
		return errors.ConfigInvalid("OPENALEX_CONCURRENCY must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
