// Package enrich fills the external fields of the dataset (review comment
// counts, citation counts) from the GitHub and OpenAlex APIs through the
// disk caches. Failure recovery is deliberately simple: anything already
// cached is never refetched, and a failed fetch only costs that one row.
package enrich

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"pubreport/adapters/github"
	"pubreport/adapters/openalex"
	"pubreport/domain/submission"
	"pubreport/internal"
	"pubreport/internal/cache"
)

// Service coordinates the two fetchers and their caches. Either client may
// be nil, in which case the cached values are still applied to the dataset.
type Service struct {
	github      *github.Client
	openalex    *openalex.Client
	comments    *cache.Store
	citations   *cache.Store
	concurrency int
	logger      *internal.Logger
}

// Stats reports what one enrichment pass did
type Stats struct {
	CommentsFetched  int `json:"comments_fetched"`
	CommentsCached   int `json:"comments_cached"`
	CitationsFetched int `json:"citations_fetched"`
	CitationsCached  int `json:"citations_cached"`
}

// NewService wires the fetchers to their caches
func NewService(gh *github.Client, oa *openalex.Client, comments, citations *cache.Store, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		github:      gh,
		openalex:    oa,
		comments:    comments,
		citations:   citations,
		concurrency: concurrency,
		logger:      internal.DefaultLogger,
	}
}

// Enrich fetches missing rows, saves both caches, and applies all cached
// values to the dataset.
func (s *Service) Enrich(ctx context.Context, ds *submission.Dataset) (Stats, error) {
	var stats Stats

	if err := s.fetchComments(ctx, ds, &stats); err != nil {
		return stats, err
	}
	if err := s.fetchCitations(ctx, ds, &stats); err != nil {
		return stats, err
	}

	s.Apply(ds)
	return stats, nil
}

// fetchComments walks the review issues sequentially, skipping cached ones
func (s *Service) fetchComments(ctx context.Context, ds *submission.Dataset, stats *Stats) error {
	for _, sub := range ds.Submissions {
		if sub.ReviewIssue <= 0 {
			continue
		}
		key := strconv.Itoa(sub.ReviewIssue)
		if s.comments.Has(key) {
			stats.CommentsCached++
			continue
		}
		if s.github == nil {
			continue
		}

		count, err := s.github.CommentCount(ctx, sub.ReviewIssue)
		if err != nil {
			s.logger.Warn("comment fetch for issue %d failed: %v", sub.ReviewIssue, err)
			continue
		}
		s.comments.Put(key, count)
		stats.CommentsFetched++
	}

	if stats.CommentsFetched > 0 {
		return s.comments.Save()
	}
	return nil
}

// fetchCitations resolves uncached DOIs with bounded concurrency, then
// writes the cache once.
func (s *Service) fetchCitations(ctx context.Context, ds *submission.Dataset, stats *Stats) error {
	var missing []string
	seen := make(map[string]bool)
	for _, sub := range ds.Submissions {
		if sub.DOI == "" || seen[sub.DOI] {
			continue
		}
		seen[sub.DOI] = true
		if s.citations.Has(sub.DOI) {
			stats.CitationsCached++
			continue
		}
		missing = append(missing, sub.DOI)
	}

	if s.openalex == nil || len(missing) == 0 {
		return nil
	}

	var mu sync.Mutex
	results := make(map[string]int, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, doi := range missing {
		doi := doi
		g.Go(func() error {
			count, err := s.openalex.CitationCount(gctx, doi)
			if err != nil {
				s.logger.Warn("citation fetch for %s failed: %v", doi, err)
				return nil
			}
			mu.Lock()
			results[doi] = count
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for doi, count := range results {
		s.citations.Put(doi, count)
		stats.CitationsFetched++
	}
	if stats.CitationsFetched > 0 {
		return s.citations.Save()
	}
	return nil
}

// Apply copies cached counts onto the dataset rows. Rows with no cache
// entry keep -1, rendered as "unknown" downstream.
func (s *Service) Apply(ds *submission.Dataset) {
	for i := range ds.Submissions {
		sub := &ds.Submissions[i]
		if sub.ReviewIssue > 0 {
			if entry, ok := s.comments.Get(strconv.Itoa(sub.ReviewIssue)); ok {
				sub.ReviewComments = entry.Value
			}
		}
		if sub.DOI != "" {
			if entry, ok := s.citations.Get(sub.DOI); ok {
				sub.Citations = entry.Value
			}
		}
	}
}

// CitationsByDOI exposes the citation cache contents for the summary join
func (s *Service) CitationsByDOI() map[string]int {
	return s.citations.Values()
}
