package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubreport/adapters/github"
	"pubreport/adapters/openalex"
	"pubreport/domain/submission"
	"pubreport/internal/cache"
	"pubreport/internal/config"
)

func testDataset(t *testing.T) *submission.Dataset {
	t.Helper()
	ds, err := submission.NewDataset([]submission.Submission{
		{
			ID:             "joss.01201",
			DOI:            "10.21105/joss.01201",
			ReviewIssue:    1201,
			Submitted:      time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
			Accepted:       time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC),
			ReviewComments: -1,
			Citations:      -1,
		},
		{
			ID:             "joss.01305",
			ReviewIssue:    1305,
			Submitted:      time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC),
			ReviewComments: -1,
			Citations:      -1,
		},
	})
	require.NoError(t, err)
	return ds
}

func TestEnrich_FetchesThenSkipsCachedRows(t *testing.T) {
	var githubCalls, openalexCalls int64

	githubServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&githubCalls, 1)
		fmt.Fprint(w, `[{"id":1},{"id":2},{"id":3}]`)
	}))
	defer githubServer.Close()

	openalexServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&openalexCalls, 1)
		fmt.Fprint(w, `{"cited_by_count":12}`)
	}))
	defer openalexServer.Close()

	dir := t.TempDir()
	comments, err := cache.Open(filepath.Join(dir, "comments.json"))
	require.NoError(t, err)
	citations, err := cache.Open(filepath.Join(dir, "citations.json"))
	require.NoError(t, err)

	gh := github.NewClient(config.GitHubConfig{
		BaseURL: githubServer.URL, Repo: "openjournal/reviews", PageSize: 100, MaxPages: 5,
	})
	oa := openalex.NewClient(config.OpenAlexConfig{BaseURL: openalexServer.URL})

	svc := NewService(gh, oa, comments, citations, 2)
	ds := testDataset(t)

	stats, err := svc.Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CommentsFetched)
	assert.Equal(t, 1, stats.CitationsFetched)

	// Cached counts landed on the rows.
	assert.Equal(t, 3, ds.Submissions[0].ReviewComments)
	assert.Equal(t, 12, ds.Submissions[0].Citations)
	assert.Equal(t, 3, ds.Submissions[1].ReviewComments)
	assert.Equal(t, -1, ds.Submissions[1].Citations) // no DOI, stays unknown

	// A second pass touches neither API: everything is cached on disk.
	comments2, err := cache.Open(filepath.Join(dir, "comments.json"))
	require.NoError(t, err)
	citations2, err := cache.Open(filepath.Join(dir, "citations.json"))
	require.NoError(t, err)

	before := atomic.LoadInt64(&githubCalls) + atomic.LoadInt64(&openalexCalls)
	svc2 := NewService(gh, oa, comments2, citations2, 2)
	stats2, err := svc2.Enrich(context.Background(), testDataset(t))
	require.NoError(t, err)

	assert.Equal(t, 0, stats2.CommentsFetched)
	assert.Equal(t, 0, stats2.CitationsFetched)
	assert.Equal(t, 2, stats2.CommentsCached)
	assert.Equal(t, 1, stats2.CitationsCached)
	after := atomic.LoadInt64(&githubCalls) + atomic.LoadInt64(&openalexCalls)
	assert.Equal(t, before, after, "cached rows must not be refetched")
}

func TestEnrich_NilClientsApplyCacheOnly(t *testing.T) {
	dir := t.TempDir()
	comments, err := cache.Open(filepath.Join(dir, "comments.json"))
	require.NoError(t, err)
	citations, err := cache.Open(filepath.Join(dir, "citations.json"))
	require.NoError(t, err)

	comments.Put("1201", 9)
	citations.Put("10.21105/joss.01201", 4)

	svc := NewService(nil, nil, comments, citations, 1)
	ds := testDataset(t)

	stats, err := svc.Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CommentsFetched)
	assert.Equal(t, 9, ds.Submissions[0].ReviewComments)
	assert.Equal(t, 4, ds.Submissions[0].Citations)
	assert.Equal(t, -1, ds.Submissions[1].ReviewComments) // issue 1305 not cached
}
