// Package github fetches review-issue comment counts from the GitHub REST
// API. Reviews for this journal happen in issue threads of a single
// repository; the comment count is a proxy for review effort.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"pubreport/internal/config"
	"pubreport/internal/errors"
)

// Client calls the issue comments endpoint with page/per_page pagination
type Client struct {
	baseURL    string
	repo       string
	token      string
	pageSize   int
	maxPages   int
	httpClient *http.Client
}

// NewClient creates a client for the configured reviews repository
func NewClient(cfg config.GitHubConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		repo:     cfg.Repo,
		token:    cfg.Token,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CommentCount returns the number of comments on the given review issue.
// Pages are fetched sequentially until a short page signals the end.
func (c *Client) CommentCount(ctx context.Context, issue int) (int, error) {
	count := 0
	for page := 1; page <= c.maxPages; page++ {
		url := fmt.Sprintf("%s/repos/%s/issues/%d/comments?page=%d&per_page=%d",
			c.baseURL, c.repo, issue, page, c.pageSize)

		body, err := c.get(ctx, url)
		if err != nil {
			return 0, err
		}

		result := gjson.ParseBytes(body)
		if !result.IsArray() {
			return 0, errors.DataFormat(fmt.Sprintf("unexpected comments payload for issue %d", issue))
		}

		pageCount := len(result.Array())
		count += pageCount
		if pageCount < c.pageSize {
			break
		}
	}
	return count, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("github", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.ExternalServiceError("github",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}
	return body, nil
}
