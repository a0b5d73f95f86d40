// Package openalex fetches citation counts for published submissions from
// the OpenAlex works API.
package openalex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"pubreport/internal/config"
	"pubreport/internal/errors"
)

// Client resolves DOIs to cited_by_count values
type Client struct {
	baseURL    string
	mailto     string
	httpClient *http.Client
}

// NewClient creates an OpenAlex client. The mailto parameter joins the
// polite request pool when configured.
func NewClient(cfg config.OpenAlexConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		mailto:  cfg.Mailto,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CitationCount returns the citation count for a DOI. A DOI unknown to
// OpenAlex is reported as zero citations, not as an error, so one stale
// DOI cannot fail the whole report run.
func (c *Client) CitationCount(ctx context.Context, doi string) (int, error) {
	endpoint := fmt.Sprintf("%s/works/doi:%s", c.baseURL, url.PathEscape(doi))
	if c.mailto != "" {
		endpoint += "?mailto=" + url.QueryEscape(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.ExternalServiceError("openalex", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return 0, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errors.ExternalServiceError("openalex",
			fmt.Errorf("status %d for doi %s", resp.StatusCode, doi))
	}

	count := gjson.GetBytes(body, "cited_by_count")
	if !count.Exists() {
		return 0, errors.DataFormat(fmt.Sprintf("no cited_by_count in response for doi %s", doi))
	}
	return int(count.Int()), nil
}
