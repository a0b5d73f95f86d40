package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubreport/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.OpenAlexConfig{
		BaseURL: baseURL,
		Mailto:  "editor@example.org",
	})
}

func TestCitationCount_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/works/doi:"))
		assert.Equal(t, "editor@example.org", r.URL.Query().Get("mailto"))
		fmt.Fprint(w, `{"id":"https://openalex.org/W123","cited_by_count":57}`)
	}))
	defer server.Close()

	count, err := testClient(server.URL).CitationCount(context.Background(), "10.21105/joss.01234")
	require.NoError(t, err)
	assert.Equal(t, 57, count)
}

func TestCitationCount_UnknownDOIIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	count, err := testClient(server.URL).CitationCount(context.Background(), "10.0000/missing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCitationCount_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server.URL).CitationCount(context.Background(), "10.21105/joss.01234")
	assert.Error(t, err)
}

func TestCitationCount_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"https://openalex.org/W123"}`)
	}))
	defer server.Close()

	_, err := testClient(server.URL).CitationCount(context.Background(), "10.21105/joss.01234")
	assert.Error(t, err)
}
