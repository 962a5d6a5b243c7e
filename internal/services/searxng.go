// SearxNG metasearch implementation of [TempoHintSource]
//
// Talks to a local SearxNG instance with the JSON output format enabled.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/playlister/internal/shared"
)

const defaultSearxBaseURL = "http://localhost:8888"

type searxResponse struct {
	Results []SearchSnippet `json:"results"`
}

// SearxService implements TempoHintSource against a SearxNG instance.
type SearxService struct {
	baseURL    string
	httpClient *http.Client
}

// NewSearxService creates a SearxNG client for the given instance URL.
func NewSearxService(baseURL string, client *http.Client) *SearxService {
	if baseURL == "" {
		baseURL = defaultSearxBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SearxService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Search issues a free-text query against the google engine and returns
// the result snippets in rank order.
func (s *SearxService) Search(ctx context.Context, query string) ([]SearchSnippet, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("engines", "google")

	searchURL := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: searxng status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var response searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Results, nil
}
