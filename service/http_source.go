package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPSource fetches wardrobe files with plain GET requests
// Implements CategorySourceInterface
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a new HTTPSource for files under baseURL
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Ensure HTTPSource implements CategorySourceInterface
var _ CategorySourceInterface = (*HTTPSource)(nil)

// Name returns a description of the source
func (s *HTTPSource) Name() string {
	return "http:" + s.baseURL
}

// BaseURL returns the URL files are fetched from
func (s *HTTPSource) BaseURL() string {
	return s.baseURL
}

// Fetch downloads the named file; any status other than 200 is an error
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	// If name is already a full URL, use it; otherwise prepend baseURL
	fullURL := name
	if !strings.HasPrefix(name, "http://") && !strings.HasPrefix(name, "https://") {
		fullURL = s.baseURL + "/" + strings.TrimPrefix(name, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", name, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error loading file %s: status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
