// Package firecrawl provides a client for the Firecrawl search and scrape API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the Firecrawl API.
const defaultBaseURL = "https://api.firecrawl.dev/v1"

// Client defines the Firecrawl operations used by the pipeline.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error)
}

// SearchRequest is the body for POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is the normalized response from POST /search. The API has
// shipped three payload shapes over time ({"web":[...]}, {"data":[...]} and
// {"data":{"web":[...]}}); UnmarshalJSON collapses all of them, so the
// ambiguity never leaves this package.
type SearchResponse struct {
	Success bool
	Items   []SearchItem
}

// Results returns the normalized search result list.
func (r *SearchResponse) Results() []SearchItem {
	if r == nil {
		return nil
	}
	return r.Items
}

// UnmarshalJSON normalizes the three observed search payload shapes.
func (r *SearchResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Success bool            `json:"success"`
		Web     []SearchItem    `json:"web"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return eris.Wrap(err, "firecrawl: decode search response")
	}
	r.Success = raw.Success

	if len(raw.Web) > 0 {
		r.Items = raw.Web
		return nil
	}
	if len(raw.Data) == 0 {
		return nil
	}

	var direct []SearchItem
	if err := json.Unmarshal(raw.Data, &direct); err == nil {
		r.Items = direct
		return nil
	}

	var nested struct {
		Web []SearchItem `json:"web"`
	}
	if err := json.Unmarshal(raw.Data, &nested); err != nil {
		return eris.Wrap(err, "firecrawl: unrecognized search data shape")
	}
	r.Items = nested.Web
	return nil
}

// SearchItem is a single search result.
type SearchItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ScrapeRequest is the body for POST /scrape.
type ScrapeRequest struct {
	URL         string       `json:"url"`
	Formats     []string     `json:"formats,omitempty"`
	OnlyMain    bool         `json:"onlyMainContent,omitempty"`
	TimeoutMS   int          `json:"timeout,omitempty"`
	JSONOptions *JSONOptions `json:"jsonOptions,omitempty"`
}

// JSONOptions configures structured JSON extraction during a scrape.
type JSONOptions struct {
	Schema map[string]any `json:"schema,omitempty"`
	Prompt string         `json:"prompt,omitempty"`
}

// ScrapeResponse is the response from POST /scrape.
type ScrapeResponse struct {
	Success bool     `json:"success"`
	Data    PageData `json:"data"`
}

// PageData represents one scraped page.
type PageData struct {
	URL      string          `json:"url"`
	Markdown string          `json:"markdown"`
	JSON     json.RawMessage `json:"json,omitempty"`
	Metadata PageMetadata    `json:"metadata"`
}

// PageMetadata carries page-level fields returned alongside content.
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"sourceURL"`
	StatusCode  int    `json:"statusCode"`
}

// APIError is returned when Firecrawl responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firecrawl: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Firecrawl client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return nil, eris.Wrap(err, "firecrawl: search")
	}
	return &resp, nil
}

func (c *httpClient) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error) {
	var resp ScrapeResponse
	if err := c.post(ctx, "/scrape", req, &resp); err != nil {
		return nil, eris.Wrap(err, "firecrawl: scrape")
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
