// Package fal provides a client for the fal.ai queue API used for
// text-to-video generation.
package fal

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

const defaultBaseURL = "https://queue.fal.run"

// Client defines the fal queue operations.
type Client interface {
	Submit(ctx context.Context, model string, req VideoRequest) (*SubmitResponse, error)
	GetStatus(ctx context.Context, model, requestID string) (*StatusResponse, error)
	GetResult(ctx context.Context, model, requestID string) (*ResultResponse, error)
}

// VideoRequest is the generation input payload.
type VideoRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// SubmitResponse is returned when a job is queued.
type SubmitResponse struct {
	RequestID string `json:"request_id"`
}

// StatusResponse reports queue progress for a job.
type StatusResponse struct {
	Status string `json:"status"` // IN_QUEUE, IN_PROGRESS, COMPLETED, FAILED
}

// ResultResponse carries the finished job output.
type ResultResponse struct {
	Video VideoFile `json:"video"`
}

// VideoFile points at the generated video.
type VideoFile struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// APIError is returned on a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fal: HTTP %d: %s", e.StatusCode, e.Body)
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

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new fal queue client.
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

func (c *httpClient) Submit(ctx context.Context, model string, req VideoRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, "/"+model, req, &resp); err != nil {
		return nil, eris.Wrap(err, "fal: submit")
	}
	return &resp, nil
}

func (c *httpClient) GetStatus(ctx context.Context, model, requestID string) (*StatusResponse, error) {
	var resp StatusResponse
	path := fmt.Sprintf("/%s/requests/%s/status", model, requestID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fal: get status %s", requestID))
	}
	return &resp, nil
}

func (c *httpClient) GetResult(ctx context.Context, model, requestID string) (*ResultResponse, error) {
	var resp ResultResponse
	path := fmt.Sprintf("/%s/requests/%s", model, requestID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fal: get result %s", requestID))
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
	req.Header.Set("Authorization", "Key "+c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)

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
