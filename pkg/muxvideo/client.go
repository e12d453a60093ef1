// Package muxvideo provides a client for the Mux direct-upload and asset
// status APIs.
package muxvideo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.mux.com"

// Client defines the video-host operations used by the pipeline.
type Client interface {
	CreateUpload(ctx context.Context) (*Upload, error)
	PutFile(ctx context.Context, uploadURL, filePath string) error
	GetUpload(ctx context.Context, uploadID string) (*Upload, error)
	GetAsset(ctx context.Context, assetID string) (*Asset, error)
}

// Upload is a provisioned direct upload.
type Upload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
}

// Asset is a hosted video asset.
type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"` // preparing, ready, errored
	PlaybackIDs []PlaybackID `json:"playback_ids"`
}

// PlaybackID is a durable playback identifier.
type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// APIError is returned on a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mux: HTTP %d: %s", e.StatusCode, e.Body)
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
	tokenID     string
	tokenSecret string
	baseURL     string
	http        *http.Client
}

// NewClient creates a new Mux client authenticated with a token pair.
func NewClient(tokenID, tokenSecret string, opts ...Option) Client {
	c := &httpClient{
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		baseURL:     defaultBaseURL,
		http: &http.Client{
			Timeout: 5 * time.Minute,
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

func (c *httpClient) CreateUpload(ctx context.Context) (*Upload, error) {
	body := map[string]any{
		"cors_origin": "*",
		"new_asset_settings": map[string]any{
			"playback_policy": []string{"public"},
		},
	}
	var resp struct {
		Data Upload `json:"data"`
	}
	if err := c.post(ctx, "/video/v1/uploads", body, &resp); err != nil {
		return nil, eris.Wrap(err, "mux: create upload")
	}
	return &resp.Data, nil
}

// PutFile streams a local file to the provisioned upload URL.
func (c *httpClient) PutFile(ctx context.Context, uploadURL, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return eris.Wrap(err, "mux: open upload file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return eris.Wrap(err, "mux: stat upload file")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, f)
	if err != nil {
		return eris.Wrap(err, "mux: create put request")
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "video/mp4")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "mux: put file")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return nil
}

func (c *httpClient) GetUpload(ctx context.Context, uploadID string) (*Upload, error) {
	var resp struct {
		Data Upload `json:"data"`
	}
	if err := c.get(ctx, "/video/v1/uploads/"+uploadID, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("mux: get upload %s", uploadID))
	}
	return &resp.Data, nil
}

func (c *httpClient) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var resp struct {
		Data Asset `json:"data"`
	}
	if err := c.get(ctx, "/video/v1/assets/"+assetID, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("mux: get asset %s", assetID))
	}
	return &resp.Data, nil
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
	req.SetBasicAuth(c.tokenID, c.tokenSecret)

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)

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
