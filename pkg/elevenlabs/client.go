// Package elevenlabs provides a client for the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// Client defines the text-to-speech operations used by the pipeline.
type Client interface {
	// Synthesize converts text to speech and returns the audio bytes plus
	// character-level timing alignment.
	Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error)
}

// SynthesizeRequest is the input for a synthesis call.
type SynthesizeRequest struct {
	Text       string
	VoiceID    string
	ModelID    string
	Stability  float64
	Similarity float64
}

// SynthesizeResponse carries the audio and its alignment.
type SynthesizeResponse struct {
	Audio     []byte
	Alignment *Alignment
}

// Duration returns the spoken length in seconds, derived from the alignment.
// Returns 0 when no alignment was returned.
func (r *SynthesizeResponse) Duration() float64 {
	if r == nil || r.Alignment == nil || len(r.Alignment.CharEndTimes) == 0 {
		return 0
	}
	return r.Alignment.CharEndTimes[len(r.Alignment.CharEndTimes)-1]
}

// Alignment maps characters of the input text to playback times.
type Alignment struct {
	Characters     []string  `json:"characters"`
	CharStartTimes []float64 `json:"character_start_times_seconds"`
	CharEndTimes   []float64 `json:"character_end_times_seconds"`
}

// APIError is returned on a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs: HTTP %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a new ElevenLabs client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 120 * time.Second,
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

func (c *httpClient) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error) {
	body := map[string]any{
		"text":     req.Text,
		"model_id": req.ModelID,
		"voice_settings": map[string]any{
			"stability":        req.Stability,
			"similarity_boost": req.Similarity,
		},
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "elevenlabs: marshal request")
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/with-timestamps", c.baseURL, req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, eris.Wrap(err, "elevenlabs: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "elevenlabs: execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "elevenlabs: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	var parsed struct {
		AudioBase64 string     `json:"audio_base64"`
		Alignment   *Alignment `json:"alignment"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, eris.Wrap(err, "elevenlabs: decode response")
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.AudioBase64)
	if err != nil {
		return nil, eris.Wrap(err, "elevenlabs: decode audio")
	}

	return &SynthesizeResponse{
		Audio:     audio,
		Alignment: parsed.Alignment,
	}, nil
}
