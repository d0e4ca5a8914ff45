package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one turn of a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload forwarded to the completions API.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ImageRequest is the payload forwarded to the image-generation API.
type ImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

// UpstreamError carries the upstream service's own message where available.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Service, e.Status, e.Message)
}

// Client calls an OpenRouter-compatible API for chat completions and image
// generation. Works with OpenRouter itself or any OpenAI-compatible server.
type Client struct {
	baseURL    string
	apiKey     string
	siteURL    string
	httpClient *http.Client
}

// NewClient builds a Client. baseURL should include the /v1 prefix.
func NewClient(baseURL, apiKey, siteURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		siteURL: siteURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Complete forwards a non-streaming chat request and returns the upstream
// JSON body untouched.
func (c *Client) Complete(ctx context.Context, req ChatRequest) ([]byte, error) {
	req.Stream = false
	resp, err := c.post(ctx, "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// StreamCompletion forwards a streaming chat request and hands back the
// upstream event-stream body. The caller owns closing it.
func (c *Client) StreamCompletion(ctx context.Context, req ChatRequest) (io.ReadCloser, error) {
	req.Stream = true
	resp, err := c.post(ctx, "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// GenerateImage forwards an image-generation request and returns the
// upstream JSON body untouched.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) ([]byte, error) {
	if req.N == 0 {
		req.N = 1
	}
	if req.Size == "" {
		req.Size = "1024x1024"
	}
	resp, err := c.post(ctx, "/images/generations", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	if !c.Configured() {
		return nil, &UpstreamError{Service: "openrouter", Status: 0, Message: "API key not configured"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg := resp.Status
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return nil, &UpstreamError{Service: "openrouter", Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}
