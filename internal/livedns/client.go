package livedns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the LiveDNS v5 API root
const DefaultBaseURL = "https://dns.api.gandi.net/api/v5"

// APIKeyHeader carries the API key on every request
const APIKeyHeader = "X-Api-Key"

// Httper is the subset of *http.Client used by Client
type Httper interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an HTTP API client for Gandi LiveDNS
type Client struct {
	baseURL    string
	apiKey     string
	httpClient Httper
}

// NewClient creates a new LiveDNS API client.
// No timeout is set on the underlying HTTP client.
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithHTTP(baseURL, apiKey, &http.Client{})
}

// NewClientWithHTTP creates a client that sends requests through h
func NewClientWithHTTP(baseURL, apiKey string, h Httper) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: h,
	}
}

// Request describes a single API call
type Request struct {
	// Method defaults to GET
	Method string
	// URL is either a path starting with "/" (joined to the base URL) or a full URL
	URL     string
	Body    []byte
	Headers map[string]string
}

// Response is a successful (status < 400) API response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the response body into v
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// APIError is returned for any response with status >= 400
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// ResolveURL joins paths starting with "/" to the base URL
func (c *Client) ResolveURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return c.baseURL + u
	}
	return u
}

// Do performs an authenticated request.
// Caller headers are merged over the API key header.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	url := c.ResolveURL(r.URL)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(APIKeyHeader, c.apiKey)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("API call", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
