// Package vectorindex provides the HTTP client for the managed embedding
// service that backs semantic task search. Documents are keyed by
// (corpus, display name); the service ranks stored chunks by semantic
// similarity with a relevance score in [0,1].
package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultMaxRetries is the default number of retries
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the base delay for exponential backoff
	DefaultBaseDelay = 100 * time.Millisecond

	// DefaultMaxDelay is the maximum delay for exponential backoff
	DefaultMaxDelay = 10 * time.Second

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 30 * time.Second

	// DefaultTopK is the default number of hits returned by Query
	DefaultTopK = 5
)

// Config holds the configuration for the vector index client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a vector index service client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger

	// Retry configuration
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithMaxRetries sets the maximum number of retries
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the base delay for exponential backoff
func WithBaseDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.baseDelay = d
	}
}

// WithMaxDelay sets the maximum delay for exponential backoff
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithHTTPClient replaces the underlying HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new vector index client
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log:        slog.Default(),
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		maxDelay:   DefaultMaxDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Hit is a single ranked result from a similarity query
type Hit struct {
	ID             string  `json:"id"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Document is a stored vector index document
type Document struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Content     string    `json:"content"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

type queryResponse struct {
	Results []Hit `json:"results"`
}

type upsertRequest struct {
	Content string `json:"content"`
}

// Query runs a similarity search against the named store and returns hits
// ranked by relevance. Zero matches yield an empty slice, not an error.
func (c *Client) Query(ctx context.Context, query, storeName string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	endpoint := fmt.Sprintf("%s/v1/corpora/%s/query", c.baseURL, url.PathEscape(storeName))

	reqBytes, err := json.Marshal(queryRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("marshal query request: %w", err)
	}

	body, err := c.doWithRetries(ctx, http.MethodPost, endpoint, reqBytes)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal query response: %w", err)
	}
	if resp.Results == nil {
		return []Hit{}, nil
	}
	return resp.Results, nil
}

// UpsertDocument creates or replaces the document identified by its display
// name within the corpus. A non-nil error means the write did not happen.
func (c *Client) UpsertDocument(ctx context.Context, corpusName, documentID, content string) (*Document, error) {
	endpoint := fmt.Sprintf("%s/v1/corpora/%s/documents/%s",
		c.baseURL, url.PathEscape(corpusName), url.PathEscape(documentID))

	reqBytes, err := json.Marshal(upsertRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("marshal upsert request: %w", err)
	}

	body, err := c.doWithRetries(ctx, http.MethodPut, endpoint, reqBytes)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

// DeleteDocumentByDisplayName removes the document with the given display
// name from the corpus. Returns false with a nil error when no such
// document exists.
func (c *Client) DeleteDocumentByDisplayName(ctx context.Context, corpusName, documentID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/corpora/%s/documents/%s",
		c.baseURL, url.PathEscape(corpusName), url.PathEscape(documentID))

	_, err := c.doWithRetries(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.statusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteCorpus removes an entire corpus and all documents in it. Used when a
// project is deleted. Returns false with a nil error when the corpus does
// not exist.
func (c *Client) DeleteCorpus(ctx context.Context, corpusName string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/corpora/%s", c.baseURL, url.PathEscape(corpusName))

	_, err := c.doWithRetries(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.statusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// doWithRetries executes a request, retrying 429/5xx responses with
// exponential backoff.
func (c *Client) doWithRetries(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var respBody []byte
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			c.log.Debug("retrying vector index request",
				slog.String("method", method),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		respBody, lastErr = c.doRequest(ctx, method, endpoint, body)
		if lastErr == nil {
			return respBody, nil
		}

		// Don't retry on context cancellation or non-retryable API errors
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *apiError
		if errors.As(lastErr, &apiErr) && !apiErr.retryable {
			return nil, lastErr
		}

		c.log.Warn("vector index request failed",
			slog.String("method", method),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)
	}

	return nil, fmt.Errorf("all retries exhausted: %w", lastErr)
}

// doRequest executes a single HTTP request
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{
			statusCode: resp.StatusCode,
			body:       string(respBody),
			retryable: resp.StatusCode == http.StatusTooManyRequests ||
				resp.StatusCode == http.StatusServiceUnavailable ||
				resp.StatusCode >= 500,
		}
	}

	return respBody, nil
}

// calculateBackoff calculates the backoff delay for a given attempt
func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.baseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.maxDelay) {
		delay = float64(c.maxDelay)
	}
	return time.Duration(delay)
}

// apiError is a non-2xx response from the vector service
type apiError struct {
	statusCode int
	body       string
	retryable  bool
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vector index API error %d: %s", e.statusCode, e.body)
}
