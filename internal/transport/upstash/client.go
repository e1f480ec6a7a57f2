// Package upstash is an index.Index backed by the Upstash Vector REST API.
package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kailas-cloud/storefront/internal/index"
)

var _ index.Index = (*Client)(nil)

// maxErrorBody caps how much of an error reply is kept for diagnostics.
const maxErrorBody = 4 << 10

// Config holds the Upstash Vector connection settings.
type Config struct {
	URL   string
	Token string
	// Timeout bounds a single HTTP round-trip (default 10s). The caller's
	// context deadline still applies.
	Timeout time.Duration
	// RateLimit caps outbound requests per second; zero disables the limiter.
	RateLimit float64
	RateBurst int
	// Transport allows injecting a custom round-tripper (tests).
	Transport http.RoundTripper
}

// Client talks to one Upstash Vector index. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Upstash Vector client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("upstash url is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("upstash token is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		limiter: limiter,
	}, nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Filter          string    `json:"filter,omitempty"`
}

type upsertRecord struct {
	ID       string    `json:"id"`
	Vector   []float32 `json:"vector"`
	Metadata any       `json:"metadata,omitempty"`
}

// envelope is the common success reply shape: {"result": ...}.
type envelope[T any] struct {
	Result T `json:"result"`
}

// Query runs a similarity query. The filter string is omitted when the
// expression is empty.
func (c *Client) Query(ctx context.Context, q index.Query) ([]index.Match, error) {
	req := queryRequest{
		Vector:          q.Vector,
		TopK:            q.TopK,
		IncludeMetadata: q.IncludeMetadata,
	}
	if !q.Filter.IsEmpty() {
		req.Filter = q.Filter.Render()
	}

	var resp envelope[[]index.Match]
	if err := c.do(ctx, http.MethodPost, "/query", req, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return []index.Match{}, nil
	}
	return resp.Result, nil
}

// Upsert writes records with their metadata.
func (c *Client) Upsert(ctx context.Context, records []index.Record) error {
	if len(records) == 0 {
		return nil
	}
	body := make([]upsertRecord, len(records))
	for i, r := range records {
		body[i] = upsertRecord{ID: r.ID, Vector: r.Vector, Metadata: r.Metadata}
	}
	var resp envelope[string]
	return c.do(ctx, http.MethodPost, "/upsert", body, &resp)
}

// Ping fetches index info.
func (c *Client) Ping(ctx context.Context) error {
	var resp envelope[json.RawMessage]
	return c.do(ctx, http.MethodGet, "/info", nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader = http.NoBody
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &index.StatusError{Code: resp.StatusCode, Message: errorMessage(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// errorMessage extracts the "error" field from an Upstash error body,
// falling back to the raw text.
func errorMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	return strings.TrimSpace(string(body))
}
