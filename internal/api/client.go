// Package api is the HTTP client for an external sentence-boundary service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"whispersubs/internal/boundary"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	userAgent         = "whispersubs/1.0"
)

// Options configures a Client.
type Options struct {
	Endpoint          string
	RequestsPerMinute int
	MaxRetries        int
	Timeout           time.Duration
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

// Client posts transcript text to a sentence-boundary service and decodes
// character offsets from the reply.
//
// Request:  {"text": "...", "language": "de"}
// Response: {"sentence_starts": [0, 12], "sentence_ends": [11, 30]}
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

var _ boundary.Oracle = (*Client)(nil)

// NewClient returns a rate-limited client for opts.Endpoint.
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("api: empty endpoint")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		// Tokens per second = RPM / 60.
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
	}
	return &Client{
		endpoint:   opts.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: retries,
		backoff:    backoff,
	}, nil
}

type boundaryRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type boundaryResponse struct {
	SentenceStarts []int `json:"sentence_starts"`
	SentenceEnds   []int `json:"sentence_ends"`
}

// statusError is returned for non-200 replies; 4xx replies are not retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("sentence service returned status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Boundaries implements boundary.Oracle.
func (c *Client) Boundaries(ctx context.Context, text, language string) (boundary.Set, error) {
	var lastErr error

	// Retry loop with exponential backoff.
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return boundary.Set{}, fmt.Errorf("rate limiter: %w", err)
		}

		set, err := c.do(ctx, text, language)
		if err == nil {
			return set, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
		if attempt < c.maxRetries-1 {
			backoff := c.backoff << uint(attempt)
			slog.Warn("sentence service failed, retrying",
				"attempt", attempt+1,
				"backoff", backoff,
				"err", err)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return boundary.Set{}, ctx.Err()
			case <-timer.C:
			}
		}
	}
	return boundary.Set{}, fmt.Errorf("sentence service: %w", lastErr)
}

func (c *Client) do(ctx context.Context, text, language string) (boundary.Set, error) {
	body, err := json.Marshal(boundaryRequest{Text: text, Language: language})
	if err != nil {
		return boundary.Set{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return boundary.Set{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if language != "" {
		req.Header.Set("Accept-Language", language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return boundary.Set{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return boundary.Set{}, &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	var out boundaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return boundary.Set{}, fmt.Errorf("decode response: %w", err)
	}
	return boundary.NewSet(out.SentenceStarts, out.SentenceEnds), nil
}
