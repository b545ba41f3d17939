// Package playstore talks to the app store lookup service: search by name,
// app details and recent reviews.
package playstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"clicksafe/internal/features"
)

// ErrNotFound means the service has no app matching the request.
var ErrNotFound = errors.New("app not found")

// AppSummary is one search hit.
type AppSummary struct {
	ID    string `json:"appId"`
	Title string `json:"title"`
}

// App is the detail record of one app.
type App struct {
	ID       string  `json:"appId"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Installs string  `json:"installs"`
	Reviews  Count   `json:"reviews"`
	Price    string  `json:"price"`
}

// Review is one user review.
type Review struct {
	Content string `json:"content"`
	Score   int    `json:"score"`
}

// Count decodes a JSON number or a numeric string; anything else is 0.
type Count int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" {
		*c = 0
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*c = 0
		if f >= 0 && f < math.MaxInt64 {
			*c = Count(f)
		}
		return nil
	}
	*c = Count(features.ParseCount(s))
	return nil
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outbound requests per second; rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default().With("component", "playstore"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns apps matching query, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]AppSummary, error) {
	var hits []AppSummary
	q := url.Values{"q": {query}}
	if err := c.get(ctx, "/search?"+q.Encode(), &hits); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return hits, nil
}

// App fetches the details of one app.
func (c *Client) App(ctx context.Context, id string) (*App, error) {
	var app App
	if err := c.get(ctx, "/apps/"+url.PathEscape(id), &app); err != nil {
		return nil, fmt.Errorf("app %s: %w", id, err)
	}
	if app.ID == "" {
		app.ID = id
	}
	return &app, nil
}

// Reviews fetches up to count recent reviews of one app.
func (c *Client) Reviews(ctx context.Context, id string, count int) ([]Review, error) {
	var reviews []Review
	q := url.Values{"count": {strconv.Itoa(count)}}
	if err := c.get(ctx, "/apps/"+url.PathEscape(id)+"/reviews?"+q.Encode(), &reviews); err != nil {
		return nil, fmt.Errorf("reviews %s: %w", id, err)
	}
	if count > 0 && len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ClickSafe/1.0")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("lookup", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
