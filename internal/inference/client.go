// Package inference calls a hosted text-classification model over HTTP.
// Requests are {"inputs": text}; responses are either [{label, score}, ...]
// or that list nested one level deeper, as pipeline servers return it.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ErrEmptyResponse means the service answered without any label.
var ErrEmptyResponse = errors.New("classifier returned no labels")

// Prediction is one label with its confidence in [0,1].
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client is safe for concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient creates a reusable HTTP client. apiKey may be empty.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Classify returns the highest-scoring label for text.
func (c *Client) Classify(ctx context.Context, text string) (Prediction, error) {
	preds, err := c.ClassifyAll(ctx, text)
	if err != nil {
		return Prediction{}, err
	}
	return preds[0], nil
}

// ClassifyAll returns every label the service reported, best first.
func (c *Client) ClassifyAll(ctx context.Context, text string) ([]Prediction, error) {
	body, err := json.Marshal(map[string]any{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	preds, err := decodePredictions(raw)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Score > preds[j].Score })
	return preds, nil
}

func decodePredictions(raw []byte) ([]Prediction, error) {
	var flat []Prediction
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) == 0 {
			return nil, ErrEmptyResponse
		}
		return flat, nil
	}

	var nested [][]Prediction
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, ErrEmptyResponse
	}
	return nested[0], nil
}
