// Package fakenews classifies live feed headlines as fake or real.
package fakenews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"clicksafe/internal/newsfeed"
)

// Verdicts.
const (
	Fake  = "FAKE"
	Real  = "REAL"
	Error = "ERROR"
)

// DefaultWorkers bounds concurrent classification of one feed.
const DefaultWorkers = 4

// Feed yields the headlines to classify.
type Feed interface {
	Fetch(ctx context.Context) ([]newsfeed.Item, error)
}

// Backend classifies one headline. prob is the winning probability in [0,1].
type Backend interface {
	Classify(ctx context.Context, item newsfeed.Item) (verdict string, prob float64, err error)
	Name() string
}

// Result is one classified headline as shown on a card.
type Result struct {
	Title     string    `json:"title"`
	Link      string    `json:"link,omitempty"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	Published time.Time `json:"published,omitzero"`
}

// Detector is immutable after New.
type Detector struct {
	feed    Feed
	backend Backend
	workers int
	logger  *slog.Logger
}

// New creates a detector. workers <= 0 uses DefaultWorkers.
func New(feed Feed, backend Backend, workers int) (*Detector, error) {
	if feed == nil || backend == nil {
		return nil, errors.New("fake news detector needs a feed and a backend")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Detector{
		feed:    feed,
		backend: backend,
		workers: workers,
		logger:  slog.Default().With("component", "fakenews-detector", "backend", backend.Name()),
	}, nil
}

// Backend returns the configured backend's name.
func (d *Detector) Backend() string {
	return d.backend.Name()
}

// Check fetches the feed and classifies every headline. Only a feed failure
// is returned as an error; a headline that cannot be classified is labelled
// ERROR with score 0 and the rest of the page is unaffected.
func (d *Detector) Check(ctx context.Context) ([]Result, error) {
	items, err := d.feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load headlines: %w", err)
	}

	results := make([]Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, item := range items {
		g.Go(func() error {
			results[i] = d.classify(gctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (d *Detector) classify(ctx context.Context, item newsfeed.Item) Result {
	res := Result{Title: item.Title, Link: item.Link, Published: item.Published}
	verdict, prob, err := d.backend.Classify(ctx, item)
	if err != nil {
		d.logger.Warn("headline classification failed", "title", item.Title, "error", err)
		res.Label = Error
		return res
	}
	res.Label = verdict
	res.Score = Percent(prob)
	return res
}

// Percent converts a probability to a percentage rounded to one decimal.
func Percent(prob float64) float64 {
	if math.IsNaN(prob) || prob < 0 {
		return 0
	}
	return math.Round(prob*1000) / 10
}
