// Package clickbait classifies a single headline with a TF-IDF vectorizer
// feeding a random forest.
package clickbait

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clicksafe/internal/model"
)

// Verdicts.
const (
	Clickbait    = "CLICKBAIT"
	NotClickbait = "NOT_CLICKBAIT"
)

// ErrEmptyHeadline is returned for blank input; no verdict is produced.
var ErrEmptyHeadline = errors.New("headline is empty")

// Result is one classified headline.
type Result struct {
	Headline string  `json:"headline"`
	Verdict  string  `json:"verdict"`
	Score    float64 `json:"score"`
}

// Message is the text shown to the user for the verdict.
func (r Result) Message() string {
	switch r.Verdict {
	case Clickbait:
		return "🚨 Clickbait Detected!"
	case NotClickbait:
		return "✅ Not Clickbait."
	default:
		return "❔ Unable to classify this headline."
	}
}

// Detector is immutable after New and safe for concurrent use.
type Detector struct {
	vectorizer *model.Vectorizer
	forest     *model.Forest
	logger     *slog.Logger
}

// New pairs a vectorizer with the forest trained on its output.
func New(vec *model.Vectorizer, forest *model.Forest) (*Detector, error) {
	if vec == nil || forest == nil {
		return nil, errors.New("clickbait detector needs a vectorizer and a forest")
	}
	if forest.NumFeatures() != vec.Width() {
		return nil, fmt.Errorf("clickbait model: %w: forest width %d, vocabulary width %d",
			model.ErrSchemaMismatch, forest.NumFeatures(), vec.Width())
	}
	return &Detector{
		vectorizer: vec,
		forest:     forest,
		logger:     slog.Default().With("component", "clickbait-detector"),
	}, nil
}

// Load reads both artifacts from disk.
func Load(vectorizerPath, forestPath string) (*Detector, error) {
	vec, err := model.LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, err
	}
	forest, err := model.LoadForest(forestPath)
	if err != nil {
		return nil, err
	}
	return New(vec, forest)
}

// Classify trims headline and predicts its verdict.
func (d *Detector) Classify(headline string) (Result, error) {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return Result{}, ErrEmptyHeadline
	}

	class, prob, err := d.forest.Predict(d.vectorizer.Transform(headline))
	if err != nil {
		d.logger.Error("prediction failed", "error", err)
		return Result{Headline: headline, Verdict: model.Unknown}, nil
	}
	return Result{Headline: headline, Verdict: d.forest.Verdict(class), Score: prob}, nil
}
