// Package fraud decides whether a store app is fraudulent: a curated deny
// list first, then a forest over review-derived features.
package fraud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clicksafe/internal/denylist"
	"clicksafe/internal/features"
	"clicksafe/internal/model"
	"clicksafe/internal/playstore"
)

// Verdicts.
const (
	Fraudulent    = "FRAUDULENT"
	NotFraudulent = "NOT_FRAUDULENT"
)

// Metadata feature names, in training order.
const (
	Rating   = "Rating"
	Installs = "Installs"
	Reviews  = "Reviews"
)

// Schema is the full feature order the fraud forest was trained on.
var Schema = features.Schema{
	Rating, Installs, Reviews,
	features.ReviewLength,
	features.Exclamations,
	features.AllCapsCount,
	features.SentimentPolarity,
	features.SentimentSubjectivity,
}

// DefaultReviewCount is how many reviews are fetched per app.
const DefaultReviewCount = 100

// ErrNoMatch means the store search returned nothing.
var ErrNoMatch = errors.New("app not found on Play Store")

// Store is the subset of the store lookup service the detector needs.
type Store interface {
	Search(ctx context.Context, query string) ([]playstore.AppSummary, error)
	App(ctx context.Context, id string) (*playstore.App, error)
	Reviews(ctx context.Context, id string, count int) ([]playstore.Review, error)
}

// Classifier predicts a class for a vector in Schema order.
type Classifier interface {
	Predict(x []float64) (int, float64, error)
	Verdict(class int) string
}

// Kind tags a Decision.
type Kind int

const (
	// ListMatch: the name is on the deny list; nothing else was consulted.
	ListMatch Kind = iota
	// Classified: the model produced Verdict.
	Classified
	// LookupFailed: fetching store data failed; Err says why.
	LookupFailed
)

func (k Kind) String() string {
	switch k {
	case ListMatch:
		return "list_match"
	case Classified:
		return "classified"
	case LookupFailed:
		return "lookup_failed"
	default:
		return "unknown"
	}
}

// Decision is the outcome of one evaluation. It is never mutated.
type Decision struct {
	Kind    Kind
	Query   string
	Title   string
	Verdict string
	Score   float64
	Vector  features.Vector
	Err     error
}

// Detector holds the read-only state loaded at startup.
type Detector struct {
	deny        *denylist.List
	store       Store
	forest      Classifier
	extractor   *features.Extractor
	reviewCount int
	logger      *slog.Logger
}

// Config wires a Detector.
type Config struct {
	DenyList    *denylist.List
	Store       Store
	Classifier  Classifier
	Extractor   *features.Extractor
	ReviewCount int
}

// New creates a detector. A forest whose schema differs from Schema is rejected.
func New(cfg Config) (*Detector, error) {
	if cfg.Store == nil || cfg.Classifier == nil {
		return nil, errors.New("fraud detector needs a store and a classifier")
	}
	if f, ok := cfg.Classifier.(*model.Forest); ok {
		if err := f.CheckSchema(Schema); err != nil {
			return nil, fmt.Errorf("fraud model: %w", err)
		}
	}
	if cfg.Extractor == nil {
		cfg.Extractor = features.NewExtractor(nil)
	}
	if cfg.ReviewCount <= 0 {
		cfg.ReviewCount = DefaultReviewCount
	}
	return &Detector{
		deny:        cfg.DenyList,
		store:       cfg.Store,
		forest:      cfg.Classifier,
		extractor:   cfg.Extractor,
		reviewCount: cfg.ReviewCount,
		logger:      slog.Default().With("component", "fraud-detector"),
	}, nil
}

// Evaluate runs the two-branch decision for one app name. It never returns
// an error: lookup problems become a LookupFailed decision.
func (d *Detector) Evaluate(ctx context.Context, name string) Decision {
	query := denylist.Normalize(name)

	if d.deny.Contains(query) {
		return Decision{Kind: ListMatch, Query: query, Title: query, Verdict: Fraudulent}
	}

	app, reviews, err := d.fetch(ctx, query)
	if err != nil {
		d.logger.Warn("lookup failed", "query", query, "error", err)
		return Decision{Kind: LookupFailed, Query: query, Err: err}
	}

	vec := d.Features(app, reviews)
	class, prob, err := d.forest.Predict(vec.Values)
	if err != nil {
		d.logger.Error("prediction failed", "query", query, "error", err)
		return Decision{Kind: Classified, Query: query, Title: app.Title, Verdict: model.Unknown, Vector: vec}
	}

	return Decision{
		Kind:    Classified,
		Query:   query,
		Title:   app.Title,
		Verdict: d.forest.Verdict(class),
		Score:   prob,
		Vector:  vec,
	}
}

func (d *Detector) fetch(ctx context.Context, query string) (*playstore.App, []playstore.Review, error) {
	hits, err := d.store.Search(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if len(hits) == 0 {
		return nil, nil, ErrNoMatch
	}
	best := hits[0]

	app, err := d.store.App(ctx, best.ID)
	if err != nil {
		return nil, nil, err
	}
	reviews, err := d.store.Reviews(ctx, best.ID, d.reviewCount)
	if err != nil {
		return nil, nil, err
	}
	return app, reviews, nil
}

// Features builds the aggregated vector: app metadata plus the mean of the
// per-review text features. An app without reviews gets zero text features.
func (d *Detector) Features(app *playstore.App, reviews []playstore.Review) features.Vector {
	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		texts = append(texts, r.Content)
	}
	mean := features.Mean(features.TextSchema, d.extractor.ExtractAll(texts))

	vec := features.NewVector(Schema)
	_ = vec.Set(Rating, app.Score)
	_ = vec.Set(Installs, float64(features.ParseInstalls(app.Installs)))
	_ = vec.Set(Reviews, float64(app.Reviews))
	features.Merge(vec, mean)
	return vec
}
