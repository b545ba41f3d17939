// Package checks runs the detectors on behalf of the HTTP handlers and
// records every outcome: metrics synchronously, history asynchronously.
package checks

import (
	"context"
	"errors"
	"time"

	"clicksafe/internal/detect/clickbait"
	"clicksafe/internal/detect/fakenews"
	"clicksafe/internal/detect/fraud"
	"clicksafe/internal/events"
	"clicksafe/internal/metrics"
	"clicksafe/internal/models"
)

// ErrDisabled means the detector was not configured at startup.
var ErrDisabled = errors.New("detector is not available")

// HeadlineClassifier is the clickbait detector.
type HeadlineClassifier interface {
	Classify(headline string) (clickbait.Result, error)
}

// AppEvaluator is the fraud detector.
type AppEvaluator interface {
	Evaluate(ctx context.Context, name string) fraud.Decision
}

// FeedChecker is the fake news detector.
type FeedChecker interface {
	Check(ctx context.Context) ([]fakenews.Result, error)
}

// Service is built once at startup; nil detectors are reported as disabled.
type Service struct {
	Clickbait HeadlineClassifier
	Fraud     AppEvaluator
	News      FeedChecker
	Metrics   *metrics.Metrics
	Recorder  *events.Recorder
}

// Headline classifies one headline. Empty input returns
// clickbait.ErrEmptyHeadline and is not recorded.
func (s *Service) Headline(headline string) (clickbait.Result, error) {
	if s.Clickbait == nil {
		return clickbait.Result{}, ErrDisabled
	}
	start := time.Now()
	res, err := s.Clickbait.Classify(headline)
	if err != nil {
		return res, err
	}
	s.Metrics.ObserveCheck(models.DetectorClickbait, res.Verdict, time.Since(start))
	s.Recorder.Record(models.NewCheck(models.DetectorClickbait, res.Headline, res.Verdict, res.Score))
	return res, nil
}

// App evaluates one app name.
func (s *Service) App(ctx context.Context, name string) (fraud.Decision, error) {
	if s.Fraud == nil {
		return fraud.Decision{}, ErrDisabled
	}
	start := time.Now()
	d := s.Fraud.Evaluate(ctx, name)

	verdict := d.Verdict
	if d.Kind == fraud.LookupFailed {
		verdict = models.VerdictError
		s.Metrics.ObserveLookupFailure(models.DetectorFraud)
	}
	s.Metrics.ObserveCheck(models.DetectorFraud, verdict, time.Since(start))

	c := models.NewCheck(models.DetectorFraud, d.Query, verdict, d.Score).WithError(d.Err)
	c.Kind = d.Kind.String()
	s.Recorder.Record(c)
	return d, nil
}

// Feed classifies the current headlines.
func (s *Service) Feed(ctx context.Context) ([]fakenews.Result, error) {
	if s.News == nil {
		return nil, ErrDisabled
	}
	start := time.Now()
	results, err := s.News.Check(ctx)
	if err != nil {
		s.Metrics.ObserveLookupFailure(models.DetectorFakeNews)
		return nil, err
	}
	took := time.Since(start)
	s.Metrics.SetFeedItems(len(results))
	for _, r := range results {
		s.Metrics.ObserveCheck(models.DetectorFakeNews, r.Label, took)
		s.Recorder.Record(models.NewCheck(models.DetectorFakeNews, r.Title, r.Label, r.Score))
	}
	return results, nil
}
