package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"clicksafe/internal/models"
)

func TestObserveCheck(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCheck("fraud", "FRAUDULENT", 20*time.Millisecond)
	m.ObserveCheck("fraud", "FRAUDULENT", 30*time.Millisecond)
	m.ObserveCheck("clickbait", "NOT_CLICKBAIT", time.Millisecond)
	m.ObserveLookupFailure("fraud")
	m.SetFeedItems(15)

	if got := testutil.ToFloat64(m.ChecksTotal.WithLabelValues("fraud", "FRAUDULENT")); got != 2 {
		t.Errorf("fraud checks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LookupFailuresTotal.WithLabelValues("fraud")); got != 1 {
		t.Errorf("lookup failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FeedItems); got != 15 {
		t.Errorf("feed items = %v, want 15", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCheck("fraud", "FRAUDULENT", time.Second)
	m.ObserveLookupFailure("fraud")
	m.SetFeedItems(3)
}

type stubOutcomes struct {
	outcomes []models.CheckOutcome
	err      error
}

func (s stubOutcomes) GetAllCheckOutcomes(context.Context) ([]models.CheckOutcome, error) {
	return s.outcomes, s.err
}

func TestOutcomeCollector(t *testing.T) {
	c := NewOutcomeCollector(stubOutcomes{outcomes: []models.CheckOutcome{
		{Detector: "fraud", Verdict: "FRAUDULENT", Count: 4},
		{Detector: "clickbait", Verdict: "CLICKBAIT", Count: 9},
	}})

	want := `
# HELP clicksafe_recorded_checks_total Checks persisted to the check log, by detector and verdict
# TYPE clicksafe_recorded_checks_total counter
clicksafe_recorded_checks_total{detector="clickbait",verdict="CLICKBAIT"} 9
clicksafe_recorded_checks_total{detector="fraud",verdict="FRAUDULENT"} 4
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(want)); err != nil {
		t.Error(err)
	}

	failing := NewOutcomeCollector(stubOutcomes{err: errors.New("db down")})
	if n := testutil.CollectAndCount(failing); n != 0 {
		t.Errorf("collected %d metrics from failing source, want 0", n)
	}
}
