// Package metrics exposes check counters to Prometheus.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"clicksafe/internal/models"
)

// Metrics holds the in-process collectors.
type Metrics struct {
	ChecksTotal         *prometheus.CounterVec
	LookupFailuresTotal *prometheus.CounterVec
	CheckDuration       *prometheus.HistogramVec
	FeedItems           prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clicksafe_checks_total",
				Help: "Completed checks by detector and verdict.",
			},
			[]string{"detector", "verdict"},
		),
		LookupFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clicksafe_lookup_failures_total",
				Help: "Checks that failed while fetching external data.",
			},
			[]string{"detector"},
		),
		CheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clicksafe_check_duration_seconds",
				Help:    "Time to produce a verdict, including external lookups.",
				Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"detector"},
		),
		FeedItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "clicksafe_feed_items",
				Help: "Headlines classified in the latest feed refresh.",
			},
		),
	}
	reg.MustRegister(m.ChecksTotal, m.LookupFailuresTotal, m.CheckDuration, m.FeedItems)
	return m
}

// ObserveCheck counts one verdict. Safe on a nil Metrics.
func (m *Metrics) ObserveCheck(detector, verdict string, took time.Duration) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(detector, verdict).Inc()
	m.CheckDuration.WithLabelValues(detector).Observe(took.Seconds())
}

// ObserveLookupFailure counts a failed external fetch. Safe on a nil Metrics.
func (m *Metrics) ObserveLookupFailure(detector string) {
	if m == nil {
		return
	}
	m.LookupFailuresTotal.WithLabelValues(detector).Inc()
}

// SetFeedItems records the size of the latest feed refresh.
func (m *Metrics) SetFeedItems(n int) {
	if m == nil {
		return
	}
	m.FeedItems.Set(float64(n))
}

var outcomeDesc = prometheus.NewDesc(
	"clicksafe_recorded_checks_total",
	"Checks persisted to the check log, by detector and verdict",
	[]string{"detector", "verdict"},
	nil,
)

// OutcomeSource reads the persisted outcome counters.
type OutcomeSource interface {
	GetAllCheckOutcomes(ctx context.Context) ([]models.CheckOutcome, error)
}

// OutcomeCollector is a custom Prometheus collector that reads outcome
// counts from the database on each scrape, so totals survive restarts.
type OutcomeCollector struct {
	src     OutcomeSource
	timeout time.Duration
}

// NewOutcomeCollector creates a collector over src.
func NewOutcomeCollector(src OutcomeSource) *OutcomeCollector {
	return &OutcomeCollector{src: src, timeout: 5 * time.Second}
}

// Describe sends the metric descriptor to the channel.
func (c *OutcomeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- outcomeDesc
}

// Collect queries the outcome counters and emits them.
func (c *OutcomeCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	outcomes, err := c.src.GetAllCheckOutcomes(ctx)
	if err != nil {
		slog.Error("failed to collect check outcome metrics", "error", err)
		return
	}
	for _, o := range outcomes {
		ch <- prometheus.MustNewConstMetric(
			outcomeDesc,
			prometheus.CounterValue,
			float64(o.Count),
			o.Detector,
			o.Verdict,
		)
	}
}
