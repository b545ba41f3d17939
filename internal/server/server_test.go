package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"clicksafe/internal/checks"
	"clicksafe/internal/config"
	"clicksafe/internal/denylist"
	"clicksafe/internal/detect/clickbait"
	"clicksafe/internal/detect/fakenews"
	"clicksafe/internal/detect/fraud"
	"clicksafe/internal/metrics"
	"clicksafe/internal/model"
	"clicksafe/internal/playstore"
)

type spyStore struct {
	calls atomic.Int32
	err   error
}

func (s *spyStore) Search(context.Context, string) ([]playstore.AppSummary, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []playstore.AppSummary{{ID: "com.calc", Title: "Calculator"}}, nil
}

func (s *spyStore) App(context.Context, string) (*playstore.App, error) {
	s.calls.Add(1)
	return &playstore.App{ID: "com.calc", Title: "Calculator", Score: 4.5, Installs: "1,000+", Reviews: 10}, nil
}

func (s *spyStore) Reviews(context.Context, string, int) ([]playstore.Review, error) {
	s.calls.Add(1)
	return []playstore.Review{{Content: "works fine"}}, nil
}

type constClassifier struct{ class int }

func (c constClassifier) Predict([]float64) (int, float64, error) { return c.class, 0.7, nil }

func (c constClassifier) Verdict(class int) string {
	return model.LabelMap{"0": fraud.NotFraudulent, "1": fraud.Fraudulent}.ClassVerdict(class)
}

type stubHeadlines struct{}

func (stubHeadlines) Classify(h string) (clickbait.Result, error) {
	h = strings.TrimSpace(h)
	if h == "" {
		return clickbait.Result{}, clickbait.ErrEmptyHeadline
	}
	if strings.Contains(h, "!!!") {
		return clickbait.Result{Headline: h, Verdict: clickbait.Clickbait, Score: 0.9}, nil
	}
	return clickbait.Result{Headline: h, Verdict: clickbait.NotClickbait, Score: 0.8}, nil
}

type stubFeed struct{}

func (stubFeed) Check(context.Context) ([]fakenews.Result, error) {
	return []fakenews.Result{
		{Title: "Moon landing faked", Link: "https://example.com/1", Label: fakenews.Fake, Score: 91.2},
		{Title: "Budget passes", Label: fakenews.Error},
	}, nil
}

func newTestServer(t *testing.T, store *spyStore) *Server {
	t.Helper()
	cfg := &config.Config{
		SiteTitle:    "ClickSafe",
		SiteFooter:   "footer",
		BaseURL:      "http://localhost:3000",
		RateLimitMax: 1000,
	}

	detector, err := fraud.New(fraud.Config{
		DenyList:   denylist.New([]string{"totally legit app"}),
		Store:      store,
		Classifier: constClassifier{class: 0},
	})
	if err != nil {
		t.Fatalf("fraud.New: %v", err)
	}

	reg := prometheus.NewRegistry()
	svc := &checks.Service{
		Clickbait: stubHeadlines{},
		Fraud:     detector,
		News:      stubFeed{},
		Metrics:   metrics.New(reg),
	}

	s := newServer(cfg, reg, nil)
	s.RegisterRoutes(Deps{Service: svc})
	return s
}

func do(t *testing.T, s *Server, req *http.Request) (int, string) {
	t.Helper()
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func form(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFraudDenyListSkipsLookup(t *testing.T) {
	store := &spyStore{}
	s := newTestServer(t, store)

	code, body := do(t, s, form("/fraud", "appname=++Totally+Legit+App++"))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "🚨 FRAUDULENT (Listed in known fraud apps)") {
		t.Errorf("body missing deny-list verdict:\n%s", body)
	}
	if !strings.Contains(body, "totally legit app") {
		t.Error("body missing normalized input")
	}
	if n := store.calls.Load(); n != 0 {
		t.Errorf("store called %d times, want 0", n)
	}
}

func TestFraudLookupFailureStillOK(t *testing.T) {
	s := newTestServer(t, &spyStore{err: errors.New("scraper exploded")})

	code, body := do(t, s, form("/fraud", "appname=Calculator"))
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !strings.Contains(body, "⚠️") || !strings.Contains(body, "Something went wrong") {
		t.Errorf("body missing error indicator:\n%s", body)
	}
}

func TestFraudClassified(t *testing.T) {
	s := newTestServer(t, &spyStore{})
	_, body := do(t, s, form("/fraud", "appname=calculator"))
	if !strings.Contains(body, "✔️ NOT FRAUDULENT") {
		t.Errorf("body missing verdict:\n%s", body)
	}
	if !strings.Contains(body, "Best match:</strong> Calculator") {
		t.Error("body missing matched title")
	}
}

func TestClickbaitForm(t *testing.T) {
	s := newTestServer(t, &spyStore{})

	tests := []struct {
		name    string
		body    string
		want    string
		notWant string
	}{
		{"clickbait", "headline=shocking%21%21%21+you+wont+believe+this", "🚨 Clickbait Detected!", ""},
		{"plain", "headline=Council+sets+budget", "✅ Not Clickbait.", ""},
		{"blank gives no verdict", "headline=+++", "Clickbait Headline Detector", "Clickbait Detected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, s, form("/clickbait", tt.body))
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
			if tt.notWant != "" && strings.Contains(body, tt.notWant) {
				t.Errorf("body should not contain %q", tt.notWant)
			}
		})
	}
}

func TestNewsPartialHasNoLayout(t *testing.T) {
	s := newTestServer(t, &spyStore{})

	_, page := do(t, s, httptest.NewRequest(http.MethodGet, "/fakenews", nil))
	if !strings.Contains(page, "<!DOCTYPE html>") || !strings.Contains(page, "Moon landing faked") {
		t.Errorf("full page missing layout or cards")
	}
	if !strings.Contains(page, "30000") {
		t.Error("page missing refresh interval")
	}

	_, cards := do(t, s, httptest.NewRequest(http.MethodGet, "/fakenews/news", nil))
	if strings.Contains(cards, "<!DOCTYPE html>") {
		t.Error("partial should not include the layout")
	}
	if !strings.Contains(cards, "FAKE — 91.2%") || !strings.Contains(cards, "ERROR — 0.0%") {
		t.Errorf("cards = %s", cards)
	}
}

func TestAPI(t *testing.T) {
	s := newTestServer(t, &spyStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/clickbait", strings.NewReader(`{"headline":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	if code, _ := do(t, s, req); code != http.StatusBadRequest {
		t.Errorf("blank headline status = %d, want 400", code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/fraud", strings.NewReader(`{"appname":"Totally Legit App"}`))
	req.Header.Set("Content-Type", "application/json")
	code, body := do(t, s, req)
	if code != http.StatusOK {
		t.Fatalf("fraud status = %d", code)
	}
	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["decision"] != "list_match" || resp.Data["verdict"] != fraud.Fraudulent {
		t.Errorf("data = %v", resp.Data)
	}

	if code, _ := do(t, s, httptest.NewRequest(http.MethodGet, "/api/checks", nil)); code != http.StatusNotFound {
		t.Errorf("history without db = %d, want 404", code)
	}
}

func TestProbesAndMetrics(t *testing.T) {
	s := newTestServer(t, &spyStore{})

	for _, path := range []string{"/healthz", "/readyz"} {
		if code, _ := do(t, s, httptest.NewRequest(http.MethodGet, path, nil)); code != http.StatusOK {
			t.Errorf("%s = %d", path, code)
		}
	}

	do(t, s, form("/clickbait", "headline=hello"))
	code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if code != http.StatusOK || !strings.Contains(body, `clicksafe_checks_total{detector="clickbait",verdict="NOT_CLICKBAIT"} 1`) {
		t.Errorf("metrics = %d\n%s", code, body)
	}
}

func TestUnknownRouteRendersErrorPage(t *testing.T) {
	s := newTestServer(t, &spyStore{})
	code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if code != http.StatusNotFound {
		t.Errorf("status = %d", code)
	}
	if !strings.Contains(body, "⚠️") {
		t.Errorf("error page missing indicator:\n%s", body)
	}
}
