// Package newsfeed fetches headlines from an RSS or Atom feed.
package newsfeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"clicksafe/internal/validation"
)

// DefaultLimit is how many entries one fetch returns.
const DefaultLimit = 15

// Item is one feed entry. Link is empty when the entry's link is not http(s).
type Item struct {
	Title       string
	Link        string
	Description string
	Published   time.Time
}

// Source fetches the newest feed items.
type Source struct {
	url    string
	limit  int
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewSource creates a feed source. A limit <= 0 uses DefaultLimit.
func NewSource(feedURL string, limit int, timeout time.Duration) *Source {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = "ClickSafe/1.0"
	return &Source{
		url:    feedURL,
		limit:  limit,
		parser: p,
		logger: slog.Default().With("component", "newsfeed"),
	}
}

// Fetch downloads and parses the feed and keeps the first limit entries in
// feed order. Entries without a title are dropped after the cap, so they
// still use up a slot.
func (s *Source) Fetch(ctx context.Context) ([]Item, error) {
	start := time.Now()
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.url, err)
	}
	s.logger.Debug("feed fetched", "entries", len(feed.Items), "duration", time.Since(start))

	entries := feed.Items[:min(len(feed.Items), s.limit)]
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		title := strings.TrimSpace(e.Title)
		if title == "" {
			continue
		}
		item := Item{
			Title:       title,
			Link:        validation.SafeLink(e.Link),
			Description: PlainText(e.Description),
		}
		if e.PublishedParsed != nil {
			item.Published = *e.PublishedParsed
		}
		items = append(items, item)
	}
	return items, nil
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
