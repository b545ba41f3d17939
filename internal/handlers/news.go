package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"clicksafe/internal/checks"
	"clicksafe/internal/config"
)

// NewsRefresh is how often the page re-polls the card partial.
const NewsRefresh = 30 * time.Second

// NewsHandler serves the live fake news page.
type NewsHandler struct {
	svc *checks.Service
	cfg *config.Config
}

// NewNewsHandler creates a new news handler.
func NewNewsHandler(svc *checks.Service, cfg *config.Config) *NewsHandler {
	return &NewsHandler{svc: svc, cfg: cfg}
}

// Page renders the full page with freshly classified headlines.
func (h *NewsHandler) Page(c fiber.Ctx) error {
	data := h.load(c)
	data["Title"] = "Fake News Detector"
	data["RefreshMillis"] = NewsRefresh.Milliseconds()
	return c.Render("fakenews", MergeBranding(data, h.cfg))
}

// Cards renders only the card list, without the layout.
func (h *NewsHandler) Cards(c fiber.Ctx) error {
	return c.Render("partials/news_cards", h.load(c), "")
}

// load never fails the page: a feed error becomes a message above no cards.
func (h *NewsHandler) load(c fiber.Ctx) fiber.Map {
	results, err := h.svc.Feed(c.Context())
	if err != nil {
		return fiber.Map{"Error": "Could not load headlines: " + err.Error()}
	}
	return fiber.Map{"News": results}
}
