package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"clicksafe/internal/checks"
	"clicksafe/internal/config"
	"clicksafe/internal/detect/clickbait"
	"clicksafe/internal/validation"
)

// ClickbaitHandler serves the headline form.
type ClickbaitHandler struct {
	svc *checks.Service
	cfg *config.Config
}

// NewClickbaitHandler creates a new clickbait handler.
func NewClickbaitHandler(svc *checks.Service, cfg *config.Config) *ClickbaitHandler {
	return &ClickbaitHandler{svc: svc, cfg: cfg}
}

// Show renders the empty form.
func (h *ClickbaitHandler) Show(c fiber.Ctx) error {
	return c.Render("clickbait", MergeBranding(fiber.Map{"Title": "Clickbait Detector"}, h.cfg))
}

// Check classifies the submitted headline. Blank input renders the form
// again with no verdict.
func (h *ClickbaitHandler) Check(c fiber.Ctx) error {
	headline := validation.NormalizeInput(c.FormValue("headline"))
	data := MergeBranding(fiber.Map{"Title": "Clickbait Detector", "Headline": headline}, h.cfg)

	if headline == "" {
		return c.Render("clickbait", data)
	}
	if ok, msg := validation.ValidateInput("Headline", headline); !ok {
		data["Error"] = msg
		return c.Status(fiber.StatusBadRequest).Render("clickbait", data)
	}

	res, err := h.svc.Headline(headline)
	if errors.Is(err, clickbait.ErrEmptyHeadline) {
		return c.Render("clickbait", data)
	}
	if err != nil {
		return disabled(err)
	}

	data["Verdict"] = res.Verdict
	data["Message"] = res.Message()
	return c.Render("clickbait", data)
}
