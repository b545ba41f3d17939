package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"clicksafe/internal/checks"
	"clicksafe/internal/config"
	"clicksafe/internal/detect/fraud"
	"clicksafe/internal/model"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	cfg *config.Config
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(cfg *config.Config) *HomeHandler {
	return &HomeHandler{cfg: cfg}
}

// Index renders the list of detectors.
func (h *HomeHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{"Title": "Home"}, h.cfg))
}

// FraudMessage is the user-facing text for a fraud decision. ok is false
// when the decision should be shown as an error.
func FraudMessage(d fraud.Decision) (msg string, ok bool) {
	switch d.Kind {
	case fraud.ListMatch:
		return "🚨 FRAUDULENT (Listed in known fraud apps)", true
	case fraud.LookupFailed:
		if errors.Is(d.Err, fraud.ErrNoMatch) {
			return "App not found on Play Store.", false
		}
		return "Something went wrong: " + errString(d.Err), false
	}
	switch d.Verdict {
	case fraud.Fraudulent:
		return "🚨 FRAUDULENT", true
	case fraud.NotFraudulent:
		return "✔️ NOT FRAUDULENT", true
	case model.Unknown:
		return "❔ Unable to classify this app.", true
	}
	return d.Verdict, true
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// disabled renders a 503 through the error handler.
func disabled(err error) error {
	if errors.Is(err, checks.ErrDisabled) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "This detector is not available right now.")
	}
	return err
}
