package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"clicksafe/internal/checks"
	"clicksafe/internal/config"
	"clicksafe/internal/validation"
)

// FraudHandler serves the app lookup form.
type FraudHandler struct {
	svc *checks.Service
	cfg *config.Config
}

// NewFraudHandler creates a new fraud handler.
func NewFraudHandler(svc *checks.Service, cfg *config.Config) *FraudHandler {
	return &FraudHandler{svc: svc, cfg: cfg}
}

// Show renders the empty form.
func (h *FraudHandler) Show(c fiber.Ctx) error {
	return c.Render("fraud", MergeBranding(fiber.Map{"Title": "Fraud App Detector"}, h.cfg))
}

// Check evaluates the submitted app name. Lookup failures still render
// 200 with an error message.
func (h *FraudHandler) Check(c fiber.Ctx) error {
	name := strings.ToLower(validation.NormalizeInput(c.FormValue("appname")))
	data := MergeBranding(fiber.Map{"Title": "Fraud App Detector", "AppName": name}, h.cfg)

	if name == "" {
		return c.Render("fraud", data)
	}
	if ok, msg := validation.ValidateInput("App name", name); !ok {
		data["Error"] = msg
		return c.Status(fiber.StatusBadRequest).Render("fraud", data)
	}

	d, err := h.svc.App(c.Context(), name)
	if err != nil {
		return disabled(err)
	}

	msg, ok := FraudMessage(d)
	if !ok {
		data["Error"] = msg
		return c.Render("fraud", data)
	}
	if d.Title != d.Query {
		data["MatchTitle"] = d.Title
	}
	data["Verdict"] = d.Verdict
	data["Message"] = msg
	return c.Render("fraud", data)
}
