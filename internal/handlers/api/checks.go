package api

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"clicksafe/internal/checks"
	"clicksafe/internal/db"
	"clicksafe/internal/detect/clickbait"
	"clicksafe/internal/detect/fraud"
	"clicksafe/internal/models"
	"clicksafe/internal/validation"
)

// HistoryStore reads the check log.
type HistoryStore interface {
	ListChecks(ctx context.Context, filter models.CheckFilter) ([]models.Check, error)
	GetCheck(ctx context.Context, id uuid.UUID) (*models.Check, error)
}

// MessageFunc renders a fraud decision for people.
type MessageFunc func(fraud.Decision) (string, bool)

// CheckHandler exposes the detectors as JSON.
type CheckHandler struct {
	svc     *checks.Service
	history HistoryStore
	message MessageFunc
}

// NewCheckHandler creates the JSON handler. history may be nil.
func NewCheckHandler(svc *checks.Service, history HistoryStore, message MessageFunc) *CheckHandler {
	return &CheckHandler{svc: svc, history: history, message: message}
}

type headlineRequest struct {
	Headline string `json:"headline" form:"headline"`
}

type appRequest struct {
	AppName string `json:"appname" form:"appname"`
}

// Clickbait handles POST /api/clickbait.
func (h *CheckHandler) Clickbait(c fiber.Ctx) error {
	var req headlineRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateInput("headline", req.Headline); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	res, err := h.svc.Headline(req.Headline)
	switch {
	case errors.Is(err, clickbait.ErrEmptyHeadline):
		return jsonError(c, fiber.StatusBadRequest, "headline is required")
	case errors.Is(err, checks.ErrDisabled):
		return jsonError(c, fiber.StatusServiceUnavailable, err.Error())
	case err != nil:
		return jsonError(c, fiber.StatusInternalServerError, "classification failed")
	}

	return jsonSuccess(c, fiber.Map{
		"headline": res.Headline,
		"verdict":  res.Verdict,
		"score":    res.Score,
		"message":  res.Message(),
	})
}

// Fraud handles POST /api/fraud. Lookup failures are reported in the body
// with status 200, like the HTML form.
func (h *CheckHandler) Fraud(c fiber.Ctx) error {
	var req appRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateInput("appname", req.AppName); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	d, err := h.svc.App(c.Context(), strings.ToLower(validation.NormalizeInput(req.AppName)))
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, err.Error())
	}

	msg, ok := h.message(d)
	body := fiber.Map{
		"query":    d.Query,
		"decision": d.Kind.String(),
		"verdict":  d.Verdict,
		"score":    d.Score,
		"message":  msg,
	}
	if d.Title != "" {
		body["title"] = d.Title
	}
	if d.Kind == fraud.Classified {
		body["features"] = d.Vector.Map()
	}
	if !ok {
		body["error"] = msg
	}
	return jsonSuccess(c, body)
}

// News handles GET /api/news.
func (h *CheckHandler) News(c fiber.Ctx) error {
	results, err := h.svc.Feed(c.Context())
	if errors.Is(err, checks.ErrDisabled) {
		return jsonError(c, fiber.StatusServiceUnavailable, err.Error())
	}
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "could not load headlines")
	}
	return jsonSuccess(c, results)
}

// History handles GET /api/checks?detector=&verdict=&since=&limit=.
func (h *CheckHandler) History(c fiber.Ctx) error {
	if h.history == nil {
		return jsonError(c, fiber.StatusNotFound, "check history is not enabled")
	}

	filter := models.CheckFilter{
		Detector: c.Query("detector"),
		Verdict:  strings.ToUpper(c.Query("verdict")),
	}
	if s := c.Query("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "since must be RFC3339")
		}
		filter.Since = since
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n == 0 || n > 500 {
			return jsonError(c, fiber.StatusBadRequest, "limit must be between 1 and 500")
		}
		filter.Limit = n
	}

	list, err := h.history.ListChecks(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	if list == nil {
		list = []models.Check{}
	}
	return jsonSuccess(c, list)
}

// Check handles GET /api/checks/:id.
func (h *CheckHandler) Check(c fiber.Ctx) error {
	if h.history == nil {
		return jsonError(c, fiber.StatusNotFound, "check history is not enabled")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid check id")
	}

	check, err := h.history.GetCheck(c.Context(), id)
	if errors.Is(err, db.ErrCheckNotFound) {
		return jsonError(c, fiber.StatusNotFound, "check not found")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load check")
	}
	return jsonSuccess(c, check)
}
