package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clicksafe/internal/checks"
	"clicksafe/internal/handlers"
	"clicksafe/internal/handlers/api"
)

// Deps are the collaborators the routes need. History and DB may be nil.
type Deps struct {
	Service *checks.Service
	History api.HistoryStore
	DB      handlers.Pinger
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	homeHandler := handlers.NewHomeHandler(s.Cfg)
	clickbaitHandler := handlers.NewClickbaitHandler(deps.Service, s.Cfg)
	fraudHandler := handlers.NewFraudHandler(deps.Service, s.Cfg)
	newsHandler := handlers.NewNewsHandler(deps.Service, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.DB)
	apiHandler := api.NewCheckHandler(deps.Service, deps.History, handlers.FraudMessage)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	if s.Registry != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))
	}

	// Frontend routes
	s.App.Get("/", homeHandler.Index)
	s.App.Get("/clickbait", clickbaitHandler.Show)
	s.App.Post("/clickbait", clickbaitHandler.Check)
	s.App.Get("/fraud", fraudHandler.Show)
	s.App.Post("/fraud", fraudHandler.Check)
	s.App.Get("/fakenews", newsHandler.Page)
	s.App.Get("/fakenews/news", newsHandler.Cards)

	// JSON API
	s.App.Post("/api/clickbait", apiHandler.Clickbait)
	s.App.Post("/api/fraud", apiHandler.Fraud)
	s.App.Get("/api/news", apiHandler.News)
	s.App.Get("/api/checks", apiHandler.History)
	s.App.Get("/api/checks/:id", apiHandler.Check)
}
