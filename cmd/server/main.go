package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"clicksafe/internal/checks"
	"clicksafe/internal/config"
	"clicksafe/internal/db"
	"clicksafe/internal/denylist"
	"clicksafe/internal/detect/clickbait"
	"clicksafe/internal/detect/fakenews"
	"clicksafe/internal/detect/fraud"
	"clicksafe/internal/events"
	"clicksafe/internal/inference"
	"clicksafe/internal/jobs"
	"clicksafe/internal/logger"
	"clicksafe/internal/metrics"
	"clicksafe/internal/model"
	"clicksafe/internal/newsfeed"
	"clicksafe/internal/playstore"
	"clicksafe/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	ycfg, err := config.LoadYAMLConfig()
	if err != nil {
		slog.Error("failed to load config file", "error", err)
		os.Exit(1)
	}
	cfg.Apply(ycfg)

	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithComponent("main")

	// Optional check log
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		log.Info("migrations completed successfully")
	}

	var seed []string
	if ycfg != nil {
		seed = ycfg.DenyList.Seed
	}
	deny := loadDenyList(ctx, cfg, database, seed)
	log.Info("deny list loaded", "source", cfg.DenyListSource, "names", deny.Len())

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if database != nil {
		reg.MustRegister(metrics.NewOutcomeCollector(database))
	}

	// Check recording
	var sinks []events.Sink
	if database != nil {
		sinks = append(sinks, events.SinkFunc(database.RecordCheck))
	}
	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, publisher)
		log.Info("publishing checks to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	recorder := events.NewRecorder(5*time.Second, sinks...)

	svc := &checks.Service{
		Clickbait: loadClickbait(cfg, log),
		Fraud:     loadFraud(cfg, deny, log),
		News:      loadFakeNews(cfg, log),
		Metrics:   m,
		Recorder:  recorder,
	}

	if database != nil && cfg.CheckRetention > 0 {
		go jobs.NewRetention(database, time.Hour, cfg.CheckRetention).Start(ctx)
	}

	srv := server.New(cfg, reg)
	deps := server.Deps{Service: svc}
	if database != nil {
		deps.History = database
		deps.DB = database
	}
	srv.RegisterRoutes(deps)

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := srv.Shutdown(); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("starting server", "addr", cfg.ServerAddr, "env", cfg.Env)
	if err := srv.Start(); err != nil {
		log.Error("server stopped", "error", err)
	}

	recorder.Wait()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close kafka writer", "error", err)
		}
	}
}

// loadDenyList never fails: a missing source leaves only the seed names.
func loadDenyList(ctx context.Context, cfg *config.Config, database *db.DB, seed []string) *denylist.List {
	if cfg.UseDatabaseDenyList() && database != nil {
		if len(seed) > 0 {
			if _, err := database.AddDenyListNames(ctx, "config", seed); err != nil {
				slog.Warn("failed to seed deny list", "error", err)
			}
		}
		names, err := database.GetDenyListNames(ctx)
		if err == nil {
			return denylist.New(append(names, seed...))
		}
		slog.Warn("failed to read deny list table", "error", err)
		return denylist.New(seed)
	}

	list, err := denylist.LoadFile(cfg.DenyListFile)
	if err != nil {
		slog.Warn("deny list unavailable", "file", cfg.DenyListFile, "error", err)
		return denylist.New(seed)
	}
	if len(seed) == 0 {
		return list
	}
	return denylist.New(append(list.Names(), seed...))
}

// Detectors that cannot be loaded stay nil and their pages answer 503.

func loadClickbait(cfg *config.Config, log *slog.Logger) checks.HeadlineClassifier {
	d, err := clickbait.Load(cfg.ClickbaitVectorizer, cfg.ClickbaitModel)
	if err != nil {
		log.Warn("clickbait detector disabled", "error", err)
		return nil
	}
	return d
}

func loadFraud(cfg *config.Config, deny *denylist.List, log *slog.Logger) checks.AppEvaluator {
	forest, err := model.LoadForest(cfg.FraudModel)
	if err != nil {
		log.Warn("fraud detector disabled", "error", err)
		return nil
	}
	store := playstore.NewClient(cfg.StoreURL, playstore.WithRateLimit(cfg.StoreRPS, cfg.StoreBurst))
	d, err := fraud.New(fraud.Config{
		DenyList:    deny,
		Store:       store,
		Classifier:  forest,
		ReviewCount: cfg.ReviewCount,
	})
	if err != nil {
		log.Warn("fraud detector disabled", "error", err)
		return nil
	}
	return d
}

func loadFakeNews(cfg *config.Config, log *slog.Logger) checks.FeedChecker {
	var backend fakenews.Backend
	switch cfg.FakeNewsBackend {
	case "local":
		local, err := fakenews.LoadLocal(cfg.FakeNewsVectorizer, cfg.FakeNewsScaler, cfg.FakeNewsModel)
		if err != nil {
			log.Warn("fake news detector disabled", "error", err)
			return nil
		}
		backend = local
	case "remote", "":
		client := inference.NewClient(cfg.InferenceURL, cfg.InferenceToken, 20*time.Second)
		backend = fakenews.NewRemote(client, cfg.InferenceLabels)
	default:
		log.Warn("fake news detector disabled", "error", errors.New("unknown backend "+cfg.FakeNewsBackend))
		return nil
	}

	feed := newsfeed.NewSource(cfg.FeedURL, cfg.FeedLimit, 15*time.Second)
	d, err := fakenews.New(feed, backend, cfg.FeedWorkers)
	if err != nil {
		log.Warn("fake news detector disabled", "error", err)
		return nil
	}
	log.Info("fake news detector ready", "backend", backend.Name(), "feed", cfg.FeedURL)
	return d
}
