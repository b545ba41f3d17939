package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json

	// Optional backing services; empty disables the feature.
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string

	// CORS
	CORSOrigins string // Comma-separated allowed origins for the JSON API

	// Rate limiting of form posts and API calls, per client per minute.
	RateLimitMax int

	// Store lookup service
	StoreURL    string
	StoreRPS    float64
	StoreBurst  int
	ReviewCount int

	// Fake news feed
	FeedURL         string
	FeedLimit       int
	FeedWorkers     int
	FakeNewsBackend string // "remote" or "local"
	InferenceURL    string
	InferenceToken  string

	// Model artifacts
	ClickbaitVectorizer string
	ClickbaitModel      string
	FraudModel          string
	FakeNewsVectorizer  string
	FakeNewsScaler      string
	FakeNewsModel       string

	// Deny list: "file" reads DenyListFile, "db" reads the deny_list table.
	DenyListSource string
	DenyListFile   string

	// Check log retention; zero keeps everything.
	CheckRetention time.Duration

	// Remote label map, raw label -> verdict. Set from YAML.
	InferenceLabels map[string]string

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "ClickSafe"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "clicksafe.checks"),
		CORSOrigins:  getEnv("CORS_ORIGINS", ""),
		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 60),

		StoreURL:    getEnv("STORE_URL", "http://localhost:8081"),
		StoreRPS:    getEnvFloat("STORE_RPS", 5),
		StoreBurst:  getEnvInt("STORE_BURST", 10),
		ReviewCount: getEnvInt("REVIEW_COUNT", 100),

		FeedURL:         getEnv("FEED_URL", "https://news.google.com/rss?hl=en-GB&gl=GB&ceid=GB:en"),
		FeedLimit:       getEnvInt("FEED_LIMIT", 15),
		FeedWorkers:     getEnvInt("FEED_WORKERS", 4),
		FakeNewsBackend: getEnv("FAKENEWS_BACKEND", "remote"),
		InferenceURL:    getEnv("INFERENCE_URL", "https://api-inference.huggingface.co/models/mrm8488/bert-tiny-finetuned-fake-news-detection"),
		InferenceToken:  getEnv("INFERENCE_TOKEN", ""),

		ClickbaitVectorizer: getEnv("CLICKBAIT_VECTORIZER", "artifacts/clickbait_vectorizer.json"),
		ClickbaitModel:      getEnv("CLICKBAIT_MODEL", "artifacts/clickbait_model.json"),
		FraudModel:          getEnv("FRAUD_MODEL", "artifacts/fraud_model.json"),
		FakeNewsVectorizer:  getEnv("FAKENEWS_VECTORIZER", "artifacts/fakenews_vectorizer.json"),
		FakeNewsScaler:      getEnv("FAKENEWS_SCALER", "artifacts/fakenews_scaler.json"),
		FakeNewsModel:       getEnv("FAKENEWS_MODEL", "artifacts/fakenews_model.json"),

		DenyListSource: getEnv("DENYLIST_SOURCE", "file"),
		DenyListFile:   getEnv("DENYLIST_FILE", "data/fraud_apps.csv"),
		CheckRetention: getEnvDuration("CHECK_RETENTION", 0),

		SiteTitle:   getEnv("SITE_TITLE", "ClickSafe"),
		SiteTagline: getEnv("SITE_TAGLINE", "Spot clickbait, fake news and fraudulent apps"),
		SiteFooter:  getEnv("SITE_FOOTER", "ClickSafe - stay safe online"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UseDatabaseDenyList reports whether the deny list comes from Postgres.
func (c *Config) UseDatabaseDenyList() bool {
	return strings.EqualFold(c.DenyListSource, "db")
}
