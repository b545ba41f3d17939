package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Hierarchical settings that are awkward as env vars live here.
type YAMLConfig struct {
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Feed      FeedConfig      `yaml:"feed"`
	Inference InferenceConfig `yaml:"inference"`
	Store     StoreConfig     `yaml:"store"`
	DenyList  DenyListConfig  `yaml:"deny_list"`
}

// ArtifactsConfig lists model artifact paths.
type ArtifactsConfig struct {
	ClickbaitVectorizer string `yaml:"clickbait_vectorizer"`
	ClickbaitModel      string `yaml:"clickbait_model"`
	FraudModel          string `yaml:"fraud_model"`
	FakeNewsVectorizer  string `yaml:"fakenews_vectorizer"`
	FakeNewsScaler      string `yaml:"fakenews_scaler"`
	FakeNewsModel       string `yaml:"fakenews_model"`
}

// FeedConfig configures the fake news page.
type FeedConfig struct {
	URL     string `yaml:"url"`
	Limit   int    `yaml:"limit"`
	Workers int    `yaml:"workers"`
	Backend string `yaml:"backend"` // remote or local
}

// InferenceConfig configures the remote classifier.
type InferenceConfig struct {
	URL      string            `yaml:"url"`
	LabelMap map[string]string `yaml:"label_map"` // raw label -> verdict
}

// StoreConfig configures the store lookup client.
type StoreConfig struct {
	URL         string        `yaml:"url"`
	RPS         float64       `yaml:"rps"`
	Burst       int           `yaml:"burst"`
	ReviewCount int           `yaml:"review_count"`
	Retention   time.Duration `yaml:"check_retention"`
}

// DenyListConfig selects the deny list source.
type DenyListConfig struct {
	Source string   `yaml:"source"` // file or db
	File   string   `yaml:"file"`
	Seed   []string `yaml:"seed"` // extra names, added to whichever source is used
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Apply overlays YAML settings onto c. Environment variables win: a YAML
// value is only used when its env var is unset.
func (c *Config) Apply(y *YAMLConfig) {
	if y == nil {
		return
	}
	overlay(&c.ClickbaitVectorizer, "CLICKBAIT_VECTORIZER", y.Artifacts.ClickbaitVectorizer)
	overlay(&c.ClickbaitModel, "CLICKBAIT_MODEL", y.Artifacts.ClickbaitModel)
	overlay(&c.FraudModel, "FRAUD_MODEL", y.Artifacts.FraudModel)
	overlay(&c.FakeNewsVectorizer, "FAKENEWS_VECTORIZER", y.Artifacts.FakeNewsVectorizer)
	overlay(&c.FakeNewsScaler, "FAKENEWS_SCALER", y.Artifacts.FakeNewsScaler)
	overlay(&c.FakeNewsModel, "FAKENEWS_MODEL", y.Artifacts.FakeNewsModel)

	overlay(&c.FeedURL, "FEED_URL", y.Feed.URL)
	overlay(&c.FakeNewsBackend, "FAKENEWS_BACKEND", y.Feed.Backend)
	overlayNum(&c.FeedLimit, "FEED_LIMIT", y.Feed.Limit)
	overlayNum(&c.FeedWorkers, "FEED_WORKERS", y.Feed.Workers)

	overlay(&c.InferenceURL, "INFERENCE_URL", y.Inference.URL)
	if len(y.Inference.LabelMap) > 0 {
		c.InferenceLabels = y.Inference.LabelMap
	}

	overlay(&c.StoreURL, "STORE_URL", y.Store.URL)
	overlayNum(&c.StoreRPS, "STORE_RPS", y.Store.RPS)
	overlayNum(&c.StoreBurst, "STORE_BURST", y.Store.Burst)
	overlayNum(&c.ReviewCount, "REVIEW_COUNT", y.Store.ReviewCount)
	overlayNum(&c.CheckRetention, "CHECK_RETENTION", y.Store.Retention)

	overlay(&c.DenyListSource, "DENYLIST_SOURCE", y.DenyList.Source)
	overlay(&c.DenyListFile, "DENYLIST_FILE", y.DenyList.File)
}

func overlay(dst *string, env, value string) {
	if value != "" && os.Getenv(env) == "" {
		*dst = value
	}
}

func overlayNum[T int | float64 | time.Duration](dst *T, env string, value T) {
	if value > 0 && os.Getenv(env) == "" {
		*dst = value
	}
}
