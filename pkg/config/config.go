// Package config loads the CLI's configuration from an optional YAML
// file, a .env file, and environment overrides. The core packages
// never read this directly; resolved values are passed in explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL is the feed-list document fetched when no source is
// configured.
const DefaultSourceURL = "https://gist.github.com/emschwartz/e6d2bf860ccc367fe37ff953ba6de66b"

// Config is the top-level configuration.
type Config struct {
	Harvest HarvestConfig `yaml:"harvest"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// HarvestConfig controls the harvesting pipeline.
type HarvestConfig struct {
	SourceURL    string `yaml:"source_url"`
	FeedListFile string `yaml:"feed_list_file"`
	// WindowHours is the trailing selection window; fractional hours
	// are allowed.
	WindowHours           float64 `yaml:"window_hours"`
	MaxFeeds              int     `yaml:"max_feeds"`
	MaxPerSource          int     `yaml:"max_per_source"`
	MaxWorkers            int     `yaml:"max_workers"`
	FeedTimeoutSeconds    int     `yaml:"feed_timeout_seconds"`
	ArticleTimeoutSeconds int     `yaml:"article_timeout_seconds"`
}

// OutputConfig controls where material groups are written.
type OutputConfig struct {
	Dir               string `yaml:"dir"`
	MaterialGroupName string `yaml:"material_group_name"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Harvest: HarvestConfig{
			SourceURL:             DefaultSourceURL,
			WindowHours:           24,
			MaxFeeds:              92,
			MaxPerSource:          2,
			MaxWorkers:            12,
			FeedTimeoutSeconds:    12,
			ArticleTimeoutSeconds: 12,
		},
		Output: OutputConfig{
			Dir: "outputs",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (optional when path is empty), then environment overrides. A .env
// file in the working directory is honored if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DAILY_NEWS_SOURCE_URL"); v != "" {
		c.Harvest.SourceURL = v
	}
	if v := os.Getenv("DAILY_NEWS_FEED_LIST_FILE"); v != "" {
		c.Harvest.FeedListFile = v
	}
	if v := os.Getenv("DAILY_NEWS_WINDOW_HOURS"); v != "" {
		if hours, err := strconv.ParseFloat(v, 64); err == nil {
			c.Harvest.WindowHours = hours
		}
	}
	if v := os.Getenv("DAILY_NEWS_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("DAILY_NEWS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Harvest.SourceURL == "" && c.Harvest.FeedListFile == "" {
		return fmt.Errorf("either harvest.source_url or harvest.feed_list_file must be set")
	}
	if c.Harvest.WindowHours <= 0 {
		return fmt.Errorf("harvest.window_hours must be positive, got %v", c.Harvest.WindowHours)
	}
	if c.Harvest.MaxWorkers <= 0 {
		return fmt.Errorf("harvest.max_workers must be positive, got %d", c.Harvest.MaxWorkers)
	}
	return nil
}
