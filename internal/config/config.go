package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TrackerConfig holds the URL templates of one external issue tracker.
// Templates may contain the literal placeholders :project_id,
// :issues_tracker_id and (for IssuesURL) :id.
type TrackerConfig struct {
	Title       string `yaml:"title"`
	ProjectURL  string `yaml:"project_url"`
	IssuesURL   string `yaml:"issues_url"`
	NewIssueURL string `yaml:"new_issue_url"`
}

// GravatarConfig controls avatar lookup by email.
type GravatarConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"` // %{hash} and %{size} are substituted
	Size       int    `yaml:"size"`
	DefaultURL string `yaml:"default_url"`
}

// Config holds application configuration.
type Config struct {
	Port         int    `yaml:"port"`
	BaseURL      string `yaml:"base_url"`
	DatabasePath string `yaml:"database_path"`

	Gravatar GravatarConfig `yaml:"gravatar"`

	// External issue trackers by name, e.g. "redmine" or "jira".
	// Empty means every project uses the built-in tracker.
	IssuesTracker map[string]TrackerConfig `yaml:"issues_tracker"`
}

const (
	defaultPort        = 8080
	defaultConfigFile  = "config.yml"
	defaultGravatarURL = "https://www.gravatar.com/avatar/%{hash}?s=%{size}&d=identicon"
)

// Load loads configuration from the YAML file named by CONFIG_FILE
// (config.yml when unset, skipped when missing) and then applies
// environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	path := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = p
		}
	}
	cfg.BaseURL = getEnvOrDefault("BASE_URL", cfg.BaseURL)
	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", cfg.DatabasePath)

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:         defaultPort,
		DatabasePath: "issues.db",
		Gravatar: GravatarConfig{
			Enabled: true,
			URL:     defaultGravatarURL,
			Size:    40,
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
