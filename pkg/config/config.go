package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ghnotion/pkg/mirror"
)

// DefaultInterval is the delay between sync passes when none is configured
const DefaultInterval = 5 * time.Minute

// GitHubTokenEnvVars are checked in order for the GitHub token
var GitHubTokenEnvVars = []string{"GITHUB_TOKEN", "GITHUB_KEY"}

// NotionTokenEnvVars are checked in order for the Notion integration token
var NotionTokenEnvVars = []string{"NOTION_TOKEN", "NOTION_KEY"}

// Config represents the ghnotion configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Notion NotionConfig `yaml:"notion"`
	Sync   SyncConfig   `yaml:"sync,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// GitHubConfig identifies the source repository
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

// NotionConfig identifies the destination databases
type NotionConfig struct {
	Token  string      `yaml:"token,omitempty"`
	Issues TableConfig `yaml:"issues"`
	Pulls  TableConfig `yaml:"pulls"`
}

// TableConfig is one destination database and optional field name overrides
type TableConfig struct {
	DatabaseID string        `yaml:"database_id"`
	Fields     mirror.Schema `yaml:"fields,omitempty"`
}

// SyncConfig controls the sync loop
type SyncConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Load reads the config file, loads a .env file if one exists and applies
// environment overrides. An empty path uses the default config location.
func Load(path, dotenvPath string) (*Config, error) {
	if err := LoadDotEnv(dotenvPath); err != nil {
		return nil, err
	}

	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides configuration values with environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	lookup := func(keys ...string) string {
		for _, key := range keys {
			if v := strings.TrimSpace(getenv(key)); v != "" {
				return v
			}
		}
		return ""
	}

	set := func(dst *string, keys ...string) {
		if v := lookup(keys...); v != "" {
			*dst = v
		}
	}

	set(&c.GitHub.Token, GitHubTokenEnvVars...)
	set(&c.GitHub.Owner, "GITHUB_REPO_OWNER")
	set(&c.GitHub.Repo, "GITHUB_REPO_NAME")
	set(&c.Notion.Token, NotionTokenEnvVars...)
	set(&c.Notion.Issues.DatabaseID, "ISSUE_DATABASE_ID")
	set(&c.Notion.Pulls.DatabaseID, "PULL_DATABASE_ID")
	set(&c.Sync.Interval, "SYNC_INTERVAL")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")
	set(&c.Log.File, "LOG_FILE")
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold API tokens
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".ghnotion", "config.yaml"), nil
}

// SyncInterval returns the configured delay between passes
func (c *Config) SyncInterval() (time.Duration, error) {
	if c.Sync.Interval == "" {
		return DefaultInterval, nil
	}

	d, err := time.ParseDuration(c.Sync.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid sync interval %q: %w", c.Sync.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("sync interval must be positive, got %s", d)
	}
	return d, nil
}

// Table returns the destination table for kind with default field names filled in
func (c *Config) Table(kind mirror.Kind) mirror.Table {
	tc := c.Notion.Issues
	if kind == mirror.KindPulls {
		tc = c.Notion.Pulls
	}

	return mirror.Table{
		Kind:       kind,
		DatabaseID: tc.DatabaseID,
		Schema:     tc.Fields.Merge(mirror.DefaultSchema(kind)),
	}
}

// Validate validates the configuration for syncing every kind
func (c *Config) Validate() error {
	return c.ValidateKinds(mirror.Kinds())
}

// ValidateKinds validates the configuration needed to sync the given kinds and reports every problem found
func (c *Config) ValidateKinds(kinds []mirror.Kind) error {
	var errs ValidationErrors

	if c.GitHub.Owner == "" {
		errs.Add("github.owner", "", "repository owner is required (GITHUB_REPO_OWNER)")
	}
	if c.GitHub.Repo == "" {
		errs.Add("github.repo", "", "repository name is required (GITHUB_REPO_NAME)")
	}
	if c.Notion.Token == "" {
		errs.Add("notion.token", "", "Notion integration token is required (NOTION_TOKEN)")
	}
	for _, kind := range kinds {
		if c.Table(kind).DatabaseID != "" {
			continue
		}
		if kind == mirror.KindPulls {
			errs.Add("notion.pulls.database_id", "", "pull requests database id is required (PULL_DATABASE_ID)")
		} else {
			errs.Add("notion.issues.database_id", "", "issues database id is required (ISSUE_DATABASE_ID)")
		}
	}

	if _, err := c.SyncInterval(); err != nil {
		errs.Add("sync.interval", c.Sync.Interval, err.Error())
	}

	if c.Log.Level != "" && !contains(LogLevels, strings.ToLower(c.Log.Level)) {
		errs.Add("log.level", c.Log.Level, fmt.Sprintf("must be one of %s", strings.Join(LogLevels, ", ")))
	}
	if c.Log.Format != "" && !contains(LogFormats, strings.ToLower(c.Log.Format)) {
		errs.Add("log.format", c.Log.Format, fmt.Sprintf("must be one of %s", strings.Join(LogFormats, ", ")))
	}

	for _, kind := range kinds {
		schema := c.Table(kind).Schema
		seen := make(map[string]bool)
		for _, field := range []string{schema.StateField, schema.KeyField, schema.TitleField, schema.LabelsField} {
			if seen[field] {
				errs.Add(fmt.Sprintf("notion.%s.fields", kind), field, "field names must be distinct")
			}
			seen[field] = true
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// LogLevels lists the accepted log levels
var LogLevels = []string{"debug", "info", "warn", "error"}

// LogFormats lists the accepted log formats
var LogFormats = []string{"auto", "text", "json"}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
