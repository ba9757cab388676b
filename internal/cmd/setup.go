package cmd

import (
	"fmt"
	"log/slog"

	"ghnotion/pkg/config"
	"ghnotion/pkg/github"
	"ghnotion/pkg/mirror"
	"ghnotion/pkg/notion"
)

// Constructors for the external collaborators; tests replace them with fakes.
var (
	newItemSource = func(cfg *config.Config) mirror.ItemSource {
		return github.NewClient(cfg.GitHub.Token).Source(cfg.GitHub.Owner, cfg.GitHub.Repo)
	}
	newRecordStore = func(cfg *config.Config) mirror.RecordStore {
		return notion.NewClient(cfg.Notion.Token, nil)
	}
)

// loadConfig reads the config file, .env and environment, then applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	return cfg, nil
}

// parseKinds turns command arguments into kinds; no arguments selects every kind
func parseKinds(args []string) ([]mirror.Kind, error) {
	if len(args) == 0 {
		return mirror.Kinds(), nil
	}

	seen := make(map[mirror.Kind]bool)
	var kinds []mirror.Kind
	for _, arg := range args {
		kind, err := mirror.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// buildJobs creates one sync job per kind sharing the same source and store clients
func buildJobs(cfg *config.Config, kinds []mirror.Kind, logger *slog.Logger) []*mirror.Job {
	source := newItemSource(cfg)
	store := newRecordStore(cfg)

	jobs := make([]*mirror.Job, 0, len(kinds))
	for _, kind := range kinds {
		jobs = append(jobs, mirror.NewJob(cfg.Table(kind), source, store, logger))
	}
	return jobs
}
