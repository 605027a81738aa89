package app

import (
	"context"

	"go.uber.org/zap"

	"ozymandias/internal/config"
	"ozymandias/internal/domain"
	"ozymandias/internal/ontology"
	"ozymandias/internal/parser"
	knowledgesvc "ozymandias/internal/services/knowledge"
	workspacesvc "ozymandias/internal/services/workspace"
	"ozymandias/internal/store"
	"ozymandias/internal/transform"
	"ozymandias/internal/watch"
)

// Wire bundles the store and services for the CLI.
type Wire struct {
	Settings  *config.Config
	Store     domain.DocumentStore
	Knowledge *knowledgesvc.Service
	Logger    *zap.Logger
}

// NewWorkspace builds the workspace service. It needs no open store, so it
// works before the home directory exists.
func NewWorkspace(cfg Config) (*workspacesvc.Service, error) {
	settings, err := cfg.LoadSettings()
	if err != nil {
		return nil, err
	}
	return workspacesvc.New(cfg.Home, cfg.configPath(), settings, cfg.logger()), nil
}

// NewWire constructs the dependency graph from cfg. The home directory must
// already be initialised. Callers must Close the returned Wire.
func NewWire(ctx context.Context, cfg Config) (*Wire, error) {
	settings, err := cfg.LoadSettings()
	if err != nil {
		return nil, err
	}
	if err := requireHome(cfg.Home); err != nil {
		return nil, err
	}
	logger := cfg.logger()

	st, err := store.Open(ctx, settings.Storage.Backend, settings.StoragePath(cfg.Home))
	if err != nil {
		return nil, err
	}

	// Pipeline stages
	registry := parser.NewRegistry()
	normalizer := transform.NewNormalizer(settings.Keywords.Limit, settings.Keywords.MinLength)
	taxonomy := ontology.New(settings.Taxonomy, settings.Related.MinScore)

	knowledge := knowledgesvc.New(st, registry, normalizer, taxonomy, logger.Named("knowledge"), knowledgesvc.Options{
		Workers:      settings.Ingest.Workers,
		MaxBytes:     settings.Ingest.MaxBytes,
		Extensions:   settings.Ingest.Extensions,
		RelatedLimit: settings.Related.Limit,
	})

	logger.Debug("wired application",
		zap.String("home", cfg.Home),
		zap.String("backend", settings.Storage.Backend),
	)
	return &Wire{
		Settings:  settings,
		Store:     st,
		Knowledge: knowledge,
		Logger:    logger,
	}, nil
}

// Watcher returns a directory watcher that feeds the knowledge service.
func (w *Wire) Watcher(dir string) *watch.Watcher {
	return watch.New(dir, w.Knowledge, watch.Options{
		Accept: w.Knowledge.Accepts,
		Logger: w.Logger.Named("watch"),
	})
}

// Close releases the document store.
func (w *Wire) Close() error {
	return w.Store.Close()
}
