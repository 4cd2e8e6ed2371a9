package main

import (
	"context"
	"fmt"
	"log/slog"

	"startpage/internal/config"
	"startpage/internal/db"
	"startpage/internal/directory"
	"startpage/internal/models"
	"startpage/internal/prefs"
	"startpage/internal/storage"
	"startpage/internal/suggest"
)

// services are shared by every command.
type services struct {
	cfg       *config.Config
	backend   storage.Backend
	database  *db.DB // only with the postgres driver
	dir       *directory.Store
	prefs     *prefs.Store
	assembler *suggest.Assembler
}

func openServices(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fileCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	backend, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageDriver, err)
	}
	s := &services{cfg: cfg, backend: backend}
	if pg, ok := backend.(*storage.Postgres); ok {
		s.database = pg.DB()
	}

	s.dir, err = directory.New(ctx, directory.NewKVPersister(backend), fileCfg.DefaultShortcuts(directory.DefaultShortcuts()), logger)
	if err != nil {
		backend.Close()
		return nil, err
	}

	defaults := prefs.Defaults()
	defaults.SearchEngine = cfg.SearchEngine
	if cfg.OpenLinksInNewTab {
		defaults.TabBehavior = models.TabNew
	}
	s.prefs, err = prefs.New(ctx, backend, prefs.Options{
		Defaults: defaults,
		Engines:  fileCfg.SearchEngines(prefs.DefaultEngines()),
		Resolver: cfg.ResolverConfig(),
	}, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}

	var source suggest.Source
	if cfg.SuggestEndpoint != "" {
		source = suggest.NewDuckDuckGo(cfg.SuggestEndpoint, cfg.SuggestTimeout)
		if cfg.SuggestCacheTTL > 0 {
			source = suggest.NewCached(source, backend, cfg.SuggestCacheTTL, logger)
		}
	}
	s.assembler = suggest.NewAssembler(s.dir, suggest.Options{
		Source: source,
		Limit:  cfg.SuggestionLimit,
		Config: s.prefs.ResolverConfig,
		Logger: logger,
	})

	logger.Info("startpage: services ready",
		slog.String("storage", cfg.StorageDriver),
		slog.Int("shortcuts", s.dir.Len()),
		slog.Bool("suggestions", source != nil))
	return s, nil
}

func (s *services) Close() error {
	return s.backend.Close()
}
