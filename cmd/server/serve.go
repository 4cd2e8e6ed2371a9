package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"startpage/internal/config"
	"startpage/internal/directory"
	"startpage/internal/email"
	"startpage/internal/jobs"
	"startpage/internal/metrics"
	"startpage/internal/server"
	"startpage/internal/storage"
)

const purgeInterval = time.Hour

func serve(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	cfg := config.Load()

	svc, err := openServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	notifier := email.NewNotifier(cfg, logger)

	deps := server.Deps{
		Directory: svc.dir,
		Prefs:     svc.prefs,
		Assembler: svc.assembler,
		Storage:   svc.backend,
	}
	if svc.database != nil {
		deps.Feedback = svc.database
	}
	if notifier.IsEnabled() {
		deps.Notifier = notifier
	}

	var checker *jobs.LinkChecker
	if cfg.LinkCheckInterval > 0 {
		opts := jobs.Options{
			Interval: cfg.LinkCheckInterval,
			MaxAge:   cfg.LinkCheckMaxAge,
			Logger:   logger,
		}
		if svc.database != nil {
			opts.Store = svc.database
		}
		if notifier.IsEnabled() {
			opts.Notifier = notifier
		}
		checker = jobs.NewLinkChecker(svc.dir, opts)
		deps.LinkHealth = checker
		metrics.Init(svc.dir, checker)
	} else {
		metrics.Init(svc.dir, nil)
	}

	srv := server.New(cfg, logger)
	if err := srv.RegisterRoutes(ctx, deps); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if checker != nil {
		g.Go(func() error {
			checker.Start(gCtx)
			return nil
		})
	}

	// Pick up shortcut edits made to the data directory by hand
	if file, ok := svc.backend.(*storage.File); ok {
		g.Go(func() error {
			return file.Watch(gCtx, logger, func(key string) {
				if key != directory.StorageKey {
					return
				}
				if err := svc.dir.Reload(gCtx); err != nil {
					logger.Error("startpage: reload failed", slog.String("error", err.Error()))
				}
			})
		})
	}

	if svc.database != nil {
		g.Go(func() error {
			purgeExpired(gCtx, svc, logger)
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("startpage: received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("startpage: context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("startpage: shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}

	logger.Info("startpage: stopped")
	return nil
}

// errShutdown cancels the group once the server has been asked to stop, so
// the background jobs exit too.
var errShutdown = errors.New("shutdown")

// purgeExpired drops expired cache rows from the kv table.
func purgeExpired(ctx context.Context, svc *services, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.database.PurgeExpiredValues(ctx)
			if err != nil {
				logger.Error("startpage: purge failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Debug("startpage: purged expired values", slog.Int64("rows", n))
			}
		}
	}
}
