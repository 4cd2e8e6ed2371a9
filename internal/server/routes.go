package server

import (
	"context"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"startpage/internal/directory"
	"startpage/internal/handlers"
	"startpage/internal/handlers/api"
	"startpage/internal/middleware"
	"startpage/internal/prefs"
	"startpage/internal/suggest"
)

// Deps are the services the routes are built on. Feedback, Notifier and
// LinkHealth are optional and must be left nil (not a typed nil) when the
// feature is off.
type Deps struct {
	Directory  *directory.Store
	Prefs      *prefs.Store
	Assembler  *suggest.Assembler
	Storage    handlers.Pinger
	Feedback   api.FeedbackStore
	Notifier   api.FeedbackSender
	LinkHealth api.HealthSource
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	pageHandler, err := handlers.NewPageHandler(deps.Directory, deps.Prefs, s.Cfg, s.Logger)
	if err != nil {
		return err
	}
	redirectHandler := handlers.NewRedirectHandler(deps.Directory, deps.Prefs, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.Storage)

	resolveAPI := api.NewResolveHandler(deps.Directory, deps.Prefs)
	suggestAPI := api.NewSuggestHandler(deps.Assembler)
	shortcutAPI := api.NewShortcutHandler(deps.Directory, deps.Prefs)
	preferencesAPI := api.NewPreferencesHandler(deps.Prefs)
	feedbackAPI := api.NewFeedbackHandler(deps.Feedback, deps.Notifier, s.Cfg.FeedbackFormURL, s.Logger)
	linkHealthAPI := api.NewLinkHealthHandler(deps.LinkHealth)

	// Settings login, only when OIDC is configured
	if authMiddleware.Enabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, authMiddleware.IsAllowed, s.Logger)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		s.Logger.Info("server: no login configured, settings are open to everyone")
	}

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Pages and browser entry points
	s.App.Get("/", authMiddleware.OptionalAuth, pageHandler.Index)
	s.App.Get("/help", pageHandler.Help)
	s.App.Get("/opensearch.xml", pageHandler.OpenSearch)
	s.App.Get("/opensearch/suggest", suggestAPI.OpenSearch)
	s.App.Get("/go", redirectHandler.Go)
	s.App.Get("/search", redirectHandler.Go)
	s.App.Get("/feedback", redirectHandler.Feedback)

	// Read API
	s.App.Get("/api/resolve", resolveAPI.Resolve)
	s.App.Get("/api/suggest", suggestAPI.Suggest)
	s.App.Get("/api/shortcuts", shortcutAPI.List)
	s.App.Get("/api/shortcuts/check", shortcutAPI.Check)
	s.App.Get("/api/shortcuts/:key", shortcutAPI.Get)
	s.App.Get("/api/preferences", preferencesAPI.Get)
	s.App.Get("/api/health/links", linkHealthAPI.List)
	s.App.Post("/api/feedback", feedbackAPI.Submit)

	// Settings API
	s.App.Post("/api/shortcuts", authMiddleware.RequireAuth, shortcutAPI.Create)
	s.App.Delete("/api/shortcuts", authMiddleware.RequireAuth, shortcutAPI.Clear)
	s.App.Put("/api/shortcuts/:key", authMiddleware.RequireAuth, shortcutAPI.Update)
	s.App.Delete("/api/shortcuts/:key", authMiddleware.RequireAuth, shortcutAPI.Delete)
	s.App.Post("/api/reset", authMiddleware.RequireAuth, shortcutAPI.Reset)
	s.App.Put("/api/preferences", authMiddleware.RequireAuth, preferencesAPI.Update)
	s.App.Delete("/api/preferences", authMiddleware.RequireAuth, preferencesAPI.Reset)

	return nil
}
