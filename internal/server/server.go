// Package server assembles the Fiber app: middleware, views and routes.
package server

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"

	"startpage/internal/config"
	"startpage/internal/handlers"
	"startpage/internal/middleware"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App    *fiber.App
	Cfg    *config.Config
	Logger *slog.Logger
}

// New creates a new server with middleware configured.
func New(cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	// Setup template engine
	engine := html.New(cfg.ViewsDir, ".html")
	engine.Reload(cfg.IsDev())

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: errorHandler(cfg, log),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// CORS middleware
	corsOrigins := cfg.BaseURL
	if cfg.CORSOrigins != "" {
		corsOrigins = cfg.CORSOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(corsOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Cookie encryption middleware
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey(cfg.SessionSecret),
	}))

	secure := cfg.TLSEnabled || !cfg.IsDev()
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	// Identifies the browser for suggestion staleness checks
	app.Use(middleware.ClientID(secure))

	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"status": "error",
					"error":  "Rate limit exceeded. Please try again later.",
				})
			},
		}))
	}

	// Static files
	app.Get("/static/*", static.New(cfg.StaticDir))

	return &Server{
		App:    app,
		Cfg:    cfg,
		Logger: log,
	}
}

// errorHandler answers API routes with the JSON envelope and pages with the
// error template.
func errorHandler(cfg *config.Config, log *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("server: request failed", slog.String("path", c.Path()), slog.String("error", err.Error()))
		}

		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(code).JSON(fiber.Map{
				"status": "error",
				"error":  message,
			})
		}
		return c.Status(code).Render("error", handlers.MergeBranding(fiber.Map{
			"Title":   "Error",
			"Message": message,
		}, cfg))
	}
}

// Start starts the server with the configured address and TLS settings.
func (s *Server) Start() error {
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}

	if s.Cfg.TLSEnabled {
		tlsConfig, err := buildTLSConfig(s.Cfg)
		if err != nil {
			return err
		}
		listenConfig.CertFile = s.Cfg.TLSCertFile
		listenConfig.CertKeyFile = s.Cfg.TLSKeyFile
		listenConfig.TLSConfigFunc = func(tc *tls.Config) { *tc = *tlsConfig }

		s.Logger.Info("server: listening", slog.String("addr", s.Cfg.ServerAddr), slog.Bool("tls", true), slog.Bool("mtls", s.Cfg.IsMTLSEnabled()))
		return s.App.Listen(s.Cfg.ServerAddr, listenConfig)
	}

	s.Logger.Info("server: listening", slog.String("addr", s.Cfg.ServerAddr))
	return s.App.Listen(s.Cfg.ServerAddr, listenConfig)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}

// deriveEncryptionKey derives a 32-byte encryption key from the session secret.
func deriveEncryptionKey(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// buildTLSConfig creates a TLS config, requiring client certs when a CA file
// is provided.
func buildTLSConfig(cfg *config.Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("parse CA certificate: no certificates found")
		}

		tlsConfig.ClientCAs = caCertPool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return tlsConfig, nil
}
