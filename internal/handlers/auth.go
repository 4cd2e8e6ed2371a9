package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"startpage/internal/config"
	"startpage/internal/middleware"
)

const sessionOAuthState = "oauth_state"

// AuthHandler handles OIDC authentication flows.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	allowed      func(email string) bool
	cfg          *config.Config
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
// allowed decides which logged-in emails may use the settings.
func NewAuthHandler(ctx context.Context, cfg *config.Config, allowed func(string) bool, logger *slog.Logger) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AuthHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
		allowed:      allowed,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		return err
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set(sessionOAuthState, state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	// Verify state
	savedState, _ := sess.Get(sessionOAuthState).(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete(sessionOAuthState)

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put the email in the userinfo response
	if userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token)); err == nil {
		var extra map[string]any
		if err := userInfo.Claims(&extra); err == nil {
			for k, v := range extra {
				claims[k] = v
			}
		}
	} else {
		h.logger.Warn("auth: userinfo failed", slog.String("error", err.Error()))
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	if !h.allowed(email) {
		h.logger.Warn("auth: login refused", slog.String("email", email))
		sess.Destroy()
		return renderError(c, h.cfg, fiber.StatusForbidden, "Forbidden", "This account may not change the start page settings.")
	}

	sess.Set(middleware.SessionUserEmail, email)
	sess.Set(middleware.SessionUserName, name)
	h.logger.Info("auth: logged in", slog.String("email", email))

	redirectURL := "/"
	if saved, _ := sess.Get(middleware.SessionRedirectAfter).(string); saved != "" {
		redirectURL = safeRedirect(saved)
		sess.Delete(middleware.SessionRedirectAfter)
	}

	return c.Redirect().To(redirectURL)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
	return c.Redirect().To("/")
}

// safeRedirect only allows paths on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
