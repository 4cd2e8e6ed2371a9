package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"startpage/internal/config"
)

// Session keys shared with the auth handler.
const (
	SessionUserEmail     = "user_email"
	SessionUserName      = "user_name"
	SessionRedirectAfter = "redirect_after_login"
)

// AuthMiddleware guards the settings routes when a login is configured.
// Without OIDC every request passes.
type AuthMiddleware struct {
	enabled bool
	allowed map[string]bool
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	m := &AuthMiddleware{
		enabled: cfg.IsOIDCEnabled(),
		allowed: make(map[string]bool, len(cfg.OIDCAllowedEmails)),
	}
	for _, e := range cfg.OIDCAllowedEmails {
		m.allowed[strings.ToLower(e)] = true
	}
	return m
}

// Enabled returns true if requests need a logged-in user.
func (m *AuthMiddleware) Enabled() bool {
	return m.enabled
}

// IsAllowed returns true if email may use the settings. An empty allowlist
// admits everyone who can log in.
func (m *AuthMiddleware) IsAllowed(email string) bool {
	if email == "" {
		return false
	}
	return len(m.allowed) == 0 || m.allowed[strings.ToLower(email)]
}

// RequireAuth ensures the user is authenticated. API requests get 401, pages
// are redirected to /auth/login and come back afterwards.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	email, _ := sess.Get(SessionUserEmail).(string)
	if m.IsAllowed(email) {
		c.Locals("user", email)
		return c.Next()
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "login required",
		})
	}

	sess.Set(SessionRedirectAfter, c.OriginalURL())
	return c.Redirect().To("/auth/login")
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}
	if sess := session.FromContext(c); sess != nil {
		if email, _ := sess.Get(SessionUserEmail).(string); m.IsAllowed(email) {
			c.Locals("user", email)
		}
	}
	return c.Next()
}

// CurrentUser returns the authenticated email, or "" when there is none.
func CurrentUser(c fiber.Ctx) string {
	email, _ := c.Locals("user").(string)
	return email
}
