// Package handlers serves the HTML pages, the browser search entry points
// and the settings login.
package handlers

import (
	"github.com/gofiber/fiber/v3"

	"startpage/internal/config"
)

// renderError renders the error page with the given status.
func renderError(c fiber.Ctx, cfg *config.Config, status int, title, message string) error {
	return c.Status(status).Render("error", MergeBranding(fiber.Map{
		"Title":   title,
		"Message": message,
	}, cfg))
}
