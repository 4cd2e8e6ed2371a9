package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ClientCookie names the cookie that identifies a browser for the
// suggestion tracker.
const ClientCookie = "startpage_client"

const clientLocal = "client_id"

// ClientID assigns every browser a stable random id.
func ClientID(secure bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Cookies(ClientCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				Secure:   secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(clientLocal, id)
		return c.Next()
	}
}

// Client returns the id set by ClientID.
func Client(c fiber.Ctx) string {
	id, _ := c.Locals(clientLocal).(string)
	return id
}
