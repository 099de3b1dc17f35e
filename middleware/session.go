package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"audiodash/internal/controller"
)

const (
	// SessionCookie carries the browser session id.
	SessionCookie = "audiodash_session"
	// SessionLocal is the Locals key holding the session id string.
	SessionLocal = "session_id"
	sessionKey   = "session"
)

// Sessions attaches the caller's UI session, creating one on first visit.
func Sessions(store *controller.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, created := store.GetOrCreate(c.Cookies(SessionCookie))
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    s.ID.String(),
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Expires:  time.Now().Add(24 * time.Hour),
			})
		}
		c.Locals(sessionKey, s)
		c.Locals(SessionLocal, s.ID.String())
		return c.Next()
	}
}

// SessionFrom returns the session attached by Sessions.
func SessionFrom(c *fiber.Ctx) (*controller.Session, bool) {
	s, ok := c.Locals(sessionKey).(*controller.Session)
	return s, ok
}
