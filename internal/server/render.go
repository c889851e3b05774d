package server

import (
	"net/url"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "inkwell_flash"

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   300,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// takeFlash reads and clears the pending flash message, if any.
func takeFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}

// setSessionCookie binds the browser to a freshly issued session token.
func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.sessions.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie removes the session binding from the browser.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// viewData assembles the template data common to every page: the signed-in
// user (if any) and a pending flash message. Extra pairs are merged in.
func (s *Server) viewData(c *fiber.Ctx, extra fiber.Map) fiber.Map {
	var user *models.User
	if u, ok := c.Locals("user").(*models.User); ok {
		user = u
	} else {
		user = s.currentUser(c)
	}

	data := fiber.Map{
		"User":  user,
		"Flash": takeFlash(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// renderError renders the shared error page with the given status.
func (s *Server) renderError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).Render("views/error", s.viewData(c, fiber.Map{
		"Status":  status,
		"Message": message,
	}))
}
