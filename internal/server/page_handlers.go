package server

import "github.com/gofiber/fiber/v2"

// About handles GET /about.
func (s *Server) About(c *fiber.Ctx) error {
	return c.Render("views/about", s.viewData(c, fiber.Map{}))
}

// Contact handles GET /contact.
func (s *Server) Contact(c *fiber.Ctx) error {
	return c.Render("views/contact", s.viewData(c, fiber.Map{}))
}
