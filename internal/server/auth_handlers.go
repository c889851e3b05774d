package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

type registerForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// ShowRegister handles GET /register
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	return c.Render("views/register", s.viewData(c, fiber.Map{
		"Name":  "",
		"Email": "",
	}))
}

// Register handles POST /register. On success the new account is signed in
// immediately; a duplicate email redirects to the login page instead.
func (s *Server) Register(c *fiber.Ctx) error {
	var form registerForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form submission.")
	}

	user, err := s.userService.Register(c.Context(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case models.HasCode(err, models.CodeConflict):
			setFlash(c, "That email is already registered. Log in instead.")
			return c.Redirect("/login")
		case models.HasCode(err, models.CodeValidation):
			return c.Render("views/register", s.viewData(c, fiber.Map{
				"Error": err.Error(),
				"Name":  form.Name,
				"Email": form.Email,
			}))
		default:
			return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
		}
	}

	token, err := s.sessions.Issue(c.Context(), user.ID)
	if err != nil {
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}
	s.setSessionCookie(c, token)

	return c.Redirect("/")
}

// ShowLogin handles GET /login
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return c.Render("views/login", s.viewData(c, fiber.Map{
		"Email": "",
	}))
}

// Login handles POST /login. Unknown email and wrong password render the
// form again with their own messages.
func (s *Server) Login(c *fiber.Ctx) error {
	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form submission.")
	}

	user, err := s.userService.Authenticate(c.Context(), service.AuthenticateInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			return c.Render("views/login", s.viewData(c, fiber.Map{
				"Error": err.Error(),
				"Email": form.Email,
			}))
		}
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}

	token, err := s.sessions.Issue(c.Context(), user.ID)
	if err != nil {
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}
	s.setSessionCookie(c, token)

	return c.Redirect("/")
}

// Logout handles GET /logout. The server-side binding is revoked and the
// cookie cleared regardless of whether the session was still valid.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(session.CookieName); token != "" {
		s.sessions.Revoke(c.Context(), token)
	}
	s.clearSessionCookie(c)
	return c.Redirect("/")
}
