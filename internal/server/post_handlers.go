package server

import (
	"strconv"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postForm struct {
	Title    string `form:"title"`
	Subtitle string `form:"subtitle"`
	Body     string `form:"body"`
	ImageURL string `form:"img_url"`
}

type commentForm struct {
	Body string `form:"body"`
}

// Index handles GET /, listing all posts newest first.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.Context())
	if err != nil {
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}
	return c.Render("views/index", s.viewData(c, fiber.Map{
		"Posts": posts,
	}))
}

// ShowPost handles GET /post/:id.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
	}

	post, err := s.postService.Get(c.Context(), postID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
		}
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}

	return c.Render("views/post", s.viewData(c, fiber.Map{
		"Post": post,
	}))
}

// CreateComment handles POST /post/:id. On success the post page is rendered
// again in place with the new comment included and the input cleared.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
	}

	user := s.currentUser(c)
	if user == nil {
		setFlash(c, "Please log in first")
		return c.Redirect("/login")
	}

	var form commentForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form submission.")
	}

	var commentError string
	if _, err := s.commentService.AddToPost(c.Context(), service.AddCommentInput{
		UserID: user.ID,
		PostID: postID,
		Body:   form.Body,
	}); err != nil {
		switch {
		case models.HasCode(err, models.CodeNotFound):
			return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
		case models.HasCode(err, models.CodeValidation):
			commentError = err.Error()
		default:
			return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
		}
	}

	post, err := s.postService.Get(c.Context(), postID)
	if err != nil {
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}

	return c.Render("views/post", s.viewData(c, fiber.Map{
		"Post":         post,
		"CommentError": commentError,
	}))
}

// ShowNewPost handles GET /new-post.
func (s *Server) ShowNewPost(c *fiber.Ctx) error {
	return c.Render("views/make-post", s.viewData(c, fiber.Map{
		"Heading": "New Post",
	}))
}

// CreatePost handles POST /new-post.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
	}

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form submission.")
	}

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		AuthorID: user.ID,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImageURL: form.ImageURL,
	})
	if err != nil {
		switch {
		case models.HasCode(err, models.CodeValidation), models.HasCode(err, models.CodeConflict):
			return c.Render("views/make-post", s.viewData(c, fiber.Map{
				"Heading": "New Post",
				"Error":   err.Error(),
				"Form":    form,
			}))
		case models.HasCode(err, models.CodeForbidden):
			return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
		default:
			return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
		}
	}

	return c.Redirect("/post/" + strconv.FormatUint(uint64(post.ID), 10))
}

// ShowEditPost handles GET /edit-post/:id, prefilling the authoring form.
func (s *Server) ShowEditPost(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
	}

	post, err := s.postService.Get(c.Context(), postID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
		}
		return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
	}

	return c.Render("views/make-post", s.viewData(c, fiber.Map{
		"Heading": "Edit Post",
		"Post":    post,
		"Form": postForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Body:     post.Body,
			ImageURL: post.ImageURL,
		},
	}))
}

// UpdatePost handles POST /edit-post/:id. The publication date survives edits.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
	}

	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
	}

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, "Invalid form submission.")
	}

	post, err := s.postService.Update(c.Context(), service.UpdatePostInput{
		ActorID:  user.ID,
		PostID:   postID,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImageURL: form.ImageURL,
	})
	if err != nil {
		switch {
		case models.HasCode(err, models.CodeNotFound):
			return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
		case models.HasCode(err, models.CodeValidation), models.HasCode(err, models.CodeConflict):
			return c.Render("views/make-post", s.viewData(c, fiber.Map{
				"Heading": "Edit Post",
				"Error":   err.Error(),
				"Form":    form,
			}))
		case models.HasCode(err, models.CodeForbidden):
			return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
		default:
			return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
		}
	}

	return c.Redirect("/post/" + strconv.FormatUint(uint64(post.ID), 10))
}

// DeletePost handles GET /delete/:id. Comments go with the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
	}

	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
	}

	if err := s.postService.Delete(c.Context(), service.DeletePostInput{
		ActorID: user.ID,
		PostID:  postID,
	}); err != nil {
		switch {
		case models.HasCode(err, models.CodeNotFound):
			return s.renderError(c, fiber.StatusNotFound, "That post does not exist.")
		case models.HasCode(err, models.CodeForbidden):
			return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
		default:
			return s.renderError(c, fiber.StatusInternalServerError, "Something went wrong.")
		}
	}

	return c.Redirect("/")
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
