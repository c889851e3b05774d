package service

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// PostService handles post browsing and admin-only authoring.
type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
	now      func() time.Time
}

// CreatePostInput carries the authoring form for a new post.
type CreatePostInput struct {
	AuthorID uint
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

// UpdatePostInput carries the authoring form for an edited post.
type UpdatePostInput struct {
	ActorID  uint
	PostID   uint
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

// DeletePostInput identifies the post to remove and who asked.
type DeletePostInput struct {
	ActorID uint
	PostID  uint
}

// NewPostService returns a PostService. isAdmin is consulted before any
// mutation; the store is never touched for a non-admin actor.
func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		isAdmin:  isAdmin,
		now:      time.Now,
	}
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// Get returns one post with its author and comments.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Create authors a new post. The author is forced to the acting admin and the
// date is stamped as a display string at creation time.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.requireAdmin(ctx, in.AuthorID); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostForm(in.Title, in.Subtitle, in.Body, in.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     s.now().Format(models.PostDateLayout),
		Body:     in.Body,
		ImageURL: in.ImageURL,
		AuthorID: in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// Update overwrites the editable fields of an existing post. The publication
// date is never rewritten; the author is reassigned to the acting admin.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidatePostForm(in.Title, in.Subtitle, in.Body, in.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.Body = in.Body
	post.ImageURL = in.ImageURL
	post.AuthorID = in.ActorID
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// Delete removes a post and, with it, its comments.
func (s *PostService) Delete(ctx context.Context, in DeletePostInput) error {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return err
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return err
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

func (s *PostService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewForbiddenError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}
