// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// UserService handles registration and credential checks.
type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthenticateInput carries the login form fields.
type AuthenticateInput struct {
	Email    string
	Password string
}

// NewUserService returns a UserService hashing passwords at the given bcrypt cost.
func NewUserService(userRepo repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// Register creates a new account with a hashed password. Email uniqueness is
// enforced by the database constraint; a duplicate comes back as a conflict
// error rather than being pre-checked. The first account ever created is
// granted the admin role by the repository.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies login credentials. The two failure modes stay
// distinguishable: an unknown email and a wrong password carry different
// messages, matching the original application's behavior.
func (s *UserService) Authenticate(ctx context.Context, in AuthenticateInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("That email is not registered")
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, models.NewUnauthorizedError("Incorrect password")
	}

	return user, nil
}

// GetByID loads a user row, absent users come back as a not-found error.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
