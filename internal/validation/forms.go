// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets minimum requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	// Check maximum length (prevent unreasonable inputs; bcrypt caps at 72 bytes)
	if len(password) > 72 {
		return fmt.Errorf("password must not exceed 72 characters")
	}

	return nil
}

// ValidateName checks a display name
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}

	if len(name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}

	return nil
}

// ValidatePostForm checks the authoring form fields for a new or edited post.
func ValidatePostForm(title, subtitle, body, imageURL string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > 250 {
		return fmt.Errorf("title must not exceed 250 characters")
	}
	if strings.TrimSpace(subtitle) == "" {
		return fmt.Errorf("subtitle is required")
	}
	if len(subtitle) > 250 {
		return fmt.Errorf("subtitle must not exceed 250 characters")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("body is required")
	}
	if strings.TrimSpace(imageURL) == "" {
		return fmt.Errorf("image URL is required")
	}
	if len(imageURL) > 250 {
		return fmt.Errorf("image URL must not exceed 250 characters")
	}
	return nil
}

// ValidateCommentForm checks the comment form body.
func ValidateCommentForm(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment is required")
	}
	if len(body) > 10000 {
		return fmt.Errorf("comment too long (max 10000 characters)")
	}
	return nil
}
