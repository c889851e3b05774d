// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostDateLayout is the display format stamped on a post at creation time.
// The stored value is a display string, e.g. "August 29, 2026", and is never
// rewritten when a post is edited.
const PostDateLayout = "January 02, 2006"

// Post represents a blog post. Title is unique across all posts.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"unique;not null" json:"title"`
	Subtitle  string         `gorm:"not null" json:"subtitle"`
	Date      string         `gorm:"not null" json:"date"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	ImageURL  string         `gorm:"not null" json:"image_url"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Comments  []Comment      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
