// Package seed populates the database with sample content for development
// and demos.
package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

const editorEmail = "editor@inkwell.example"

// Seeder creates sample users, posts, and comments.
type Seeder struct {
	db   *gorm.DB
	fake *gofakeit.Faker
}

// NewSeeder returns a Seeder backed by db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:   db,
		fake: gofakeit.New(0),
	}
}

// ClearAll wipes all seeded content, including soft-deleted rows.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run creates an editor account, numReaders reader accounts, numPosts posts
// by the editor, and a handful of comments per post. The editor is created
// first so it carries the admin role.
func (s *Seeder) Run(numReaders, numPosts int) error {
	editor, err := s.ensureEditor()
	if err != nil {
		return err
	}

	readers, err := s.seedReaders(numReaders)
	if err != nil {
		return err
	}

	posts, err := s.seedPosts(editor, numPosts)
	if err != nil {
		return err
	}

	if err := s.seedComments(posts, readers); err != nil {
		return err
	}

	log.Printf("Seeded %d readers, %d posts (editor: %s, password: %s)",
		len(readers), len(posts), editorEmail, DefaultPassword)
	return nil
}

// ensureEditor returns the admin account, creating it only when no account
// holds the role yet. The single-admin index admits one privileged row.
func (s *Seeder) ensureEditor() (*models.User, error) {
	var editor models.User
	err := s.db.Where("is_admin = ?", true).First(&editor).Error
	if err == nil {
		return &editor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up editor: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash editor password: %w", err)
	}

	editor = models.User{
		Name:     "Inkwell Editor",
		Email:    editorEmail,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := s.db.Create(&editor).Error; err != nil {
		return nil, fmt.Errorf("create editor: %w", err)
	}
	return &editor, nil
}

func (s *Seeder) seedReaders(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash reader password: %w", err)
	}

	readers := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := s.fake.Name()
		reader := &models.User{
			Name:     name,
			Email:    fmt.Sprintf("%s%d@example.com", slugify(name), i),
			Password: string(hashed),
		}
		if err := s.db.Create(reader).Error; err != nil {
			return nil, fmt.Errorf("create reader %d: %w", i, err)
		}
		readers = append(readers, reader)
	}
	return readers, nil
}

func (s *Seeder) seedPosts(author *models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		published := time.Now().AddDate(0, 0, -rand.Intn(365))
		post := &models.Post{
			Title:    fmt.Sprintf("%s #%d", s.fake.BookTitle(), i+1),
			Subtitle: s.fake.Sentence(6),
			Date:     published.Format(models.PostDateLayout),
			Body:     s.fake.Paragraph(3, 5, 12, "\n\n"),
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%d/900/400", i+1),
			AuthorID: author.ID,
		}
		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("create post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(posts []*models.Post, readers []*models.User) error {
	if len(readers) == 0 {
		return nil
	}
	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			reader := readers[rand.Intn(len(readers))]
			comment := &models.Comment{
				Body:   s.fake.Sentence(10),
				UserID: reader.ID,
				PostID: post.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("create comment on post %d: %w", post.ID, err)
			}
		}
	}
	return nil
}

func slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "."))
}
