// Package server contains the HTTP handlers, guards, and route table for the
// blog application.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

//go:embed views/*.html
var viewsFS embed.FS

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Manager
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("inkwell")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions: session.NewManager(
			cfg.SessionSecret,
			time.Duration(cfg.SessionTTLHours)*time.Hour,
			redisClient,
		),
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	server.userService = service.NewUserService(userRepo, cfg.BcryptCost)
	server.postService = service.NewPostService(postRepo, server.isAdminByUserID)
	server.commentService = service.NewCommentService(commentRepo, postRepo)

	return server, nil
}

// App builds and returns the configured Fiber application.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	engine := html.NewFileSystem(http.FS(viewsFS), ".html")
	app := fiber.New(fiber.Config{
		AppName:           "Inkwell",
		Views:             engine,
		ViewsLayout:       "views/layout",
		PassLocalsToViews: true,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.app = app
	return app
}

// Listen starts serving on the configured port.
func (s *Server) Listen() error {
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Tracing
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public pages
	app.Get("/", s.Index)
	app.Get("/about", s.About)
	app.Get("/contact", s.Contact)

	// Account routes
	app.Get("/register", s.ShowRegister)
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.ShowLogin)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	// Reading and commenting require a signed-in user
	app.Get("/post/:id", s.AuthRequired(), s.ShowPost)
	app.Post("/post/:id", s.AuthRequired(), s.CreateComment)

	// Authoring is admin-only
	app.Get("/new-post", s.AuthRequired(), s.AdminRequired(), s.ShowNewPost)
	app.Post("/new-post", s.AuthRequired(), s.AdminRequired(), s.CreatePost)
	app.Get("/edit-post/:id", s.AuthRequired(), s.AdminRequired(), s.ShowEditPost)
	app.Post("/edit-post/:id", s.AuthRequired(), s.AdminRequired(), s.UpdatePost)
	app.Get("/delete/:id", s.AuthRequired(), s.AdminRequired(), s.DeletePost)
}

// currentUser resolves the session cookie to a live user row. A missing or
// invalid cookie, a revoked session, or a deleted user all come back as nil.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	token := c.Cookies(session.CookieName)
	if token == "" {
		return nil
	}

	userID, err := s.sessions.Resolve(c.Context(), token)
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// AuthRequired returns middleware that redirects anonymous visitors to the
// login page and stores the resolved user in locals for downstream handlers.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil {
			setFlash(c, "Please log in first")
			return c.Redirect("/login")
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)

		// Sync user ID into the request context for logging
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that the user is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok || !user.IsAdmin {
			return s.renderError(c, fiber.StatusForbidden, "You are not allowed to do that.")
		}
		return c.Next()
	}
}

// isAdminByUserID answers the admin question for the service layer.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database (and Redis, when configured)
// are reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "ok"

	sqlDB, err := s.db.DB()
	if err != nil {
		err = errors.New("no database handle")
	} else {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		dbStatus = "down"
		status = fiber.StatusServiceUnavailable
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "ok"
		if err := s.redis.Ping(c.Context()).Err(); err != nil {
			redisStatus = "down"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
