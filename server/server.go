// Package server contains the HTTP wiring and handlers for the blog-site API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/auth"
	"quill/config"
	"quill/database"
	"quill/middleware"
	"quill/models"
	"quill/repository"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	db         *mongo.Database
	redis      *redis.Client
	tokens     *auth.TokenService
	userRepo   repository.UserRepository
	blogRepo   repository.BlogRepository
	healthRepo repository.HealthRepository
	started    time.Time
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	}

	return &Server{
		config:     cfg,
		logger:     middleware.NewLogger(cfg.LogLevel),
		db:         db,
		redis:      redisClient,
		tokens:     auth.NewTokenService(cfg.JWTSecret),
		userRepo:   repository.NewUserRepository(db),
		blogRepo:   repository.NewBlogRepository(db),
		healthRepo: repository.NewHealthRepository(db),
		started:    time.Now(),
	}, nil
}

// App builds the Fiber application with all middleware and routes attached.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Blog Site API",
		ErrorHandler: s.errorHandler,
	})

	s.setupMiddleware(app)
	s.setupRoutes(app)

	// Unknown paths get the same envelope as every other error.
	app.Use(s.notFound)

	return app
}

func (s *Server) notFound(c *fiber.Ctx) error {
	return models.RespondError(c, fiber.StatusNotFound,
		fmt.Sprintf("Path %s not found", c.OriginalURL()))
}

func (s *Server) setupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Structured logging
	app.Use(middleware.StructuredLogger(s.logger))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondError(c, fiber.StatusTooManyRequests,
				"Too many requests, please try again later.")
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	prometheus := fiberprometheus.New("quill")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
}

func (s *Server) setupRoutes(app *fiber.App) {
	// Liveness, no store touch.
	app.Get("/status", s.Status)
	app.Head("/status", s.Status)

	app.Get("/health", s.HealthCheck)

	site := app.Group("/blog-site")

	users := site.Group("/users")
	users.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	users.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Get("/:username", s.GetUserProfile)

	blogs := site.Group("/blogs")
	blogs.Get("/", s.GetBlogs)
	blogs.Post("/", s.CreateBlog)
	blogs.Get("/:id", s.GetBlog)
	blogs.Put("/:id", s.UpdateBlog)
	blogs.Delete("/:id", s.DeleteBlog)
}

// Status handles GET/HEAD /status liveness checks.
func (s *Server) Status(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// HealthCheck handles GET /health by upserting the sentinel record to prove
// store read/write connectivity. A store failure flows to the error handler.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	if err := s.healthRepo.Touch(c.Context()); err != nil {
		return models.NewInternalError(err)
	}

	return c.JSON(models.HealthStatus{
		Message:    "OK",
		Uptime:     time.Since(s.started).Seconds(),
		DatabaseUp: true,
		Timestamp:  time.Now().UnixMilli(),
	})
}

// errorHandler is the single centralized translator: it logs the failure and
// emits the uniform envelope with the failure's status or 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch e := err.(type) {
	case *models.AppError:
		status = e.Status
		message = e.Message
	case *fiber.Error:
		status = e.Code
		message = e.Message
	}

	s.logger.Error("request error",
		slog.Int("status", status),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)

	return models.RespondError(c, status, message)
}

// AuthRequired returns the bearer-token authentication middleware. It parses
// the Authorization header, verifies the token and resolves the claimed user,
// storing it in c.Locals("user").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondError(c, fiber.StatusUnauthorized, "Authorization required")
		}

		claims, err := s.tokens.Parse(parts[1])
		if err != nil {
			return models.RespondError(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			return models.RespondError(c, fiber.StatusUnauthorized, "Invalid token claims")
		}

		user, err := s.userRepo.GetByID(c.Context(), id)
		if err != nil {
			return models.NewInternalError(err)
		}
		if user == nil {
			return models.RespondError(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server starting", slog.String("port", s.config.Port))
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown releases the server's external connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	if s.db != nil {
		if err := database.Disconnect(ctx, s.db); err != nil {
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
