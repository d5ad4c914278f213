// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"applytrack/internal/auth"
	"applytrack/internal/cache"
	"applytrack/internal/config"
	"applytrack/internal/database"
	"applytrack/internal/middleware"
	"applytrack/internal/models"
	"applytrack/internal/repository"
	"applytrack/internal/service"
	"applytrack/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// legacyAuthHeader is the pre-Bearer header some older clients still send.
const legacyAuthHeader = "X-Auth-Token"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenService
	userRepo       repository.UserRepository
	postingRepo    repository.PostingRepository
	resumeRepo     repository.ResumeRepository
	eventRepo      repository.EventRepository
	userService    *service.UserService
	postingService *service.PostingService
	resumeService  *service.ResumeService
	eventService   *service.EventService
	tailorService  *service.TailorService
	done           chan struct{}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	blobs, err := storage.NewBlobStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("blob store init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, blobs)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, blobs *storage.BlobStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postingRepo := repository.NewPostingRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	eventRepo := repository.NewEventRepository(db)

	prom := fiberprometheus.New("applytrack-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		tokens:         auth.NewTokenService(cfg.JWTSecret, auth.DefaultTTL),
		userRepo:       userRepo,
		postingRepo:    postingRepo,
		resumeRepo:     resumeRepo,
		eventRepo:      eventRepo,
	}
	server.userService = service.NewUserService(userRepo)
	server.postingService = service.NewPostingService(postingRepo)
	server.resumeService = service.NewResumeService(resumeRepo, blobs, cfg.MaxUploadMB)
	server.eventService = service.NewEventService(eventRepo)
	server.tailorService = service.NewTailorService(postingRepo, resumeRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// OpenTelemetry tracing
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on errors.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + legacyAuthHeader,
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Static blob serving (content-type sniffed, resume-row gated)
	app.Get("/uploads/:file", s.ServeUpload)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protectedAuth := protected.Group("/auth")
	protectedAuth.Get("/me", s.GetMe)
	protectedAuth.Post("/logout", s.Logout)

	// Posting routes; specific routes before the generic /:id routes
	postings := protected.Group("/postings")
	postings.Get("/", s.GetPostings)
	postings.Post("/", s.CreatePosting)
	postings.Get("/export", s.ExportPostings)
	postings.Get("/:id", s.GetPosting)
	postings.Put("/:id", s.UpdatePosting)
	postings.Delete("/:id", s.DeletePosting)

	// Resume routes
	resumes := protected.Group("/resumes")
	resumes.Get("/", s.GetResumes)
	resumes.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload_resume"), s.UploadResume)
	resumes.Get("/:id/content", s.GetResumeContent)
	resumes.Delete("/:id", s.DeleteResume)

	// Calendar event routes
	events := protected.Group("/events")
	events.Get("/", s.GetEvents)
	events.Post("/", s.CreateEvent)
	events.Get("/:id", s.GetEvent)
	events.Put("/:id", s.UpdateEvent)
	events.Delete("/:id", s.DeleteEvent)

	// Tailor heuristic
	protected.Post("/tailor", middleware.RateLimit(
		s.redis, 10, time.Minute, "tailor"), s.TailorResume)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; absent means degraded caching, not down.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. The caller identity is
// resolved once per request from, in precedence order: the Authorization
// Bearer header, the legacy X-Auth-Token header, and the token query
// parameter. All three carry the same signed token.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""

		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Get(legacyAuthHeader)
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		identity, err := s.tokens.Validate(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Check JTI for revocation
		if identity.JTI != "" && cache.IsTokenBlacklisted(c.Context(), identity.JTI) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		// Store identity in context
		c.Locals("userID", identity.UserID)
		c.Locals("tokenJTI", identity.JTI)
		c.Locals("tokenExp", identity.ExpiresAt)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, identity.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// appErrorHandler keeps the status of router-generated errors (404 for an
// unknown route, 405, 413 when the body limit trips) and hides everything
// else behind a generic internal error.
func appErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			return models.RespondWithError(c, fiberErr.Code,
				models.NewPayloadTooLargeError("Request body too large"))
		}
		return models.RespondWithError(c, fiberErr.Code, fiberErr)
	}
	log.Printf("Error: %v", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

func newFiberApp(cfg *config.Config) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "ApplyTrack API",
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
		ErrorHandler: appErrorHandler,
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := newFiberApp(s.config)
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.done = make(chan struct{})
	go s.reminderGaugeLoop()

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// reminderGaugeLoop keeps the reminders-due gauge fresh while the server runs.
func (s *Server) reminderGaugeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.postingService.RefreshReminderGauge(ctx); err != nil {
			log.Printf("reminder gauge refresh failed: %v", err)
		}
	}

	refresh()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-s.done:
			return
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.done != nil {
		close(s.done)
		s.done = nil
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
