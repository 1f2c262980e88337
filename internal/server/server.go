// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hottakes/internal/blob"
	"hottakes/internal/bootstrap"
	"hottakes/internal/config"
	"hottakes/internal/featureflags"
	"hottakes/internal/identity"
	"hottakes/internal/middleware"
	"hottakes/internal/models"
	"hottakes/internal/news"
	"hottakes/internal/observability"
	"hottakes/internal/repository"
	"hottakes/internal/service"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	provider       identity.Provider
	broker         *identity.Broker
	featureFlags   *featureflags.Manager
	guard          *service.SubmissionGuard
	postRepo       repository.PostRepository
	voteRepo       repository.VoteRepository
	profileRepo    repository.ProfileRepository
	postService    *service.PostService
	voteService    *service.VoteService
	profileService *service.ProfileService
	feedService    *service.FeedService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemo: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}

	blobStore, err := blob.NewMinioStore(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store unavailable: %w", err)
	}

	newsClient := news.NewClient(cfg.NewsFeedURL, cfg.NewsItemLimit,
		time.Duration(cfg.NewsTimeoutSecs)*time.Second)

	return NewServerWithDeps(cfg, db, redisClient, blobStore, newsClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and the
// external collaborators itself.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	blobStore blob.Store,
	newsFeed news.Fetcher,
) (*Server, error) {
	postRepo := repository.NewPostRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	prom := observability.InitMetrics("hottakes-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		provider:       identity.NewJWTProvider(cfg.JWTSecret),
		broker:         identity.NewBroker(),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		guard:          service.NewSubmissionGuard(service.DefaultMinSubmitInterval),
		postRepo:       postRepo,
		voteRepo:       voteRepo,
		profileRepo:    profileRepo,
	}

	server.profileService = service.NewProfileService(profileRepo, postRepo, blobStore, cfg.PictureMaxSizeBytes())
	server.postService = service.NewPostService(postRepo, server.profileService.GetOrCreate)
	server.voteService = service.NewVoteService(voteRepo, postRepo)
	server.feedService = service.NewFeedService(postRepo, server.voteService,
		server.profileService.GetOrCreate, newsFeed, server.featureFlags)

	// Session changes are broadcast so attached components can reload
	// identity-scoped state; the broker replays the current session to late
	// subscribers.
	server.broker.OnIdentityChange(func(session *identity.Session) {
		if session == nil {
			observability.Logger.Debug("identity cleared")
			return
		}
		observability.Logger.Debug("identity changed", "user_id", session.UserID)
	})

	return server, nil
}

// Broker exposes the identity change broker for components that need to
// follow session state.
func (s *Server) Broker() *identity.Broker {
	return s.broker
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "HotTakes Metrics Dashboard",
	}))

	// The feed and single takes are readable signed out; identity only adds
	// viewer vote state and edit affordances.
	api.Get("/feed", middleware.OptionalAuth(s.provider, s.broker), s.GetFeed)
	api.Get("/posts/:id", middleware.OptionalAuth(s.provider, s.broker), s.GetPost)
	api.Get("/users/:id/hotness", s.GetHotness)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired(s.provider, s.broker))

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id routes
	posts.Post("/:id/vote", s.ToggleVote)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	profile := protected.Group("/profile")
	profile.Get("/", s.GetMyProfile)
	profile.Get("/posts", s.GetMyPosts)
	profile.Put("/name", s.RenameProfile)
	profile.Put("/picture", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "set_picture"), s.SetProfilePicture)
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
		// The service degrades without redis but stays up; readiness only
		// reports it.
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

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "HotTakes API",
		BodyLimit: int(s.config.PictureMaxSizeBytes()) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
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
