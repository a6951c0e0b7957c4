// Package server contains the HTTP handlers for the store's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"queentouch/internal/cache"
	"queentouch/internal/config"
	"queentouch/internal/database"
	"queentouch/internal/middleware"
	"queentouch/internal/models"
	"queentouch/internal/moderation"
	"queentouch/internal/repository"
	"queentouch/internal/service"

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
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
	courseRepo  repository.CourseRepository
	orderRepo   repository.OrderRepository

	gate moderation.Gate

	userService     *service.UserService
	commentService  *service.CommentService
	catalogService  *service.CatalogService
	checkoutService *service.CheckoutService
}

// buildGate selects the moderation backend from configuration.
func buildGate(cfg *config.Config) moderation.Gate {
	if cfg.ModerationMode == "remote" {
		return moderation.NewRemoteGate(cfg.ModerationURL, cfg.ModerationTimeout)
	}
	return moderation.NewKeywordGate()
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("queentouch-api"),
		userRepo:       repository.NewUserRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		productRepo:    repository.NewProductRepository(db),
		courseRepo:     repository.NewCourseRepository(db),
		orderRepo:      repository.NewOrderRepository(db),
		gate:           buildGate(cfg),
	}

	server.userService = service.NewUserService(server.userRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.gate)
	server.catalogService = service.NewCatalogService(server.productRepo, server.courseRepo)
	server.checkoutService = service.NewCheckoutService(server.productRepo, server.orderRepo)

	return server, nil
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
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
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
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Queen Touch API Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Catalog routes: public, with optional identity for viewer pricing
	products := api.Group("/products", middleware.AuthOptional)
	products.Get("/", s.GetProducts)
	products.Get("/:id", s.GetProduct)

	courses := api.Group("/courses", middleware.AuthOptional)
	courses.Get("/", s.GetCourses)

	// Membership tiers are public; subscribing requires auth
	api.Get("/membership/tiers", s.GetMembershipTiers)
	api.Post("/membership/subscribe", middleware.AuthRequired, s.Subscribe)

	// Comment routes. Reads are public; thread route must be registered
	// before the generic /:targetId route.
	comments := api.Group("/comments")
	comments.Get("/:targetId/thread", middleware.AuthOptional, s.GetCommentThread)
	comments.Get("/:targetId", middleware.AuthOptional, s.GetComments)
	comments.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	comments.Post("/:id/like", middleware.AuthRequired, s.LikeComment)
	comments.Delete("/:id", middleware.AuthRequired, s.DeleteComment)

	// Checkout: quotes work for guests, orders require an account
	api.Post("/checkout/quote", middleware.AuthOptional, s.QuoteCart)
	api.Post("/checkout/orders", middleware.AuthRequired, s.PlaceOrder)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)

	orders := protected.Group("/orders")
	orders.Get("/", s.GetMyOrders)
	orders.Get("/:reference", s.GetOrder)

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminRequired)
	admin.Post("/products", s.CreateProduct)
	admin.Put("/products/:id", s.UpdateProduct)
	admin.Delete("/products/:id", s.DeleteProduct)
	admin.Post("/courses", s.CreateCourse)
	admin.Put("/orders/:id/status", s.UpdateOrderStatus)
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
		// The store runs without Redis; the cache is best-effort.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Queen Touch API",
		"version": "1.0.0",
		"status":  overallStatus,
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
		AppName: "Queen Touch API",
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
