package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/bookvault/books-api/internal/api/handler"
	"github.com/bookvault/books-api/internal/api/middleware"
	"github.com/bookvault/books-api/internal/core/ports"
	"github.com/bookvault/books-api/internal/core/service"
	"github.com/bookvault/books-api/internal/infrastructure/config"
	redisdb "github.com/bookvault/books-api/internal/infrastructure/db/redis"
	"github.com/bookvault/books-api/internal/infrastructure/supabase"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the login limiter is then disabled.
func NewRouter(cfg *config.Config, sb *supabase.Client, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	// Wide open on purpose: the API is consumed from arbitrary origins.
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("books"))

	// --- Dependencies ---
	gateway := supabase.NewAuthGateway(sb)
	bookRepo := supabase.NewBookRepository(sb)

	var limiter ports.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewAttemptLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	}

	authService := service.NewAuthService(gateway, limiter, log)
	bookService := service.NewBookService(bookRepo, log, service.BookServiceOptions{
		ScopeDuplicateCheckToOwner: cfg.ScopeDuplicateCheckToOwner(),
	})

	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	authMiddleware := middleware.Auth(cfg.Supabase.JWTSecret, gateway)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)

	// --- Book routes (bearer token required) ---
	books := e.Group("/book", authMiddleware)
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create)
	books.PUT("/:book_id", bookHandler.Update)
	books.DELETE("/:book_id", bookHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(sb, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the backend reachable?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
