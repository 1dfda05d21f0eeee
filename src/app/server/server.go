// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"piadas/src/app/http/dto"
	"piadas/src/app/http/handler"
	"piadas/src/app/http/response"
	"piadas/src/app/middleware"
	"piadas/src/core/ports"
	"piadas/src/core/usecase"
	"piadas/src/infra/config"
	"piadas/src/infra/logger"
)

// Deps are the adapters the server is built from.
type Deps struct {
	Users   ports.UserRepository
	Jokes   ports.JokeRepository
	Cache   ports.Cache
	Limiter ports.RateLimiter
	Hasher  ports.PasswordHasher
	Tokens  ports.TokenService

	// Sanitizer defaults to the strict HTML policy.
	Sanitizer middleware.Sanitizer

	// Components are probed by /health/detailed.
	Components map[string]ports.ExternalService
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	router *gin.Engine
	http   *http.Server

	limiter   ports.RateLimiter
	sanitizer middleware.Sanitizer
	auth      *usecase.AuthService

	healthHandler *handler.HealthHandler
	authHandler   *handler.AuthHandler
	jokeHandler   *handler.JokeHandler
}

// New creates a new Server with all dependencies wired up.
func New(cfg *config.Config, log *slog.Logger, deps Deps) *Server {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// client IPs come from the socket; forwarded headers are not trusted
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to reset trusted proxies", "error", err)
	}

	authService := usecase.NewAuthService(deps.Users, deps.Hasher, deps.Tokens, logger.WithComponent(log, "auth"))
	jokeService := usecase.NewJokeService(deps.Jokes, deps.Cache, cfg.Cache.TTL, logger.WithComponent(log, "jokes"))
	healthService := usecase.NewHealthService(logger.WithComponent(log, "health"), deps.Components)

	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = middleware.NewStrictSanitizer()
	}

	s := &Server{
		cfg:           cfg,
		log:           log,
		router:        router,
		limiter:       deps.Limiter,
		sanitizer:     sanitizer,
		auth:          authService,
		healthHandler: handler.NewHealthHandler(healthService),
		authHandler:   handler.NewAuthHandler(authService, log),
		jokeHandler:   handler.NewJokeHandler(jokeService, log),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
// Recovery must be first to catch panics from every later stage.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS(s.cfg.Server.CORSOrigin))
	s.router.Use(middleware.Logging(logger.WithComponent(s.log, "http")))
	s.router.Use(middleware.RateLimit(s.limiter, logger.WithComponent(s.log, "ratelimit")))
	s.router.Use(middleware.Sanitize(s.sanitizer))
}

// setupRoutes configures all HTTP routes.
// Per route the chain is validate, then authenticate, then the handler.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	s.router.POST("/register", middleware.Validate[dto.RegisterRequest](), s.authHandler.Register)
	s.router.POST("/login", middleware.Validate[dto.LoginRequest](), s.authHandler.Login)

	authed := middleware.BearerAuth(s.auth)
	piadas := s.router.Group("/piadas")
	{
		piadas.GET("", authed, s.jokeHandler.Random)
		piadas.POST("", middleware.Validate[dto.AddJokeRequest](), authed, s.jokeHandler.Add)
		piadas.GET("/busca", middleware.ValidateQuery[dto.SearchJokesQuery](), authed, s.jokeHandler.Search)
	}

	s.router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "The requested resource was not found", middleware.GetRequestID(c))
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run serves HTTPS and blocks until shutdown.
// It handles graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("starting HTTPS server",
			"addr", s.cfg.Server.Addr(),
			"cors_origin", s.cfg.Server.CORSOrigin,
		)
		err := s.http.ListenAndServeTLS(s.cfg.Server.CertPath, s.cfg.Server.KeyPath)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		s.log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
