package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	bucketHTTP "github.com/slovensko-digital/podanie-demo/internal/bucket/http"
	identityHTTP "github.com/slovensko-digital/podanie-demo/internal/identity/http"
	signingHTTP "github.com/slovensko-digital/podanie-demo/internal/signing/http"
	workflowHTTP "github.com/slovensko-digital/podanie-demo/internal/workflow/http"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Auth    *identityHTTP.AuthHandler
	Citizen *workflowHTTP.CitizenHandler
	Signing *signingHTTP.SigningHandler
	Partner *signingHTTP.PartnerHandler
	Bucket  *bucketHTTP.BucketHandler
}

// RouterConfig carries the router's middleware configuration.
type RouterConfig struct {
	GinMode           string
	CORSEnabled       bool
	CORSAllowOrigins  string
	RateLimitEnabled  bool
	RateLimitRPS      float64
	RateLimitBurst    int
	MetricsMiddleware gin.HandlerFunc
}

// NewRouter builds the application router.
func NewRouter(ctx context.Context, cfg RouterConfig, handlers Handlers, logger *slog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(GinLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler(ctx))

	app := router.Group("/app")
	{
		app.GET("/citizen", handlers.Citizen.IndexHandler)
		app.GET("/citizen/start", handlers.Citizen.StartHandler)
		app.GET("/citizen/success", handlers.Citizen.SuccessHandler)
		app.POST("/citizen/success", handlers.Citizen.SuccessHandler)
		app.GET("/citizen/failure", handlers.Citizen.FailureHandler)

		app.GET("/slovensko.sk/login", handlers.Auth.LoginHandler)
		app.GET("/fake-login", handlers.Auth.FakeLoginHandler)
		app.GET("/logout", handlers.Auth.LogoutHandler)
		app.POST("/consent", handlers.Auth.ConsentHandler)

		app.GET("/podpisovac", handlers.Signing.ViewHandler)
		app.POST("/podpisovac/sign", handlers.Signing.SignHandler)
	}

	api := router.Group("/api")
	{
		bucketRoutes := api.Group("/bucket")
		if cfg.RateLimitEnabled {
			bucketRoutes.Use(IPRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		}
		bucketRoutes.POST("", handlers.Bucket.CreateHandler)

		api.GET("/partner/credentials", handlers.Partner.CredentialsHandler)
	}

	return router
}

// Server is the application HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the application server around a prepared router.
func NewServer(host string, port int, router http.Handler, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the underlying handler for tests.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
