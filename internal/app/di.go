// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	bucketCodec "github.com/slovensko-digital/podanie-demo/internal/bucket/codec"
	bucketHTTP "github.com/slovensko-digital/podanie-demo/internal/bucket/http"
	bucketUseCase "github.com/slovensko-digital/podanie-demo/internal/bucket/usecase"
	"github.com/slovensko-digital/podanie-demo/internal/config"
	"github.com/slovensko-digital/podanie-demo/internal/http"
	identityHTTP "github.com/slovensko-digital/podanie-demo/internal/identity/http"
	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
	identityUseCase "github.com/slovensko-digital/podanie-demo/internal/identity/usecase"
	"github.com/slovensko-digital/podanie-demo/internal/keyring"
	"github.com/slovensko-digital/podanie-demo/internal/messaging"
	"github.com/slovensko-digital/podanie-demo/internal/metrics"
	signingHTTP "github.com/slovensko-digital/podanie-demo/internal/signing/http"
	workflowHTTP "github.com/slovensko-digital/podanie-demo/internal/workflow/http"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	keys            *keyring.Keyring

	tokenService  identityService.TokenService
	codeGenerator identityService.AuthorizationCodeGenerator
	gateway       *messaging.Client
	resolver      identityUseCase.SessionResolver
	bucketUseCase bucketUseCase.UseCase

	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	keyringInit         sync.Once
	tokenServiceInit    sync.Once
	codeGeneratorInit   sync.Once
	gatewayInit         sync.Once
	resolverInit        sync.Once
	bucketUseCaseInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// Keyring returns the process-wide RSA key material.
func (c *Container) Keyring(ctx context.Context) (*keyring.Keyring, error) {
	c.keyringInit.Do(func() {
		keys, err := keyring.Load(ctx, keyring.Config{
			SigningKey: c.config.SigningKey,
			PartnerKey: c.config.PartnerSigningKey,
			KMSKeyURI:  c.config.KMSKeyURI,
		})
		if err != nil {
			c.initErrors["keyring"] = fmt.Errorf("failed to load key material: %w", err)
			return
		}
		c.keys = keys
	})
	if err, exists := c.initErrors["keyring"]; exists {
		return nil, err
	}
	return c.keys, nil
}

// TokenService returns the delegated token service.
func (c *Container) TokenService(ctx context.Context) (identityService.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		keys, err := c.Keyring(ctx)
		if err != nil {
			c.initErrors["tokenService"] = err
			return
		}
		c.tokenService = identityService.NewTokenService(keys.SigningKey(), c.config.TokenTTL)
	})
	if err, exists := c.initErrors["tokenService"]; exists {
		return nil, err
	}
	return c.tokenService, nil
}

// AuthorizationCodeGenerator returns the partner authorization code generator.
func (c *Container) AuthorizationCodeGenerator(ctx context.Context) (identityService.AuthorizationCodeGenerator, error) {
	c.codeGeneratorInit.Do(func() {
		keys, err := c.Keyring(ctx)
		if err != nil {
			c.initErrors["codeGenerator"] = err
			return
		}
		c.codeGenerator = identityService.NewAuthorizationCodeGenerator(keys.PartnerKey())
	})
	if err, exists := c.initErrors["codeGenerator"]; exists {
		return nil, err
	}
	return c.codeGenerator, nil
}

// Gateway returns the slovensko.sk integration client.
func (c *Container) Gateway() (*messaging.Client, error) {
	c.gatewayInit.Do(func() {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["gateway"] = err
			return
		}
		c.gateway = messaging.NewClient(
			c.config.UPVSBaseURL, c.config.UpstreamTimeout, businessMetrics, c.Logger())
	})
	if err, exists := c.initErrors["gateway"]; exists {
		return nil, err
	}
	return c.gateway, nil
}

// SessionResolver returns the cookie-based identity resolver.
func (c *Container) SessionResolver(ctx context.Context) (identityUseCase.SessionResolver, error) {
	c.resolverInit.Do(func() {
		tokens, err := c.TokenService(ctx)
		if err != nil {
			c.initErrors["resolver"] = err
			return
		}
		gateway, err := c.Gateway()
		if err != nil {
			c.initErrors["resolver"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["resolver"] = err
			return
		}
		c.resolver = identityUseCase.NewSessionResolver(tokens, gateway, businessMetrics, c.Logger())
	})
	if err, exists := c.initErrors["resolver"]; exists {
		return nil, err
	}
	return c.resolver, nil
}

// BucketUseCase returns the bucket use case wrapped with metrics.
func (c *Container) BucketUseCase() (bucketUseCase.UseCase, error) {
	c.bucketUseCaseInit.Do(func() {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["bucketUseCase"] = err
			return
		}
		base := bucketUseCase.NewBucketUseCase(
			bucketCodec.New(),
			c.config.BucketAPIKey,
			c.config.BucketInternalAPIKey,
			c.config.PublicBaseURL+"/app/podpisovac",
		)
		c.bucketUseCase = bucketUseCase.NewBucketUseCaseWithMetrics(base, businessMetrics)
	})
	if err, exists := c.initErrors["bucketUseCase"]; exists {
		return nil, err
	}
	return c.bucketUseCase, nil
}

// HTTPServer returns the application HTTP server.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured JSON logger from the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initHTTPServer wires every handler into the application router.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	resolver, err := c.SessionResolver(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session resolver for http server: %w", err)
	}
	sessions := identityHTTP.NewSessionManager(resolver, logger)

	buckets, err := c.BucketUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket use case for http server: %w", err)
	}

	tokens, err := c.TokenService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for http server: %w", err)
	}

	gateway, err := c.Gateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for http server: %w", err)
	}

	codes, err := c.AuthorizationCodeGenerator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get code generator for http server: %w", err)
	}

	handlers := http.Handlers{
		Auth: identityHTTP.NewAuthHandler(sessions, logger),
		Citizen: workflowHTTP.NewCitizenHandler(
			sessions, buckets, tokens, gateway,
			workflowHTTP.CitizenHandlerConfig{
				PublicBaseURL:  c.config.PublicBaseURL,
				SigningAppURL:  c.config.PublicBaseURL + "/app/podpisovac",
				InternalAPIKey: c.config.BucketInternalAPIKey,
			},
			logger,
		),
		Signing: signingHTTP.NewSigningHandler(buckets, logger),
		Partner: signingHTTP.NewPartnerHandler(
			codes, c.config.PartnerUsername, c.config.PartnerID, c.config.PartnerBaseURL, logger),
		Bucket: bucketHTTP.NewBucketHandler(buckets, logger),
	}

	var metricsMiddleware gin.HandlerFunc
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	router := http.NewRouter(ctx, http.RouterConfig{
		GinMode:           c.config.GetGinMode(),
		CORSEnabled:       c.config.CORSEnabled,
		CORSAllowOrigins:  c.config.CORSAllowOrigins,
		RateLimitEnabled:  c.config.RateLimitEnabled,
		RateLimitRPS:      c.config.RateLimitRequestsPerSec,
		RateLimitBurst:    c.config.RateLimitBurst,
		MetricsMiddleware: metricsMiddleware,
	}, handlers, logger)

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, logger), nil
}
