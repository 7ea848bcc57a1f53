// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// PublicBaseURL is the externally visible base URL used when building
	// continuation and login redirect URLs.
	PublicBaseURL string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// SigningKey is the base64-encoded PEM RSA private key used to mint
	// delegated tokens for UPVS backend calls.
	SigningKey string
	// PartnerSigningKey is the base64-encoded PEM RSA private key used to
	// generate partner authorization codes.
	PartnerSigningKey string
	// KMSProvider is the KMS provider to use (e.g., "google", "aws", "azure").
	// When empty, key material is read directly from the environment.
	KMSProvider string
	// KMSKeyURI is the URI of the KMS key wrapping the signing keys. When set,
	// SigningKey and PartnerSigningKey are treated as KMS ciphertexts.
	KMSKeyURI string

	// UPVSBaseURL is the base URL of the government integration API used for
	// the remote session check and message submission.
	UPVSBaseURL string
	// UpstreamTimeout bounds each outbound HTTP call.
	UpstreamTimeout time.Duration

	// TokenTTL is the validity window of a minted delegated token, used when
	// the identity itself carries no expiry.
	TokenTTL time.Duration

	// BucketAPIKey is the shared secret that gates bucket creation.
	BucketAPIKey string
	// BucketInternalAPIKey is a second secret reserved for the privileged
	// internal citizen-app flow.
	BucketInternalAPIKey string

	// PartnerUsername identifies this integration towards the signing partner.
	PartnerUsername string
	// PartnerID is the integration identifier assigned by the signing partner.
	PartnerID string
	// PartnerBaseURL is the base URL of the external signing partner.
	PartnerBaseURL string

	// RateLimitEnabled indicates whether rate limiting of the bucket creation
	// endpoint is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for bucket creation rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:    env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:    env.GetInt("SERVER_PORT", 8080),
		PublicBaseURL: env.GetString("PUBLIC_BASE_URL", "http://localhost:8080"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Key material
		SigningKey:        env.GetString("SLOVENSKO_DIGITAL_API_PRIVATE_KEY", ""),
		PartnerSigningKey: env.GetString("PODPISUJSK_API_PRIVATE_KEY", ""),
		KMSProvider:       env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:         env.GetString("KMS_KEY_URI", ""),

		// Upstream integration
		UPVSBaseURL: env.GetString(
			"UPVS_BASE_URL",
			"https://slovensko-sk-api.ekosystem.staging.slovensko.digital",
		),
		UpstreamTimeout: env.GetDuration("UPSTREAM_TIMEOUT_SECONDS", 30, time.Second),

		// Delegated tokens
		TokenTTL: env.GetDuration("TOKEN_TTL_SECONDS", 1000, time.Second),

		// Bucket creation secrets
		BucketAPIKey:         env.GetString("BUCKET_API_KEY", "super-secret-api-key"),
		BucketInternalAPIKey: env.GetString("BUCKET_INTERNAL_API_KEY", "internal-workflow-api-key"),

		// Signing partner
		PartnerUsername: env.GetString("PARTNER_USERNAME", "slovensko-digital-demo"),
		PartnerID:       env.GetString("PARTNER_ID", "sdn-demo-1"),
		PartnerBaseURL:  env.GetString("PARTNER_BASE_URL", "https://podpisuj.sk"),

		// Rate Limiting (bucket creation, IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "podanie"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
