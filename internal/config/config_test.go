package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(
					t,
					"https://slovensko-sk-api.ekosystem.staging.slovensko.digital",
					cfg.UPVSBaseURL,
				)
				assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
				assert.Equal(t, 1000*time.Second, cfg.TokenTTL)
				assert.Equal(t, "super-secret-api-key", cfg.BucketAPIKey)
				assert.Equal(t, "internal-workflow-api-key", cfg.BucketInternalAPIKey)
				assert.Equal(t, "https://podpisuj.sk", cfg.PartnerBaseURL)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST":     "localhost",
				"SERVER_PORT":     "9090",
				"PUBLIC_BASE_URL": "https://navody.digital",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
				assert.Equal(t, "https://navody.digital", cfg.PublicBaseURL)
			},
		},
		{
			name: "load custom key material",
			envVars: map[string]string{
				"SLOVENSKO_DIGITAL_API_PRIVATE_KEY": "c2lnbmluZy1rZXk=",
				"PODPISUJSK_API_PRIVATE_KEY":        "cGFydG5lci1rZXk=",
				"KMS_PROVIDER":                      "hashivault",
				"KMS_KEY_URI":                       "hashivault://signing-keys",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "c2lnbmluZy1rZXk=", cfg.SigningKey)
				assert.Equal(t, "cGFydG5lci1rZXk=", cfg.PartnerSigningKey)
				assert.Equal(t, "hashivault", cfg.KMSProvider)
				assert.Equal(t, "hashivault://signing-keys", cfg.KMSKeyURI)
			},
		},
		{
			name: "load custom upstream configuration",
			envVars: map[string]string{
				"UPVS_BASE_URL":            "https://podaas.ekosystem.staging.slovensko.digital",
				"UPSTREAM_TIMEOUT_SECONDS": "5",
				"TOKEN_TTL_SECONDS":        "120",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://podaas.ekosystem.staging.slovensko.digital", cfg.UPVSBaseURL)
				assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
				assert.Equal(t, 120*time.Second, cfg.TokenTTL)
			},
		},
		{
			name: "load custom rate limit configuration",
			envVars: map[string]string{
				"RATE_LIMIT_ENABLED":          "false",
				"RATE_LIMIT_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_BURST":            "3",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 3, cfg.RateLimitBurst)
			},
		},
		{
			name: "load custom metrics configuration",
			envVars: map[string]string{
				"METRICS_ENABLED":   "false",
				"METRICS_NAMESPACE": "handoff",
				"METRICS_PORT":      "9100",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.MetricsEnabled)
				assert.Equal(t, "handoff", cfg.MetricsNamespace)
				assert.Equal(t, 9100, cfg.MetricsPort)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
