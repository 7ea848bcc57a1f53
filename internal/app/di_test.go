package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/slovensko-digital/podanie-demo/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func base64TestKey(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return base64.StdEncoding.EncodeToString(pemBytes)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerHost:           "127.0.0.1",
		ServerPort:           0,
		PublicBaseURL:        "http://localhost:8080",
		LogLevel:             "error",
		SigningKey:           base64TestKey(t),
		PartnerSigningKey:    base64TestKey(t),
		UPVSBaseURL:          "http://localhost:9",
		UpstreamTimeout:      time.Second,
		TokenTTL:             1000 * time.Second,
		BucketAPIKey:         "super-secret-api-key",
		BucketInternalAPIKey: "internal-workflow-api-key",
		PartnerUsername:      "demo",
		PartnerID:            "sdn-demo-1",
		PartnerBaseURL:       "https://podpisuj.sk",
		RateLimitEnabled:     false,
		MetricsEnabled:       false,
		MetricsNamespace:     "podanie",
	}
}

func TestContainer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FullWiring", func(t *testing.T) {
		container := NewContainer(testConfig(t))
		defer func() { assert.NoError(t, container.Shutdown(ctx)) }()

		assert.NotNil(t, container.Logger())

		keys, err := container.Keyring(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, keys.SigningKey())
		assert.NotNil(t, keys.PartnerKey())

		server, err := container.HTTPServer(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, server.GetHandler())

		// Lazy accessors return the same instance.
		again, err := container.HTTPServer(ctx)
		assert.NoError(t, err)
		assert.Same(t, server, again)
	})

	t.Run("Success_MetricsDisabledFallsBackToNoOp", func(t *testing.T) {
		container := NewContainer(testConfig(t))
		defer func() { assert.NoError(t, container.Shutdown(ctx)) }()

		provider, err := container.MetricsProvider()
		assert.NoError(t, err)
		assert.Nil(t, provider)

		businessMetrics, err := container.BusinessMetrics()
		assert.NoError(t, err)
		assert.NotNil(t, businessMetrics)

		metricsServer, err := container.MetricsServer()
		assert.NoError(t, err)
		assert.Nil(t, metricsServer)
	})

	t.Run("Error_MissingSigningKey", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.SigningKey = ""
		container := NewContainer(cfg)
		defer func() { assert.NoError(t, container.Shutdown(ctx)) }()

		_, err := container.Keyring(ctx)
		assert.Error(t, err)

		_, err = container.HTTPServer(ctx)
		assert.Error(t, err)
	})
}
