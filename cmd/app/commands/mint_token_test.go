package commands

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
)

func testOBOToken(t *testing.T) string {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"sub":  "rc://sk/1",
		"name": "Janko Tisíci",
	})
	assert.NoError(t, err)

	return "eyJhbGciOiJSUzI1NiJ9." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestRunMintToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)
	tokens := identityService.NewTokenService(key, 1000*time.Second)

	t.Run("Success_TextFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunMintToken(tokens, &out, testOBOToken(t), "text")

		assert.NoError(t, err)
		minted := strings.TrimSpace(out.String())
		assert.Len(t, strings.Split(minted, "."), 3)
	})

	t.Run("Success_JSONFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunMintToken(tokens, &out, testOBOToken(t), "json")

		assert.NoError(t, err)

		var payload map[string]string
		assert.NoError(t, json.Unmarshal(out.Bytes(), &payload))
		assert.Equal(t, "rc://sk/1", payload["sub"])
		assert.NotEmpty(t, payload["token"])
	})

	t.Run("Error_MalformedOBOToken", func(t *testing.T) {
		var out bytes.Buffer

		err := RunMintToken(tokens, &out, "garbage", "text")

		assert.Error(t, err)
	})

	t.Run("Error_InvalidFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunMintToken(tokens, &out, testOBOToken(t), "yaml")

		assert.Error(t, err)
	})
}
