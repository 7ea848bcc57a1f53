package commands

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
)

func TestRunAuthorizationCode(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)
	generator := identityService.NewAuthorizationCodeGenerator(key)

	t.Run("Success_TextFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunAuthorizationCode(generator, &out, "text")

		assert.NoError(t, err)
		assert.Regexp(t,
			regexp.MustCompile(`^\d+:[A-Za-z0-9+/]+=*$`),
			strings.TrimSpace(out.String()),
		)
	})

	t.Run("Success_JSONFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunAuthorizationCode(generator, &out, "json")

		assert.NoError(t, err)

		var payload map[string]string
		assert.NoError(t, json.Unmarshal(out.Bytes(), &payload))
		assert.Contains(t, payload["authorizationCode"], ":")
	})

	t.Run("Error_InvalidFormat", func(t *testing.T) {
		var out bytes.Buffer

		err := RunAuthorizationCode(generator, &out, "yaml")

		assert.Error(t, err)
	})

	t.Run("Error_MissingKey", func(t *testing.T) {
		var out bytes.Buffer

		err := RunAuthorizationCode(identityService.NewAuthorizationCodeGenerator(nil), &out, "text")

		assert.Error(t, err)
	})
}
