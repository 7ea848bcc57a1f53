package service

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

// AuthorizationCodeGenerator produces one-time proofs of integration
// authenticity for the partner signing service.
type AuthorizationCodeGenerator interface {
	// Generate returns "<timestampMillis>:<base64 signature>" where the
	// signature is RSA-SHA256 over the decimal timestamp string. Every call
	// produces a fresh code; the partner enforces the freshness window.
	Generate() (string, error)
}

type authorizationCodeGenerator struct {
	key *rsa.PrivateKey
}

// NewAuthorizationCodeGenerator creates a generator around the partner key
// loaded once at startup.
func NewAuthorizationCodeGenerator(key *rsa.PrivateKey) AuthorizationCodeGenerator {
	return &authorizationCodeGenerator{key: key}
}

// Generate signs the current millisecond timestamp.
func (g *authorizationCodeGenerator) Generate() (string, error) {
	if g.key == nil {
		return "", apperrors.Wrap(apperrors.ErrConfiguration, "partner signing key is not loaded")
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	digest := sha256.Sum256([]byte(timestamp))

	signature, err := rsa.SignPKCS1v15(rand.Reader, g.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrConfiguration, "failed to sign authorization code: "+err.Error())
	}

	return timestamp + ":" + base64.StdEncoding.EncodeToString(signature), nil
}
