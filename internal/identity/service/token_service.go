// Package service provides the cryptographic services of the identity module:
// delegated token minting and partner authorization codes.
package service

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
	"github.com/slovensko-digital/podanie-demo/internal/identity/domain"
)

// TokenService mints short-lived delegated tokens and reads claims out of
// inbound OBO tokens.
type TokenService interface {
	// Mint signs a fresh delegated token proving "this app acts for this
	// identity now". Every call produces a distinct jti nonce; the token is
	// never stored.
	Mint(identity *domain.Identity) (string, error)

	// DecodeUnverified base64url-decodes the payload segment of a JWT without
	// any signature verification. The output is untrusted: it is only applied
	// to tokens the user already round-tripped through a cookie set by this
	// server, never to authorize externally supplied tokens.
	DecodeUnverified(token string) (map[string]any, error)

	// IdentityFromToken builds a provisional Identity from the sub and exp
	// claims of an OBO token, using DecodeUnverified.
	IdentityFromToken(token string) (*domain.Identity, error)
}

type tokenService struct {
	key *rsa.PrivateKey
	ttl time.Duration
}

// NewTokenService creates a token service around process-wide key material.
// The ttl applies when the identity carries no expiry of its own.
func NewTokenService(key *rsa.PrivateKey, ttl time.Duration) TokenService {
	return &tokenService{key: key, ttl: ttl}
}

// Mint signs {obo, exp, jti} with RS256 and marks the result as a nested
// token via the cty=JWT header.
func (s *tokenService) Mint(identity *domain.Identity) (string, error) {
	if s.key == nil {
		return "", apperrors.Wrap(apperrors.ErrConfiguration, "delegated token signing key is not loaded")
	}

	exp := identity.ExpiresAt
	if exp == 0 {
		exp = time.Now().Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"obo": identity.DelegationToken,
		"exp": exp,
		"jti": uuid.NewString(),
	})
	token.Header["cty"] = "JWT"

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrConfiguration, "failed to sign delegated token: "+err.Error())
	}

	return signed, nil
}

// DecodeUnverified splits the dot-separated token and decodes its middle
// segment. No signature check happens here.
func (s *tokenService) DecodeUnverified(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, apperrors.Wrap(apperrors.ErrDecode, "token has no payload segment")
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDecode, "token payload is not base64url")
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDecode, "token payload is not JSON")
	}

	return claims, nil
}

// IdentityFromToken reads sub and exp from the token payload. The returned
// identity is provisional until the caller decides whether to verify it
// against the remote session endpoint.
func (s *tokenService) IdentityFromToken(token string) (*domain.Identity, error) {
	claims, err := s.DecodeUnverified(token)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apperrors.Wrap(apperrors.ErrDecode, "token payload has no sub claim")
	}

	identity := &domain.Identity{Subject: sub, DelegationToken: token}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if exp, ok := claims["exp"].(float64); ok {
		identity.ExpiresAt = int64(exp)
	}

	return identity, nil
}
