package service

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
	"github.com/slovensko-digital/podanie-demo/internal/identity/domain"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// buildUnsignedToken assembles a JWT-shaped token with the given payload,
// signature segment intentionally bogus. DecodeUnverified must not care.
func buildUnsignedToken(t *testing.T, payload map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".bogus-signature"
}

func TestTokenService_Mint(t *testing.T) {
	key := generateTestKey(t)

	t.Run("Success_SignsExpectedClaims", func(t *testing.T) {
		svc := NewTokenService(key, 1000*time.Second)
		identity := &domain.Identity{
			Subject:         "rc://sk/8314451337",
			ExpiresAt:       time.Now().Add(10 * time.Minute).Unix(),
			DelegationToken: "inbound-obo-token",
		}

		minted, err := svc.Mint(identity)
		require.NoError(t, err)

		parsed, err := jwt.Parse(minted, func(token *jwt.Token) (any, error) {
			assert.Equal(t, "RS256", token.Method.Alg())
			return &key.PublicKey, nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid)

		assert.Equal(t, "JWT", parsed.Header["cty"])

		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, "inbound-obo-token", claims["obo"])
		assert.Equal(t, float64(identity.ExpiresAt), claims["exp"])
		assert.NotEmpty(t, claims["jti"])
	})

	t.Run("Success_FreshNoncePerMint", func(t *testing.T) {
		svc := NewTokenService(key, 1000*time.Second)
		identity := &domain.Identity{
			Subject:         "rc://sk/8314451337",
			ExpiresAt:       time.Now().Add(10 * time.Minute).Unix(),
			DelegationToken: "inbound-obo-token",
		}

		first, err := svc.Mint(identity)
		require.NoError(t, err)
		second, err := svc.Mint(identity)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("Success_TTLAppliedWithoutExpiry", func(t *testing.T) {
		svc := NewTokenService(key, 1000*time.Second)
		before := time.Now().Unix()

		minted, err := svc.Mint(&domain.Identity{
			Subject:         "rc://sk/8314451337",
			DelegationToken: "inbound-obo-token",
		})
		require.NoError(t, err)

		claims, err := svc.DecodeUnverified(minted)
		require.NoError(t, err)

		exp := int64(claims["exp"].(float64))
		assert.GreaterOrEqual(t, exp, before+1000)
		assert.LessOrEqual(t, exp, time.Now().Unix()+1000)
	})

	t.Run("Error_MissingKey", func(t *testing.T) {
		svc := NewTokenService(nil, 1000*time.Second)

		_, err := svc.Mint(&domain.Identity{DelegationToken: "inbound-obo-token"})

		assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
	})
}

func TestTokenService_DecodeUnverified(t *testing.T) {
	svc := NewTokenService(generateTestKey(t), 1000*time.Second)

	t.Run("Success_ReadsPayloadWithoutVerification", func(t *testing.T) {
		token := buildUnsignedToken(t, map[string]any{
			"sub": "rc://sk/8314451337",
			"exp": 1_700_000_600,
		})

		claims, err := svc.DecodeUnverified(token)
		require.NoError(t, err)

		assert.Equal(t, "rc://sk/8314451337", claims["sub"])
		assert.Equal(t, float64(1_700_000_600), claims["exp"])
	})

	t.Run("Error_NoPayloadSegment", func(t *testing.T) {
		_, err := svc.DecodeUnverified("single-segment")

		assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	})

	t.Run("Error_PayloadNotBase64", func(t *testing.T) {
		_, err := svc.DecodeUnverified("head.!!!not-base64url!!!.tail")

		assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	})

	t.Run("Error_PayloadNotJSON", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte("plain text"))
		_, err := svc.DecodeUnverified("head." + payload + ".tail")

		assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	})
}

func TestTokenService_IdentityFromToken(t *testing.T) {
	svc := NewTokenService(generateTestKey(t), 1000*time.Second)

	t.Run("Success_RoundTripsSubjectAndExpiry", func(t *testing.T) {
		token := buildUnsignedToken(t, map[string]any{
			"sub":  "rc://sk/8314451337",
			"name": "Janko Hraško",
			"exp":  1_700_000_600,
		})

		identity, err := svc.IdentityFromToken(token)
		require.NoError(t, err)

		assert.Equal(t, "rc://sk/8314451337", identity.Subject)
		assert.Equal(t, "Janko Hraško", identity.Name)
		assert.Equal(t, int64(1_700_000_600), identity.ExpiresAt)
		assert.Equal(t, token, identity.DelegationToken)
	})

	t.Run("Error_MissingSubject", func(t *testing.T) {
		token := buildUnsignedToken(t, map[string]any{"exp": 1_700_000_600})

		_, err := svc.IdentityFromToken(token)

		assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	})

	t.Run("Success_MintedTokenSubjectRecoverable", func(t *testing.T) {
		// The end-to-end relationship: a token whose payload carries sub/exp
		// decodes back to the same subject and expiry.
		inbound := buildUnsignedToken(t, map[string]any{
			"sub": "rc://sk/8314451337",
			"exp": time.Now().Add(10 * time.Minute).Unix(),
		})

		identity, err := svc.IdentityFromToken(inbound)
		require.NoError(t, err)

		minted, err := svc.Mint(identity)
		require.NoError(t, err)
		require.Equal(t, 3, len(strings.Split(minted, ".")))

		claims, err := svc.DecodeUnverified(minted)
		require.NoError(t, err)
		assert.Equal(t, inbound, claims["obo"])
	})
}
