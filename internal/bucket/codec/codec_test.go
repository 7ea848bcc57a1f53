package codec

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slovensko-digital/podanie-demo/internal/bucket/domain"
	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

func smallBucket() *domain.SigningBucket {
	return &domain.SigningBucket{
		Files: []domain.File{
			domain.NewFile("ziadost.pdf", "application/pdf", bytes.Repeat([]byte("a"), 50)),
			domain.NewFile("priloha.pdf", "application/pdf", bytes.Repeat([]byte("b"), 50)),
		},
		Message:    "Podpíšte priložené dokumenty",
		SuccessURL: "https://navody.digital/app/citizen/success",
		FailURL:    "https://navody.digital/app/citizen/failure",
	}
}

func oversizedBucket() *domain.SigningBucket {
	return &domain.SigningBucket{
		Files: []domain.File{
			domain.NewFile("ziadost.pdf", "application/pdf", bytes.Repeat([]byte("x"), 2000)),
			domain.NewFile("priloha.pdf", "application/pdf", bytes.Repeat([]byte("y"), 2000)),
		},
		Message:    "Podpíšte priložené dokumenty",
		SuccessURL: "https://navody.digital/app/citizen/success",
		FailURL:    "https://navody.digital/app/citizen/failure",
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()

	t.Run("Success_SmallBucketRoundTripsUnchanged", func(t *testing.T) {
		bucket := smallBucket()

		encoded, degraded, err := c.Encode(bucket)
		require.NoError(t, err)
		assert.False(t, degraded)
		assert.LessOrEqual(t, len(encoded), MaxEncodedChars)

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, bucket, decoded)
	})

	t.Run("Success_EncodedFormIsURLSafe", func(t *testing.T) {
		encoded, _, err := c.Encode(smallBucket())
		require.NoError(t, err)

		assert.NotContains(t, encoded, "+")
		assert.NotContains(t, encoded, "/")
		assert.NotContains(t, encoded, "=")
	})

	t.Run("Success_SignedFlagsSurviveRoundTrip", func(t *testing.T) {
		bucket := smallBucket()
		bucket.Files[0].IsSigned = true

		encoded, _, err := c.Encode(bucket)
		require.NoError(t, err)

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		assert.True(t, decoded.Files[0].IsSigned)
		assert.False(t, decoded.Files[1].IsSigned)
	})
}

func TestCodec_Degradation(t *testing.T) {
	c := New()

	t.Run("Success_OversizedBucketDegradesAllFilesAtOnce", func(t *testing.T) {
		bucket := oversizedBucket()

		encoded, degraded, err := c.Encode(bucket)
		require.NoError(t, err)
		assert.True(t, degraded)

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, 2, len(decoded.Files))

		for i, file := range decoded.Files {
			assert.Equal(t, "text/plain", file.MimeType, "file %d", i)

			notice, err := base64.StdEncoding.DecodeString(file.Content)
			require.NoError(t, err)
			assert.Contains(t, string(notice), bucket.Files[i].Name)
			assert.Contains(t, string(notice), "nahradený týmto oznámením")
		}

		// The rest of the bucket is untouched.
		assert.Equal(t, bucket.Message, decoded.Message)
		assert.Equal(t, bucket.SuccessURL, decoded.SuccessURL)
		assert.Equal(t, bucket.FailURL, decoded.FailURL)
	})

	t.Run("Success_DegradedEncodingNeverGrows", func(t *testing.T) {
		bucket := oversizedBucket()

		natural, err := encodeNatural(bucket)
		require.NoError(t, err)

		encoded, degraded, err := c.Encode(bucket)
		require.NoError(t, err)
		assert.True(t, degraded)
		assert.LessOrEqual(t, len(encoded), len(natural))
	})

	t.Run("Success_DecodeEqualsDegrade", func(t *testing.T) {
		bucket := oversizedBucket()

		encoded, _, err := c.Encode(bucket)
		require.NoError(t, err)

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, c.Degrade(bucket), decoded)
	})

	t.Run("Success_DegradeAppliedExactlyOnce", func(t *testing.T) {
		// A bucket whose degraded form is still oversized is returned as-is.
		bucket := oversizedBucket()
		bucket.Message = strings.Repeat("Podpíšte dokumenty. ", 200)

		encoded, degraded, err := c.Encode(bucket)
		require.NoError(t, err)
		assert.True(t, degraded)
		assert.Greater(t, len(encoded), MaxEncodedChars)

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, c.Degrade(bucket), decoded)
	})
}

func TestCodec_Decode(t *testing.T) {
	c := New()

	t.Run("Error_NotBase64", func(t *testing.T) {
		_, err := c.Decode("!!!not-base64url!!!")

		assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	})

	t.Run("Error_NotJSON", func(t *testing.T) {
		_, err := c.Decode(base64.RawURLEncoding.EncodeToString([]byte("plain text")))

		assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	})
}

// encodeNatural serializes without the size policy, for comparisons.
func encodeNatural(bucket *domain.SigningBucket) (string, error) {
	return encodeOnce(bucket)
}
