// Package codec implements the stateless bucket encoding. The encoded string
// is the bucket's only persistent representation: it travels as a URL query
// parameter between applications that share no storage, so its size must stay
// under common URL length limits.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/slovensko-digital/podanie-demo/internal/bucket/domain"
	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

// MaxEncodedChars is the size bound on the encoded bucket, chosen to stay
// under common URL length limits.
const MaxEncodedChars = 1900

// placeholderNotice replaces oversized file contents. The original file name
// stays visible to the signer inside the notice.
const placeholderNotice = "Obsah súboru %s presiahol povolenú veľkosť podpisovej požiadavky a bol nahradený týmto oznámením. Pôvodný dokument priložte k podaniu znova."

// Codec encodes signing buckets into opaque, size-bounded strings and back.
type Codec interface {
	// Encode serializes the bucket to canonical JSON and base64url. When the
	// result exceeds MaxEncodedChars the bucket is degraded (see Degrade) and
	// re-encoded exactly once; a still-oversized result is returned as-is.
	// The returned flag reports whether degradation happened.
	Encode(bucket *domain.SigningBucket) (string, bool, error)

	// Decode is the structural inverse of Encode. Malformed input fails with
	// a decode error; there is no partial recovery.
	Decode(encoded string) (*domain.SigningBucket, error)

	// Degrade returns a copy of the bucket with every file's content replaced
	// by the placeholder notice and its mime type forced to text/plain. The
	// substitution is uniform: all files at once, never a subset.
	Degrade(bucket *domain.SigningBucket) *domain.SigningBucket
}

type codec struct{}

// New creates the bucket codec.
func New() Codec {
	return &codec{}
}

// Encode produces the bucket's opaque identity.
func (c *codec) Encode(bucket *domain.SigningBucket) (string, bool, error) {
	encoded, err := encodeOnce(bucket)
	if err != nil {
		return "", false, err
	}

	if len(encoded) <= MaxEncodedChars {
		return encoded, false, nil
	}

	degraded := c.Degrade(bucket)
	encoded, err = encodeOnce(degraded)
	if err != nil {
		return "", false, err
	}

	// No further shrinking: if the placeholder form is still oversized the
	// consumer may fail to use it, an accepted limitation of the hand-off.
	return encoded, true, nil
}

// Decode reverses Encode.
func (c *codec) Decode(encoded string) (*domain.SigningBucket, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDecode, "bucket is not base64url")
	}

	var bucket domain.SigningBucket
	if err := json.Unmarshal(raw, &bucket); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDecode, "bucket payload is not valid JSON")
	}

	return &bucket, nil
}

// Degrade applies the deterministic content substitution.
func (c *codec) Degrade(bucket *domain.SigningBucket) *domain.SigningBucket {
	degraded := &domain.SigningBucket{
		Files:      make([]domain.File, len(bucket.Files)),
		Message:    bucket.Message,
		SuccessURL: bucket.SuccessURL,
		FailURL:    bucket.FailURL,
	}

	for i, file := range bucket.Files {
		notice := fmt.Sprintf(placeholderNotice, file.Name)
		degraded.Files[i] = domain.File{
			Name:     file.Name,
			MimeType: "text/plain",
			Content:  base64.StdEncoding.EncodeToString([]byte(notice)),
			IsSigned: file.IsSigned,
		}
	}

	return degraded
}

// encodeOnce serializes without any size handling.
func encodeOnce(bucket *domain.SigningBucket) (string, error) {
	raw, err := json.Marshal(bucket)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecode, "bucket cannot be serialized")
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
