// Package usecase implements bucket creation and opening on top of the
// stateless codec.
package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/slovensko-digital/podanie-demo/internal/bucket/codec"
	"github.com/slovensko-digital/podanie-demo/internal/bucket/domain"
	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
	customValidation "github.com/slovensko-digital/podanie-demo/internal/validation"
)

// CreateBucketInput carries everything needed to mint a bucket identifier.
type CreateBucketInput struct {
	APIKey     string
	Message    string
	SuccessURL string
	FailURL    string
	Files      []domain.File
}

// CreateBucketOutput is the result of bucket creation. BucketID is the
// bucket's complete, stateless representation.
type CreateBucketOutput struct {
	BucketID        string
	Degraded        bool
	DemoInstruction string
}

// UseCase exposes the bucket operations used by the HTTP layer.
type UseCase interface {
	// Create validates the shared secret and the bucket contents, then encodes
	// the bucket. There is no storage: the returned BucketID is the bucket.
	Create(ctx context.Context, input *CreateBucketInput) (*CreateBucketOutput, error)

	// Open decodes a bucket identifier back into a bucket.
	Open(ctx context.Context, bucketID string) (*domain.SigningBucket, error)

	// Reencode re-encodes a bucket after the signing app updated its files.
	Reencode(ctx context.Context, bucket *domain.SigningBucket) (string, error)
}

type bucketUseCase struct {
	codec          codec.Codec
	apiKey         string
	internalAPIKey string
	signingAppURL  string
}

// NewBucketUseCase wires the codec with the two shared secrets gating bucket
// creation. signingAppURL feeds the demo instruction in the response.
func NewBucketUseCase(c codec.Codec, apiKey, internalAPIKey, signingAppURL string) UseCase {
	return &bucketUseCase{
		codec:          c,
		apiKey:         apiKey,
		internalAPIKey: internalAPIKey,
		signingAppURL:  signingAppURL,
	}
}

// Create implements the producer-side trust boundary and size policy.
func (u *bucketUseCase) Create(ctx context.Context, input *CreateBucketInput) (*CreateBucketOutput, error) {
	if !u.keyAllowed(input.APIKey) {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "unknown bucket api key")
	}

	if len(input.Files) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "at least one file is required")
	}
	if len(input.Files) > domain.MaxFiles {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("at most %d files are allowed", domain.MaxFiles))
	}

	bucket := &domain.SigningBucket{
		Files:      input.Files,
		Message:    input.Message,
		SuccessURL: input.SuccessURL,
		FailURL:    input.FailURL,
	}

	if err := bucket.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	bucketID, degraded, err := u.codec.Encode(bucket)
	if err != nil {
		return nil, err
	}

	return &CreateBucketOutput{
		BucketID: bucketID,
		Degraded: degraded,
		DemoInstruction: fmt.Sprintf(
			"Presmerujte prehliadač podpisovateľa na %s?bucket=<bucketId>", u.signingAppURL),
	}, nil
}

// Open decodes a consumed bucket identifier.
func (u *bucketUseCase) Open(ctx context.Context, bucketID string) (*domain.SigningBucket, error) {
	return u.codec.Decode(bucketID)
}

// Reencode produces a fresh identifier for an updated bucket.
func (u *bucketUseCase) Reencode(ctx context.Context, bucket *domain.SigningBucket) (string, error) {
	encoded, _, err := u.codec.Encode(bucket)
	return encoded, err
}

// keyAllowed compares the presented secret against both accepted keys in
// constant time.
func (u *bucketUseCase) keyAllowed(presented string) bool {
	primary := subtle.ConstantTimeCompare([]byte(presented), []byte(u.apiKey)) == 1
	internal := subtle.ConstantTimeCompare([]byte(presented), []byte(u.internalAPIKey)) == 1
	return primary || internal
}
