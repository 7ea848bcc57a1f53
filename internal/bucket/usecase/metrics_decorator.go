package usecase

import (
	"context"
	"time"

	"github.com/slovensko-digital/podanie-demo/internal/bucket/domain"
	"github.com/slovensko-digital/podanie-demo/internal/metrics"
)

// bucketUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type bucketUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewBucketUseCaseWithMetrics wraps a bucket UseCase with metrics recording.
func NewBucketUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &bucketUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for bucket creation, including the degradation count.
func (b *bucketUseCaseWithMetrics) Create(
	ctx context.Context,
	input *CreateBucketInput,
) (*CreateBucketOutput, error) {
	start := time.Now()
	output, err := b.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "bucket", "bucket_create", status)
	b.metrics.RecordDuration(ctx, "bucket", "bucket_create", time.Since(start), status)

	if err == nil && output.Degraded {
		b.metrics.RecordOperation(ctx, "bucket", "bucket_degrade", "success")
	}

	return output, err
}

// Open records metrics for bucket decoding.
func (b *bucketUseCaseWithMetrics) Open(ctx context.Context, bucketID string) (*domain.SigningBucket, error) {
	start := time.Now()
	bucket, err := b.next.Open(ctx, bucketID)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "bucket", "bucket_open", status)
	b.metrics.RecordDuration(ctx, "bucket", "bucket_open", time.Since(start), status)

	return bucket, err
}

// Reencode records metrics for bucket re-encoding after signing.
func (b *bucketUseCaseWithMetrics) Reencode(ctx context.Context, bucket *domain.SigningBucket) (string, error) {
	start := time.Now()
	encoded, err := b.next.Reencode(ctx, bucket)

	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, "bucket", "bucket_reencode", status)
	b.metrics.RecordDuration(ctx, "bucket", "bucket_reencode", time.Since(start), status)

	return encoded, err
}
