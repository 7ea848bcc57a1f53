// Package dto defines the wire types of the bucket API.
package dto

// CreateBucketResponse is the producer-facing result of bucket creation.
// BucketID is the bucket's full stateless representation.
type CreateBucketResponse struct {
	DemoInstruction string `json:"demoInstruction"`
	BucketID        string `json:"bucketId"`
}
