// Package domain contains the signing bucket model: a self-describing,
// stateless unit of work carried across applications inside its own encoding.
package domain

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	"github.com/slovensko-digital/podanie-demo/internal/textutil"
	customValidation "github.com/slovensko-digital/podanie-demo/internal/validation"
)

// MaxFiles is the upper bound on files per signing request.
const MaxFiles = 3

// File is one document inside a signing bucket. Content always holds the
// base64-encoded payload so the bucket survives JSON serialization for any
// input bytes.
type File struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
	IsSigned bool   `json:"isSigned"`
}

// NewFile builds a File from raw bytes. The name is normalized with
// diacritics stripped so every hop of the hand-off sees the same file name.
func NewFile(name, mimeType string, data []byte) File {
	return File{
		Name:     textutil.RemoveDiacritics(name),
		MimeType: mimeType,
		Content:  base64.StdEncoding.EncodeToString(data),
	}
}

// SigningBucket represents "these files need human signature, then continue
// to SuccessURL or FailURL". Its encoded form is its sole identity; nothing
// is stored server-side.
type SigningBucket struct {
	Files      []File `json:"files"`
	Message    string `json:"message"`
	SuccessURL string `json:"successUrl"`
	FailURL    string `json:"failUrl"`
}

// Validate enforces the producer-side invariants. File-count bounds are
// checked separately by the creation endpoint so it can answer with the
// exact status codes the integration contract fixes.
func (b *SigningBucket) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Message,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&b.SuccessURL,
			validation.Required,
			customValidation.AbsoluteURL,
		),
		validation.Field(&b.FailURL,
			validation.Required,
			customValidation.AbsoluteURL,
		),
	)
}

// AllSigned reports whether every file in the bucket carries a signature.
func (b *SigningBucket) AllSigned() bool {
	if len(b.Files) == 0 {
		return false
	}
	for _, f := range b.Files {
		if !f.IsSigned {
			return false
		}
	}
	return true
}
