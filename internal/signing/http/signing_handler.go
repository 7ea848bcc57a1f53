// Package http implements the stand-in signing app. It decodes a bucket
// from the redirect, lets the signer accept or reject it, and bounces the
// browser back to the producing app with the updated bucket.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	bucketUseCase "github.com/slovensko-digital/podanie-demo/internal/bucket/usecase"
	"github.com/slovensko-digital/podanie-demo/internal/httputil"
	"github.com/slovensko-digital/podanie-demo/internal/signing/http/dto"
)

// SigningHandler handles the signing app routes.
type SigningHandler struct {
	buckets bucketUseCase.UseCase
	logger  *slog.Logger
}

// NewSigningHandler creates a signing handler.
func NewSigningHandler(buckets bucketUseCase.UseCase, logger *slog.Logger) *SigningHandler {
	return &SigningHandler{buckets: buckets, logger: logger}
}

// ViewHandler shows the signing request carried by the bucket parameter.
// GET /app/podpisovac?bucket=
func (h *SigningHandler) ViewHandler(c *gin.Context) {
	bucketID := c.Query("bucket")
	if bucketID == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("bucket parameter is required"), h.logger)
		return
	}

	bucket, err := h.buckets.Open(c.Request.Context(), bucketID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	view := dto.SigningView{
		Message:    bucket.Message,
		Files:      make([]dto.SigningFileView, 0, len(bucket.Files)),
		SuccessURL: bucket.SuccessURL,
		FailURL:    bucket.FailURL,
		SignAction: "/app/podpisovac/sign",
	}
	for _, file := range bucket.Files {
		view.Files = append(view.Files, dto.SigningFileView{
			Name:     file.Name,
			MimeType: file.MimeType,
			IsSigned: file.IsSigned,
		})
	}

	c.JSON(http.StatusOK, view)
}

// SignHandler records the signer's decision and sends the browser back.
// POST /app/podpisovac/sign - form fields: bucket, signed=yes|no.
// Acceptance marks every file signed and redirects to successUrl;
// rejection leaves the files unsigned and redirects to failUrl. Either
// way the updated bucket travels along as the bucket parameter.
func (h *SigningHandler) SignHandler(c *gin.Context) {
	bucketID := c.PostForm("bucket")
	if bucketID == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("bucket field is required"), h.logger)
		return
	}

	bucket, err := h.buckets.Open(c.Request.Context(), bucketID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	signed := c.PostForm("signed") == "yes"
	for i := range bucket.Files {
		bucket.Files[i].IsSigned = signed
	}

	updated, err := h.buckets.Reencode(c.Request.Context(), bucket)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	target := bucket.FailURL
	if signed {
		target = bucket.SuccessURL
	}

	h.logger.Info("signing decision recorded", slog.Bool("signed", signed))
	c.Redirect(http.StatusSeeOther, appendBucketParam(target, updated))
}

// appendBucketParam attaches the bucket parameter to a continuation URL,
// respecting any query string it already has.
func appendBucketParam(target, bucketID string) string {
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + "bucket=" + url.QueryEscape(bucketID)
}
