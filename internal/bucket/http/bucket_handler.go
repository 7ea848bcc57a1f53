// Package http exposes the bucket creation API consumed by producing apps.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slovensko-digital/podanie-demo/internal/bucket/domain"
	"github.com/slovensko-digital/podanie-demo/internal/bucket/http/dto"
	bucketUseCase "github.com/slovensko-digital/podanie-demo/internal/bucket/usecase"
	"github.com/slovensko-digital/podanie-demo/internal/httputil"
)

// maxFileBytes bounds a single uploaded file. Oversized signing requests
// are degraded by the codec, this limit only protects the process.
const maxFileBytes = 10 << 20

// BucketHandler handles the producer-side bucket API.
type BucketHandler struct {
	useCase bucketUseCase.UseCase
	logger  *slog.Logger
}

// NewBucketHandler creates a bucket handler.
func NewBucketHandler(useCase bucketUseCase.UseCase, logger *slog.Logger) *BucketHandler {
	return &BucketHandler{useCase: useCase, logger: logger}
}

// CreateHandler mints a bucket identifier from a multipart upload.
// POST /api/bucket - multipart fields: apiKey, message, successUrl, failUrl
// and 1 to 3 files. Returns 200 with {demoInstruction, bucketId},
// 401 on a wrong key, 400 on invalid input.
func (h *BucketHandler) CreateHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid multipart form: %w", err), h.logger)
		return
	}

	files, err := readUploadedFiles(form.File["files"])
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.useCase.Create(c.Request.Context(), &bucketUseCase.CreateBucketInput{
		APIKey:     c.PostForm("apiKey"),
		Message:    c.PostForm("message"),
		SuccessURL: c.PostForm("successUrl"),
		FailURL:    c.PostForm("failUrl"),
		Files:      files,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if output.Degraded {
		h.logger.Info("bucket contents degraded to placeholder notices")
	}

	c.JSON(http.StatusOK, dto.CreateBucketResponse{
		DemoInstruction: output.DemoInstruction,
		BucketID:        output.BucketID,
	})
}

func readUploadedFiles(headers []*multipart.FileHeader) ([]domain.File, error) {
	files := make([]domain.File, 0, len(headers))

	for _, header := range headers {
		if header.Size > maxFileBytes {
			return nil, fmt.Errorf("file %q exceeds the upload limit", header.Filename)
		}

		opened, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("opening file %q: %w", header.Filename, err)
		}

		data, err := io.ReadAll(io.LimitReader(opened, maxFileBytes))
		_ = opened.Close()
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", header.Filename, err)
		}

		files = append(files, domain.NewFile(header.Filename, header.Header.Get("Content-Type"), data))
	}

	return files, nil
}
