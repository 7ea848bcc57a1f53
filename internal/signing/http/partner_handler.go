package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slovensko-digital/podanie-demo/internal/httputil"
	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
	"github.com/slovensko-digital/podanie-demo/internal/signing/http/dto"
)

// PartnerHandler serves the credentials a partner integration presents to
// the external signing service.
type PartnerHandler struct {
	codes    identityService.AuthorizationCodeGenerator
	username string
	partner  string
	baseURL  string
	logger   *slog.Logger
}

// NewPartnerHandler creates a partner credentials handler.
func NewPartnerHandler(
	codes identityService.AuthorizationCodeGenerator,
	username, partnerID, baseURL string,
	logger *slog.Logger,
) *PartnerHandler {
	return &PartnerHandler{
		codes:    codes,
		username: username,
		partner:  partnerID,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// CredentialsHandler returns the partner identity plus a freshly signed
// authorization code. The partner service enforces the code's freshness.
// GET /api/partner/credentials
func (h *PartnerHandler) CredentialsHandler(c *gin.Context) {
	code, err := h.codes.Generate()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PartnerCredentialsResponse{
		Username:          h.username,
		PartnerID:         h.partner,
		AuthorizationCode: code,
		APIBaseURL:        h.baseURL,
	})
}
