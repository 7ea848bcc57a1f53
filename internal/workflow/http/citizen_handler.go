// Package http implements the citizen-facing producing app: the journey
// from login through consent and signing to message submission.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	bucketDomain "github.com/slovensko-digital/podanie-demo/internal/bucket/domain"
	bucketUseCase "github.com/slovensko-digital/podanie-demo/internal/bucket/usecase"
	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
	"github.com/slovensko-digital/podanie-demo/internal/httputil"
	identityHTTP "github.com/slovensko-digital/podanie-demo/internal/identity/http"
	identityService "github.com/slovensko-digital/podanie-demo/internal/identity/service"
	"github.com/slovensko-digital/podanie-demo/internal/messaging"
	"github.com/slovensko-digital/podanie-demo/internal/workflow/domain"
	"github.com/slovensko-digital/podanie-demo/internal/workflow/http/dto"
)

const (
	defaultSubject = "Všeobecná agenda"
	defaultText    = "Podávam toto demo podanie elektronicky."
)

// Submitter posts a finished envelope to the message gateway.
type Submitter interface {
	SubmitMessage(ctx context.Context, bearerToken, envelope string) ([]byte, error)
}

// CitizenHandlerConfig carries the static wiring of the citizen app.
type CitizenHandlerConfig struct {
	// PublicBaseURL is the externally reachable base of this app, used to
	// build the bucket's continuation URLs.
	PublicBaseURL string
	// SigningAppURL is where the browser is sent to sign the bucket.
	SigningAppURL string
	// InternalAPIKey authorizes this app's own bucket creation.
	InternalAPIKey string
}

// CitizenHandler handles the citizen app routes.
type CitizenHandler struct {
	sessions *identityHTTP.SessionManager
	buckets  bucketUseCase.UseCase
	tokens   identityService.TokenService
	gateway  Submitter
	cfg      CitizenHandlerConfig
	logger   *slog.Logger
}

// NewCitizenHandler creates a citizen handler.
func NewCitizenHandler(
	sessions *identityHTTP.SessionManager,
	buckets bucketUseCase.UseCase,
	tokens identityService.TokenService,
	gateway Submitter,
	cfg CitizenHandlerConfig,
	logger *slog.Logger,
) *CitizenHandler {
	return &CitizenHandler{
		sessions: sessions,
		buckets:  buckets,
		tokens:   tokens,
		gateway:  gateway,
		cfg:      cfg,
		logger:   logger,
	}
}

// IndexHandler shows where the citizen stands in the journey.
// GET /app/citizen - the one route that re-validates the session remotely.
func (h *CitizenHandler) IndexHandler(c *gin.Context) {
	identity, err := h.sessions.Resolve(c, true)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	view := dto.CitizenView{LogoutURL: "/app/logout"}

	if identity == nil {
		view.State = string(domain.StateUnauthenticated)
		view.LoginRequired = true
		view.LoginURL = h.sessions.LoginURL(c, "/app/citizen")
		c.JSON(http.StatusOK, view)
		return
	}

	view.Identity = &dto.IdentityView{Subject: identity.Subject, Name: identity.Name}

	if h.sessions.ConsentGranted(c) {
		view.State = string(domain.StateConsented)
		view.ConsentGranted = true
		view.StartAction = "/app/citizen/start"
	} else {
		view.State = string(domain.StateAuthenticated)
		view.ConsentAction = "/app/consent"
	}

	c.JSON(http.StatusOK, view)
}

// StartHandler builds the submission's bucket and hands the browser over to
// the signing app.
// GET /app/citizen/start?subject=&text=
func (h *CitizenHandler) StartHandler(c *gin.Context) {
	identity, err := h.sessions.Resolve(c, false)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if identity == nil || !h.sessions.ConsentGranted(c) {
		c.Redirect(http.StatusSeeOther, "/app/citizen")
		return
	}

	if _, err := domain.Transition(domain.StateConsented, domain.TriggerCreateBucket); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	subject := c.DefaultQuery("subject", defaultSubject)
	text := c.DefaultQuery("text", defaultText)

	formXML, err := messaging.BuildGeneralAgendaForm(subject, text)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.buckets.Create(c.Request.Context(), &bucketUseCase.CreateBucketInput{
		APIKey:     h.cfg.InternalAPIKey,
		Message:    subject,
		SuccessURL: h.cfg.PublicBaseURL + "/app/citizen/success",
		FailURL:    h.cfg.PublicBaseURL + "/app/citizen/failure",
		Files: []bucketDomain.File{
			bucketDomain.NewFile("form.xml", "application/x-eform-xml", []byte(formXML)),
		},
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("signing bucket created",
		slog.String("subject", identity.Subject),
		slog.Bool("degraded", output.Degraded),
	)

	c.Redirect(http.StatusSeeOther,
		h.cfg.SigningAppURL+"?bucket="+url.QueryEscape(output.BucketID))
}

// SuccessHandler completes the journey after the signing app sent the
// browser back: it wraps the signed bucket in an envelope, mints a
// delegated token and submits the message. Upstream rejections are
// forwarded with their original status and body.
// GET|POST /app/citizen/success?bucket=
func (h *CitizenHandler) SuccessHandler(c *gin.Context) {
	identity, err := h.sessions.Resolve(c, false)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if identity == nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrUnauthorized, "submission requires a logged in citizen"),
			h.logger)
		return
	}

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

	if !bucket.AllSigned() {
		if _, err := domain.Transition(domain.StateBucketCreated, domain.TriggerSignFailure); err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.Redirect(http.StatusSeeOther, "/app/citizen/failure")
		return
	}

	envelope, err := buildSubmissionEnvelope(identity.Subject, bucket)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	bearer, err := h.tokens.Mint(identity)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	receipt, err := h.gateway.SubmitMessage(c.Request.Context(), bearer, envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("message submitted", slog.String("subject", identity.Subject))
	c.JSON(http.StatusOK, dto.SubmissionResult{
		State:   string(domain.StateSubmitted),
		Receipt: receipt,
	})
}

// FailureHandler is the journey's terminal failure view.
// GET /app/citizen/failure
func (h *CitizenHandler) FailureHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FailureView{
		State:   string(domain.StateFailed),
		Message: "Podpisovanie bolo zrušené alebo zlyhalo. Podanie nebolo odoslané.",
	})
}

// buildSubmissionEnvelope maps the signed bucket onto an envelope: the
// first file is the form, the rest travel as attachments.
func buildSubmissionEnvelope(senderID string, bucket *bucketDomain.SigningBucket) (string, error) {
	if len(bucket.Files) == 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "bucket has no files to submit")
	}

	input := &messaging.EnvelopeInput{
		SenderID: senderID,
		Subject:  bucket.Message,
		Form: messaging.EnvelopeObject{
			Name:        bucket.Files[0].Name,
			Description: "General Agenda XML",
			MimeType:    bucket.Files[0].MimeType,
			Content:     bucket.Files[0].Content,
			IsSigned:    bucket.Files[0].IsSigned,
		},
	}
	for _, file := range bucket.Files[1:] {
		input.Attachments = append(input.Attachments, messaging.EnvelopeObject{
			Name:     file.Name,
			MimeType: file.MimeType,
			Content:  file.Content,
			IsSigned: file.IsSigned,
		})
	}

	return messaging.BuildEnvelope(input)
}
