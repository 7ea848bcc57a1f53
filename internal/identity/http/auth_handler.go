package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slovensko-digital/podanie-demo/internal/httputil"
	"github.com/slovensko-digital/podanie-demo/internal/identity/domain"
)

// defaultFakeIdentity backs the demo login when the caller supplies no
// identity of its own. The subject mirrors the slovensko.sk test accounts.
const defaultFakeIdentity = `{"sub":"rc://sk/8314451298_tisici_janko","name":"Janko Tisíci"}`

// AuthHandler handles the login, logout and consent routes of the citizen app.
type AuthHandler struct {
	sessions *SessionManager
	logger   *slog.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(sessions *SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

// LoginHandler completes the identity-provider redirect.
// GET /app/slovensko.sk/login?token=...&next_url=...
// The token query parameter is turned into the delegation cookie, then the
// client continues to next_url.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	identity, err := h.sessions.Resolve(c, false)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if identity == nil {
		h.logger.Warn("login redirect carried no usable token")
	} else {
		h.logger.Info("citizen logged in", slog.String("subject", identity.Subject))
	}

	redirectNext(c)
}

// FakeLoginHandler establishes a demo session without any identity provider.
// GET /app/fake-login?next_url=...&identity=<url-encoded JSON>
func (h *AuthHandler) FakeLoginHandler(c *gin.Context) {
	identityJSON := c.Query("identity")
	if identityJSON == "" {
		identityJSON = defaultFakeIdentity
	}

	setCookie(c, domain.CookieUseFakeIdentity, "yes", false)
	setCookie(c, domain.CookieFakeIdentity, identityJSON, false)

	h.logger.Info("fake login established")
	redirectNext(c)
}

// LogoutHandler clears every identity and consent cookie.
// GET /app/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	clearCookie(c, domain.CookieDelegation)
	clearCookie(c, domain.CookieUseFakeIdentity)
	clearCookie(c, domain.CookieFakeIdentity)
	clearCookie(c, domain.CookieConsent)

	c.Redirect(http.StatusSeeOther, "/app/citizen")
}

// ConsentHandler records the citizen's consent to act on their behalf.
// POST /app/consent
func (h *AuthHandler) ConsentHandler(c *gin.Context) {
	setCookie(c, domain.CookieConsent, "yes", false)
	redirectNext(c)
}
