// Package http provides the login, logout and consent handlers plus the
// session glue between Gin and the cookie-based identity resolver.
package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/slovensko-digital/podanie-demo/internal/identity/domain"
	identityUseCase "github.com/slovensko-digital/podanie-demo/internal/identity/usecase"
)

const cookieMaxAge = 8 * 60 * 60

// SessionManager translates a Gin request into resolver input and applies
// the resolver's cookie instructions to the response.
type SessionManager struct {
	resolver identityUseCase.SessionResolver
	logger   *slog.Logger
}

// NewSessionManager creates a session manager.
func NewSessionManager(resolver identityUseCase.SessionResolver, logger *slog.Logger) *SessionManager {
	return &SessionManager{resolver: resolver, logger: logger}
}

// Resolve reconstructs the request's identity from cookies and the token
// query parameter. It returns nil when the request is unauthenticated.
func (m *SessionManager) Resolve(c *gin.Context, verifyRemotely bool) (*domain.Identity, error) {
	input := &identityUseCase.ResolveInput{
		UseFakeIdentity:    rawCookie(c, domain.CookieUseFakeIdentity) == "yes",
		FakeIdentityCookie: rawCookie(c, domain.CookieFakeIdentity),
		QueryToken:         c.Query("token"),
		CookieToken:        rawCookie(c, domain.CookieDelegation),
	}

	resolution, err := m.resolver.Resolve(c.Request.Context(), input, verifyRemotely)
	if err != nil {
		return nil, err
	}

	if resolution.SetDelegation {
		setCookie(c, domain.CookieDelegation, resolution.Identity.DelegationToken, true)
	}
	if resolution.ClearCookies {
		clearCookie(c, domain.CookieDelegation)
		clearCookie(c, domain.CookieFakeIdentity)
	}

	return resolution.Identity, nil
}

// LoginURL picks the login route for an unauthenticated request. Requests
// that opted into the fake identity go to the fake login, everything else
// to the real identity provider. nextURL is carried along either way.
func (m *SessionManager) LoginURL(c *gin.Context, nextURL string) string {
	if nextURL == "" {
		nextURL = c.Request.URL.RequestURI()
	}

	route := "/app/slovensko.sk/login"
	if rawCookie(c, domain.CookieUseFakeIdentity) == "yes" {
		route = "/app/fake-login"
	}

	return route + "?next_url=" + url.QueryEscape(nextURL)
}

// ConsentGranted reports whether the consent cookie is present.
func (m *SessionManager) ConsentGranted(c *gin.Context) bool {
	return rawCookie(c, domain.CookieConsent) == "yes"
}

// rawCookie returns the cookie value without Gin's automatic unescaping.
// The resolver owns decoding of the JSON identity cookie.
func rawCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setCookie(c *gin.Context, name, value string, httpOnly bool) {
	c.SetCookie(name, value, cookieMaxAge, "/", "", false, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}

// redirectNext sends the client to the next_url parameter, falling back to
// the citizen app index.
func redirectNext(c *gin.Context) {
	next := c.Query("next_url")
	if next == "" {
		next = "/app/citizen"
	}
	c.Redirect(http.StatusSeeOther, next)
}
