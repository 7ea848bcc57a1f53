// Package usecase implements per-request identity resolution. An Identity is
// reconstructed from cookies on every request and discarded afterwards; the
// only server memory of a session are the cookies echoed back to the client.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
	"github.com/slovensko-digital/podanie-demo/internal/identity/domain"
	"github.com/slovensko-digital/podanie-demo/internal/identity/service"
	"github.com/slovensko-digital/podanie-demo/internal/metrics"
)

// UserInfoClient checks a session against the remote who-am-I endpoint.
// Any returned error, network or non-2xx alike, means "session invalid".
type UserInfoClient interface {
	Check(ctx context.Context, bearerToken string) error
}

// ResolveInput carries the request state the resolver inspects. The HTTP
// layer extracts cookie and query values; the resolver stays free of Gin.
type ResolveInput struct {
	// UseFakeIdentity is true when the use-fake-identity cookie reads "yes".
	UseFakeIdentity bool
	// FakeIdentityCookie is the raw (still URL-encoded) fake-identity cookie value.
	FakeIdentityCookie string
	// QueryToken is the token query parameter from the first login redirect.
	QueryToken string
	// CookieToken is the delegation cookie value from subsequent requests.
	CookieToken string
}

// Resolution is the resolver's outcome, cookie side effects expressed as
// data so the HTTP layer can apply them.
type Resolution struct {
	// Identity is nil when no identity could be resolved.
	Identity *domain.Identity
	// SetDelegation instructs the HTTP layer to (re)set the delegation cookie
	// to Identity.DelegationToken, httpOnly.
	SetDelegation bool
	// ClearCookies instructs the HTTP layer to clear the delegation and
	// fake-identity cookies.
	ClearCookies bool
}

// SessionResolver resolves an inbound request to an Identity, optionally
// re-validating against the remote identity provider.
type SessionResolver interface {
	// Resolve suspends for at most one outbound round trip. It returns an
	// error only for configuration faults (unmintable verification token);
	// a failed remote check degrades silently to "no identity".
	Resolve(ctx context.Context, input *ResolveInput, verifyRemotely bool) (*Resolution, error)
}

type sessionResolver struct {
	tokens   service.TokenService
	userInfo UserInfoClient
	metrics  metrics.BusinessMetrics
	logger   *slog.Logger
}

// NewSessionResolver creates a session resolver.
func NewSessionResolver(
	tokens service.TokenService,
	userInfo UserInfoClient,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) SessionResolver {
	return &sessionResolver{
		tokens:   tokens,
		userInfo: userInfo,
		metrics:  m,
		logger:   logger,
	}
}

// Resolve implements the resolution algorithm.
func (r *sessionResolver) Resolve(
	ctx context.Context,
	input *ResolveInput,
	verifyRemotely bool,
) (*Resolution, error) {
	start := time.Now()

	resolution, err := r.resolve(ctx, input, verifyRemotely)

	status := "success"
	if err != nil || resolution == nil || resolution.Identity == nil {
		status = "error"
	}
	r.metrics.RecordOperation(ctx, "identity", "session_resolve", status)
	r.metrics.RecordDuration(ctx, "identity", "session_resolve", time.Since(start), status)

	return resolution, err
}

func (r *sessionResolver) resolve(
	ctx context.Context,
	input *ResolveInput,
	verifyRemotely bool,
) (*Resolution, error) {
	// Demo path: the fake-identity cookie is the identity, no network involved.
	if input.UseFakeIdentity {
		identity := decodeFakeIdentity(input.FakeIdentityCookie)
		if identity == nil {
			return &Resolution{ClearCookies: true}, nil
		}
		identity.DelegationToken = domain.FakeToken
		return &Resolution{Identity: identity, SetDelegation: true}, nil
	}

	// The query parameter wins on the first login redirect; afterwards the
	// delegation cookie carries the token.
	token := input.QueryToken
	if token == "" {
		token = input.CookieToken
	}
	if token == "" {
		return &Resolution{ClearCookies: true}, nil
	}

	identity, err := r.tokens.IdentityFromToken(token)
	if err != nil {
		return &Resolution{ClearCookies: true}, nil
	}

	if verifyRemotely && token != domain.FakeToken {
		bearer, err := r.tokens.Mint(identity)
		if err != nil {
			// Unusable signing key is a configuration fault, not a session fault.
			return nil, apperrors.Wrap(err, "minting session verification token")
		}

		if err := r.userInfo.Check(ctx, bearer); err != nil {
			// A broken or expired remote session degrades to "no identity"
			// rather than surfacing an error. Worth revisiting: this also
			// hides real upstream outages.
			r.logger.Warn("remote session check failed, clearing identity",
				slog.String("subject", identity.Subject),
				slog.Any("error", err),
			)
			return &Resolution{ClearCookies: true}, nil
		}
	}

	return &Resolution{Identity: identity, SetDelegation: true}, nil
}

// decodeFakeIdentity parses the URL-encoded JSON identity cookie. Any decode
// failure yields no identity.
func decodeFakeIdentity(cookieValue string) *domain.Identity {
	if cookieValue == "" {
		return nil
	}

	decoded, err := url.QueryUnescape(cookieValue)
	if err != nil {
		return nil
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(decoded), &identity); err != nil {
		return nil
	}
	if identity.Subject == "" {
		return nil
	}

	return &identity
}
