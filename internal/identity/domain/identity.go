// Package domain contains the identity model shared by the session resolver,
// the token service and the workflow handlers.
package domain

import "time"

// FakeToken is the sentinel delegation token used by the fake-identity demo
// path. It must never be sent to a real upstream endpoint.
const FakeToken = "fake-token"

// Cookie names shared across the cooperating applications.
const (
	// CookieDelegation holds the raw delegated (OBO) token, httpOnly.
	CookieDelegation = "delegation"
	// CookieUseFakeIdentity marks that the client prefers the fake identity path.
	CookieUseFakeIdentity = "use-fake-identity"
	// CookieFakeIdentity holds a URL-encoded JSON Identity for demo logins.
	CookieFakeIdentity = "fake-identity"
	// CookieConsent marks that the signer agreed to act on behalf of themselves.
	CookieConsent = "consent-granted"
)

// Identity represents an authenticated principal for the duration of one
// delegated session. It is reconstructed from cookies on every request and
// never persisted server-side.
type Identity struct {
	// Subject is the opaque principal identifier (UPVS "sub" claim).
	Subject string `json:"sub"`
	// Name is an optional display name carried by fake identities.
	Name string `json:"name,omitempty"`
	// ExpiresAt is the Unix timestamp after which the backing grant is invalid.
	ExpiresAt int64 `json:"exp"`
	// DelegationToken is the raw inbound OBO token used to mint further
	// delegated tokens. Never serialized into the fake-identity cookie.
	DelegationToken string `json:"-"`
}

// Expired reports whether the identity's backing grant has lapsed.
func (i *Identity) Expired(now time.Time) bool {
	return i.ExpiresAt != 0 && now.Unix() >= i.ExpiresAt
}

// IsFake reports whether this identity came from the fake-identity demo path.
func (i *Identity) IsFake() bool {
	return i.DelegationToken == FakeToken
}
