// Package authn provides the session token service for Pactum.
//
// It issues and verifies signed access/refresh token pairs carrying the
// subject's identity and role claims, using an asymmetric key pair
// (RS256 or ES256). Key material is generated or loaded once at service
// bootstrap and held as read-only configuration; issuing and verifying
// are safe for concurrent use.
//
// Verification failures are returned as a typed Introspection result,
// never as a panic or an error that could crash a request-handling
// worker.
//
// Usage:
//
//	key, err := authn.GenerateKeyPair(authn.AlgorithmES256)
//	svc, err := authn.New(key,
//	    authn.WithIssuer("pactum"),
//	    authn.WithAudience("pactum-api"),
//	)
//
//	pair, err := svc.IssueTokens(ctx, subject)
//	intro := svc.Verify(ctx, pair.AccessToken)
package authn

import (
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// TokenTypeRefresh is the `typ` claim discriminator carried by refresh
// tokens. Access tokens carry no type claim.
const TokenTypeRefresh = "refresh"

// Claims is the verified claim set of a session token.
type Claims struct {
	// Subject is the subject (user) identifier.
	Subject string `json:"sub"`

	// Roles are the subject's global roles. Empty on refresh tokens,
	// which carry a minimal claim set.
	Roles []string `json:"roles,omitempty"`

	// DepartmentIDs are the subject's department memberships.
	DepartmentIDs []string `json:"dids,omitempty"`

	// TokenType distinguishes refresh tokens from access tokens.
	TokenType string `json:"typ,omitempty"`

	// Issuer and Audience echo the verified iss/aud claims.
	Issuer   string `json:"iss"`
	Audience string `json:"aud"`

	// IssuedAt and ExpiresAt are Unix seconds.
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`

	// ID is the token identifier (jti).
	ID string `json:"jti"`
}

// IsRefresh reports whether this is a refresh token claim set.
func (c *Claims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// ToSubject builds the authorization subject from the claims.
func (c *Claims) ToSubject() authz.Subject {
	roles := make([]authz.Role, len(c.Roles))
	for i, r := range c.Roles {
		roles[i] = authz.Role(r)
	}
	return authz.Subject{
		ID:            c.Subject,
		Roles:         roles,
		DepartmentIDs: c.DepartmentIDs,
	}
}

// Introspection is the typed result of token verification. Failures are
// carried in Err; callers decide the HTTP status from its errno.
type Introspection struct {
	// Valid reports whether the token verified successfully.
	Valid bool `json:"valid"`

	// Claims is the verified claim set; nil when Valid is false.
	Claims *Claims `json:"claims,omitempty"`

	// Err describes why verification failed; nil when Valid is true.
	Err *errors.Errno `json:"error,omitempty"`
}

// TokenPair is the result of issuing session tokens.
type TokenPair struct {
	// AccessToken carries the full identity claim set.
	AccessToken string `json:"access_token"`

	// RefreshToken carries a minimal claim set plus typ=refresh.
	RefreshToken string `json:"refresh_token"`

	// TokenType is the HTTP auth scheme, always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresAt is the access token expiry (Unix seconds).
	ExpiresAt int64 `json:"expires_at"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}
