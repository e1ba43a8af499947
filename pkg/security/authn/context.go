package authn

import (
	"context"

	"github.com/pactum-io/pactum/pkg/security/authz"
)

// contextKey is the type for context keys in this package.
type contextKey string

const (
	// claimsKey is the context key for storing verified Claims.
	claimsKey contextKey = "authn:claims"

	// subjectKey is the context key for storing the authorization subject.
	subjectKey contextKey = "authn:subject"

	// tokenKey is the context key for storing the raw token string.
	tokenKey contextKey = "authn:token"
)

// ContextWithClaims returns a new context with the given claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims from the context.
// Returns nil if no claims are found.
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

// ContextWithSubject returns a new context with the given subject.
func ContextWithSubject(ctx context.Context, subject authz.Subject) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFromContext returns the authorization subject from the context.
func SubjectFromContext(ctx context.Context) (authz.Subject, bool) {
	subject, ok := ctx.Value(subjectKey).(authz.Subject)
	return subject, ok
}

// ContextWithToken returns a new context with the given token string.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the token string from the context.
// Returns empty string if no token is found.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}

// InjectAuth injects all authentication information into the context.
func InjectAuth(ctx context.Context, claims *Claims, token string) context.Context {
	ctx = ContextWithClaims(ctx, claims)
	ctx = ContextWithToken(ctx, token)
	if claims != nil {
		ctx = ContextWithSubject(ctx, claims.ToSubject())
	}
	return ctx
}

// MustSubjectFromContext returns the subject from context or panics.
func MustSubjectFromContext(ctx context.Context) authz.Subject {
	subject, ok := SubjectFromContext(ctx)
	if !ok {
		panic("authn: subject not found in context")
	}
	return subject
}
